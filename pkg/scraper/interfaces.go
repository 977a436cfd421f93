package scraper

import "time"

// Progress receives per-page and per-unit events for console display
type Progress interface {
	UnitStarted(unit string, page int)
	PageProcessed(page, fetched, matched, total int)
	UnitFinished(unit, reason string)
	UnitFailed(unit string, err error)
	Waiting(d time.Duration)
	Finished(collected int, output string, exported bool)
}

type nopProgress struct{}

func (nopProgress) UnitStarted(string, int)          {}
func (nopProgress) PageProcessed(int, int, int, int) {}
func (nopProgress) UnitFinished(string, string)      {}
func (nopProgress) UnitFailed(string, error)         {}
func (nopProgress) Waiting(time.Duration)            {}
func (nopProgress) Finished(int, string, bool)       {}
