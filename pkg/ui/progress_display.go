package ui

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// ProgressDisplay prints one line per processed page and a closing summary
type ProgressDisplay struct {
	mu    sync.Mutex
	out   io.Writer
	quiet bool
	unit  string
	stats *Stats
}

// NewProgressDisplay writes to out; a quiet display prints nothing
func NewProgressDisplay(out io.Writer, quiet bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:   out,
		quiet: quiet,
		stats: NewStats(),
	}
}

// Stats returns the running totals
func (p *ProgressDisplay) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return *p.stats
}

func (p *ProgressDisplay) printf(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format, args...)
}

// UnitStarted announces a work unit and the page it resumes from
func (p *ProgressDisplay) UnitStarted(unit string, page int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.unit = unit
	p.stats.Units++
	if page > 0 {
		p.printf("\n%s %s %s\n", Magenta("→"), Cyan(unit), Dim(fmt.Sprintf("(resuming at page %d)", page+1)))
		return
	}
	p.printf("\n%s %s\n", Magenta("→"), Cyan(unit))
}

// PageProcessed reports one fetched page. page is zero-based.
func (p *ProgressDisplay) PageProcessed(page, fetched, matched, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Pages++
	p.stats.Fetched += fetched
	p.stats.Matched += matched

	p.printf("  Page %d: Retrieved %d apps\n", page+1, fetched)
	p.printf("  Found %s matching apps %s\n", Yellow(fmt.Sprint(matched)), Dim(fmt.Sprintf("(total %d)", total)))
}

// UnitFinished reports why a unit stopped
func (p *ProgressDisplay) UnitFinished(unit, reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("  %s %s %s\n", Green("✓"), unit, Dim(reason))
}

// UnitFailed reports an abandoned unit
func (p *ProgressDisplay) UnitFailed(unit string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Failed++
	p.printf("  %s %s: %v\n", Red("✗"), unit, err)
}

// Waiting reports the pause before the next page
func (p *ProgressDisplay) Waiting(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.printf("  %s\n", Dim(fmt.Sprintf("waiting %s before next page", FormatDuration(d))))
}

// Finished prints the closing summary
func (p *ProgressDisplay) Finished(collected int, output string, exported bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.stats
	p.printf("\n%s Collected %d apps across %d units\n", Green("✓"), collected, s.Units)
	p.printf("  %s %d pages, %d apps fetched, %d matched (%.1f%%) in %s, %.0f apps/min\n",
		Dim("•"), s.Pages, s.Fetched, s.Matched, s.MatchRatio(), FormatDuration(s.Elapsed()), s.Rate())
	if s.Failed > 0 {
		p.printf("  %s %s\n", Dim("•"), Red(fmt.Sprintf("%d units failed", s.Failed)))
	}
	if exported {
		p.printf("  %s saved to %s\n", Dim("•"), Yellow(output))
	} else {
		p.printf("  %s nothing to export\n", Dim("•"))
	}
}
