package filter

import (
	"fmt"
	"time"
)

// Window is the time predicate a record's last update must satisfy
type Window interface {
	// Contains reports whether t falls inside the window
	Contains(t time.Time) bool
	// Before reports whether t is strictly earlier than the window start
	Before(t time.Time) bool
	String() string
}

// RangeWindow accepts instants in [Start, End], both ends inclusive
type RangeWindow struct {
	Start time.Time
	End   time.Time
}

func (w RangeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w RangeWindow) Before(t time.Time) bool {
	return t.Before(w.Start)
}

func (w RangeWindow) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// LastMonths is the window from n calendar months before now up to now
func LastMonths(now time.Time, n int) RangeWindow {
	return RangeWindow{Start: now.AddDate(0, -n, 0), End: now}
}

// DayWindow accepts instants whose calendar date in Location equals Date's
type DayWindow struct {
	Date     time.Time
	Location *time.Location
}

func (w DayWindow) loc() *time.Location {
	if w.Location == nil {
		return time.Local
	}
	return w.Location
}

func (w DayWindow) Contains(t time.Time) bool {
	y1, m1, d1 := t.In(w.loc()).Date()
	y2, m2, d2 := w.Date.In(w.loc()).Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func (w DayWindow) Before(t time.Time) bool {
	y, m, d := w.Date.In(w.loc()).Date()
	return t.Before(time.Date(y, m, d, 0, 0, 0, 0, w.loc()))
}

func (w DayWindow) String() string {
	return w.Date.In(w.loc()).Format("2006-01-02")
}
