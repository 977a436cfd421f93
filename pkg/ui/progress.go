package ui

import (
	"fmt"
	"time"
)

// Stats keeps running totals for a harvest
type Stats struct {
	Units     int
	Failed    int
	Pages     int
	Fetched   int
	Matched   int
	StartTime time.Time
}

// NewStats starts the clock
func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Elapsed returns the time since the stats were created
func (s *Stats) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Rate returns fetched records per minute
func (s *Stats) Rate() float64 {
	minutes := s.Elapsed().Minutes()
	if minutes == 0 {
		return 0
	}
	return float64(s.Fetched) / minutes
}

// MatchRatio returns the share of fetched records that were kept, in percent
func (s *Stats) MatchRatio() float64 {
	if s.Fetched == 0 {
		return 0
	}
	return float64(s.Matched) * 100 / float64(s.Fetched)
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}
