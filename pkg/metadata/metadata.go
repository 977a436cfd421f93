package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"playharvest/pkg/storage"
)

// Stop reasons recorded for a work unit
const (
	StopShortBatch  = "short_batch"
	StopReachedOld  = "reached_old_apps"
	StopFixedList   = "fixed_list"
	StopError       = "error"
	StopInterrupted = "interrupted"
)

// UnitSummary holds the statistics of one work unit
type UnitSummary struct {
	Key        string `json:"key"`
	Country    string `json:"country"`
	Category   string `json:"category"`
	Collection string `json:"collection,omitempty"`

	// Pages processed in this run, starting at StartPage
	StartPage int `json:"start_page"`
	Pages     int `json:"pages"`

	Fetched int `json:"fetched"`
	Matched int `json:"matched"`

	StopReason string `json:"stop_reason,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Failed reports whether the unit was abandoned on an error
func (u *UnitSummary) Failed() bool {
	return u.Error != ""
}

// Summary describes one harvest run
type Summary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Mode   string `json:"mode"`
	Window string `json:"window"`

	// Records held by the checkpoint when the run started and ended
	Resumed   int `json:"resumed"`
	Collected int `json:"collected"`

	Output   string `json:"output,omitempty"`
	Exported bool   `json:"exported"`

	Units []UnitSummary `json:"units"`
}

// Duration is the wall time of the run
func (s *Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Totals sums fetched and matched records over every unit
func (s *Summary) Totals() (fetched, matched int) {
	for _, u := range s.Units {
		fetched += u.Fetched
		matched += u.Matched
	}
	return fetched, matched
}

// Failures returns the units that ended in an error
func (s *Summary) Failures() []UnitSummary {
	var failed []UnitSummary
	for _, u := range s.Units {
		if u.Failed() {
			failed = append(failed, u)
		}
	}
	return failed
}

// Save writes the summary as indented JSON, replacing path atomically
func (s *Summary) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	err = storage.WriteFile(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write summary file: %w", err)
	}
	return nil
}

// Load reads a summary written by Save
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary file: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &s, nil
}
