package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"playharvest/pkg/logger"
	"playharvest/pkg/models"
	"playharvest/pkg/storage"
)

// Format selects the on-disk shape of a checkpoint
type Format int

const (
	// FormatPaged stores records and the per-unit page cursor:
	// {"collectedApps": [...], "processedPages": {"us_TOOLS": 3}}
	FormatPaged Format = iota
	// FormatList stores the bare record array
	FormatList
)

// ParseFormat maps "paged" or "list" to a Format
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "paged":
		return FormatPaged, nil
	case "list":
		return FormatList, nil
	default:
		return FormatPaged, fmt.Errorf("unknown checkpoint format: %s", s)
	}
}

// State is everything a run needs to resume: the collected records, the
// ids already seen and the next page per work unit
type State struct {
	CollectedApps  []models.App   `json:"collectedApps"`
	ProcessedPages map[string]int `json:"processedPages"`

	seen      models.SeenSet
	collected models.SeenSet
}

// NewState returns an empty state
func NewState() *State {
	s := &State{}
	s.rebuild()
	return s
}

func (s *State) rebuild() {
	if s.CollectedApps == nil {
		s.CollectedApps = []models.App{}
	}
	if s.ProcessedPages == nil {
		s.ProcessedPages = map[string]int{}
	}
	s.seen = models.NewSeenSet(s.CollectedApps)
	s.collected = models.NewSeenSet(s.CollectedApps)
}

// Seen exposes the id set the filter consults and extends. It always
// contains every collected id.
func (s *State) Seen() models.SeenSet {
	if s.seen == nil {
		s.rebuild()
	}
	return s.seen
}

// Has reports whether a record with id was collected
func (s *State) Has(id string) bool {
	s.Seen()
	return s.collected.Has(id)
}

// Add appends app unless a record with the same id was collected already
func (s *State) Add(app models.App) bool {
	seen := s.Seen()
	if s.collected.Has(app.AppID) {
		return false
	}
	s.CollectedApps = append(s.CollectedApps, app)
	s.collected.Add(app.AppID)
	seen.Add(app.AppID)
	return true
}

// Cursor is the next page to fetch for a work unit key, 0 when absent
func (s *State) Cursor(key string) int {
	return s.ProcessedPages[key]
}

// SetCursor records the next page to fetch for a work unit key
func (s *State) SetCursor(key string, page int) {
	if s.ProcessedPages == nil {
		s.ProcessedPages = map[string]int{}
	}
	s.ProcessedPages[key] = page
}

// Len is the number of collected records
func (s *State) Len() int {
	return len(s.CollectedApps)
}

// Apps returns the collected records in collection order
func (s *State) Apps() []models.App {
	return s.CollectedApps
}

// Units returns the work unit keys with a stored cursor, sorted
func (s *State) Units() []string {
	keys := make([]string, 0, len(s.ProcessedPages))
	for k := range s.ProcessedPages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Manager loads and saves a State at a fixed path
type Manager struct {
	checkpointPath string
	format         Format
	logger         logger.Logger
}

// NewManager creates a checkpoint manager for path
func NewManager(path string, format Format, log logger.Logger) *Manager {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Manager{
		checkpointPath: path,
		format:         format,
		logger:         log.WithField("path", path),
	}
}

// Path returns the checkpoint file path
func (m *Manager) Path() string {
	return m.checkpointPath
}

// Load reads the checkpoint. A missing file yields an empty state; an
// unreadable or corrupt file is logged and also yields an empty state.
// Both shapes are accepted regardless of the configured format.
func (m *Manager) Load() *State {
	data, err := os.ReadFile(m.checkpointPath)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("no checkpoint found, starting fresh")
		} else {
			m.logger.WithError(err).Error("failed to read checkpoint, starting fresh")
		}
		return NewState()
	}

	state, err := decode(data)
	if err != nil {
		m.logger.WithError(err).Error("failed to decode checkpoint, starting fresh")
		return NewState()
	}

	m.logger.InfoWithFields("checkpoint loaded", map[string]interface{}{
		"total": state.Len(),
		"units": len(state.ProcessedPages),
	})
	return state
}

func decode(data []byte) (*State, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty checkpoint")
	}

	state := &State{}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &state.CollectedApps); err != nil {
			return nil, err
		}
	} else if err := json.Unmarshal(trimmed, state); err != nil {
		return nil, err
	}

	state.rebuild()
	return state, nil
}

// Save writes the state atomically
func (m *Manager) Save(state *State) error {
	var doc interface{} = state
	if m.format == FormatList {
		doc = state.CollectedApps
	}

	err := storage.WriteFile(m.checkpointPath, func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode checkpoint: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.DebugWithFields("checkpoint saved", map[string]interface{}{
		"total": state.Len(),
	})
	return nil
}

// Delete removes the checkpoint file
func (m *Manager) Delete() error {
	if err := os.Remove(m.checkpointPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}

	m.logger.Info("checkpoint deleted")
	return nil
}

// Exists checks if a checkpoint file exists
func (m *Manager) Exists() bool {
	_, err := os.Stat(m.checkpointPath)
	return err == nil
}

// Info summarises the checkpoint on disk for display
type Info struct {
	Path      string
	Exists    bool
	Records   int
	Units     map[string]int
	UpdatedAt time.Time
}

// Info describes the current checkpoint file
func (m *Manager) Info() Info {
	info := Info{Path: m.checkpointPath}

	stat, err := os.Stat(m.checkpointPath)
	if err != nil {
		return info
	}
	info.Exists = true
	info.UpdatedAt = stat.ModTime()

	state := m.Load()
	info.Records = state.Len()
	info.Units = state.ProcessedPages
	return info
}
