package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// App is a single catalog record as returned by the gateway. Every field
// is optional.
type App struct {
	AppID            string     `json:"appId"`
	Title            string     `json:"title"`
	Installs         string     `json:"installs"`
	ScoreText        string     `json:"scoreText"`
	Ratings          Count      `json:"ratings"`
	Price            float64    `json:"price"`
	Developer        string     `json:"developer"`
	DeveloperEmail   string     `json:"developerEmail"`
	DeveloperWebsite string     `json:"developerWebsite"`
	DeveloperAddress string     `json:"developerAddress"`
	PrivacyPolicy    string     `json:"privacyPolicy"`
	Genre            string     `json:"genre"`
	GenreID          string     `json:"genreId"`
	Categories       []Category `json:"categories"`
	URL              string     `json:"url"`
	Updated          Timestamp  `json:"updated"`
}

// Category is one entry of an app's category list
type Category struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// CategoryNames joins the category names with ", "
func (a *App) CategoryNames() string {
	names := make([]string, 0, len(a.Categories))
	for _, c := range a.Categories {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}

// Timestamp is the last-updated instant of an app. The gateway sends epoch
// milliseconds; RFC 3339 and plain date strings are accepted too. The zero
// value means the record carries no timestamp.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts a number, a string or null. A value that cannot be
// read as an instant decodes to the zero value so the record is still kept.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	t, err := parseTimestamp(data)
	if err != nil {
		t = time.Time{}
	}
	ts.Time = t
	return nil
}

// parseTimestamp reads a raw JSON timestamp. Null, zero and empty strings
// yield the zero time without error.
func parseTimestamp(data []byte) (time.Time, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return time.Time{}, err
		}
		return parseTimestampString(s)
	}

	ms, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %s: %w", data, err)
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(int64(ms)).UTC(), nil
}

func parseTimestampString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

// MarshalJSON writes epoch milliseconds, or null for the zero value
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(ts.UnixMilli(), 10)), nil
}

// Count is a non-negative tally such as the number of ratings. Fractional
// numbers are truncated, numeric strings may carry thousands separators and
// anything else decodes to zero.
type Count int64

// UnmarshalJSON never fails
func (c *Count) UnmarshalJSON(data []byte) error {
	*c = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil && n > 0 {
		*c = Count(n)
	}
	return nil
}

// At is a convenience constructor
func At(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// Query describes one page or list request against the catalog
type Query struct {
	Country    string
	Category   string
	Collection string
	Num        int
	Start      int
	FullDetail bool
}
