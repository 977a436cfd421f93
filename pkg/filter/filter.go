// Package filter decides which catalog records are collected.
package filter

import (
	"strconv"
	"strings"

	"playharvest/pkg/catalog"
	"playharvest/pkg/models"
)

// Verdict is the outcome of filtering one record
type Verdict int

const (
	Accepted Verdict = iota
	Duplicate
	NoTimestamp
	// TooOld means the record was updated before the window start. In a
	// listing sorted by recency every following record is older still.
	TooOld
	OutOfWindow
	NoInstalls
	TooPopular
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case NoTimestamp:
		return "no_timestamp"
	case TooOld:
		return "too_old"
	case OutOfWindow:
		return "out_of_window"
	case NoInstalls:
		return "no_installs"
	case TooPopular:
		return "too_popular"
	default:
		return "unknown"
	}
}

// Filter applies the dedup, window and install rules in order
type Filter struct {
	window      Window
	maxInstalls int64
}

// New creates a filter. maxInstalls <= 0 disables the install ceiling.
func New(window Window, maxInstalls int64) *Filter {
	return &Filter{window: window, maxInstalls: maxInstalls}
}

// Window returns the filter's time window
func (f *Filter) Window() Window {
	return f.window
}

// Apply checks one record. On acceptance the normalised record is returned
// and its id is added to seen; otherwise seen is untouched.
func (f *Filter) Apply(app catalog.App, country string, seen models.SeenSet) (models.App, Verdict) {
	if seen.Has(app.AppID) {
		return models.App{}, Duplicate
	}
	if app.Updated.IsZero() {
		return models.App{}, NoTimestamp
	}

	updated := app.Updated.Time
	if !f.window.Contains(updated) {
		if f.window.Before(updated) {
			return models.App{}, TooOld
		}
		return models.App{}, OutOfWindow
	}

	installs := ParseInstallCount(app.Installs)
	if installs == 0 {
		return models.App{}, NoInstalls
	}
	if f.maxInstalls > 0 && installs >= f.maxInstalls {
		return models.App{}, TooPopular
	}

	seen.Add(app.AppID)
	return Normalize(app, installs, country), Accepted
}

// Normalize builds the collected record from a catalog record
func Normalize(app catalog.App, installs int64, country string) models.App {
	return models.App{
		Title:            app.Title,
		AppID:            app.AppID,
		Installs:         app.Installs,
		InstallCount:     installs,
		ScoreText:        app.ScoreText,
		Ratings:          int64(app.Ratings),
		Price:            app.Price,
		Developer:        app.Developer,
		DeveloperEmail:   app.DeveloperEmail,
		DeveloperWebsite: app.DeveloperWebsite,
		DeveloperAddress: app.DeveloperAddress,
		PrivacyPolicy:    app.PrivacyPolicy,
		Genre:            app.Genre,
		GenreID:          app.GenreID,
		Category:         app.CategoryNames(),
		AppURL:           app.URL,
		Updated:          app.Updated.UTC().Format("2006-01-02"),
		Country:          country,
	}
}

// ParseInstallCount extracts the number from a display string such as
// "1,000,000+". Anything without digits, or too large to parse, is 0.
func ParseInstallCount(installs string) int64 {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, installs)
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
