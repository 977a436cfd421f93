package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"playharvest/pkg/catalog"
	"playharvest/pkg/config"
	"playharvest/pkg/filter"
)

// Options is the immutable run configuration of a Scraper
type Options struct {
	Mode        string
	Countries   []string
	Categories  []string
	Collections []string

	BatchSize int
	PageDelay time.Duration

	Window      filter.Window
	MaxInstalls int64

	Retry config.RetryConfig

	Output  string
	Summary string
}

// OptionsFromConfig validates the harvest vocabulary and resolves the time
// window against now. Search mode uses the range window (the last
// cfg.Harvest.Months months unless explicit dates are given) with the
// install ceiling; collections mode uses the target day without a ceiling.
func OptionsFromConfig(cfg *config.Config, now time.Time) (Options, error) {
	h := cfg.Harvest
	opts := Options{
		Mode:      h.Mode,
		Countries: lower(h.Countries),
		BatchSize: h.BatchSize,
		PageDelay: h.PageDelay,
		Retry:     cfg.Retry,
		Output:    cfg.Output.File,
		Summary:   cfg.Output.Summary,
	}

	var errs []error

	opts.Categories = upper(h.Categories)
	if len(opts.Categories) == 0 {
		opts.Categories = append([]string(nil), catalog.Categories...)
	}
	for _, c := range opts.Categories {
		if !catalog.IsCategory(c) {
			errs = append(errs, fmt.Errorf("unknown category: %q", c))
		}
	}

	switch h.Mode {
	case config.ModeSearch:
		window, err := rangeWindow(h, now)
		if err != nil {
			errs = append(errs, err)
		}
		opts.Window = window
		opts.MaxInstalls = int64(h.MaxInstalls)

	case config.ModeCollections:
		opts.Collections = upper(h.Collections)
		if len(opts.Collections) == 0 {
			opts.Collections = append([]string(nil), catalog.Collections...)
		}
		for _, c := range opts.Collections {
			if !catalog.IsCollection(c) {
				errs = append(errs, fmt.Errorf("unknown collection: %q", c))
			}
		}
		day := now
		if h.TargetDate != "" {
			t, err := time.ParseInLocation(config.DateLayout, h.TargetDate, time.Local)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid target date %q: %w", h.TargetDate, err))
			}
			day = t
		}
		opts.Window = filter.DayWindow{Date: day, Location: time.Local}

	default:
		errs = append(errs, fmt.Errorf("invalid harvest mode: %q", h.Mode))
	}

	if opts.BatchSize <= 0 {
		errs = append(errs, errors.New("batch size must be positive"))
	}
	if len(opts.Countries) == 0 {
		errs = append(errs, errors.New("at least one country is required"))
	}

	if err := errors.Join(errs...); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// rangeWindow covers whole calendar days when explicit dates are given
func rangeWindow(h config.HarvestConfig, now time.Time) (filter.RangeWindow, error) {
	window := filter.LastMonths(now, h.Months)

	if h.StartDate != "" {
		t, err := time.ParseInLocation(config.DateLayout, h.StartDate, time.Local)
		if err != nil {
			return window, fmt.Errorf("invalid start date %q: %w", h.StartDate, err)
		}
		window.Start = t
	}
	if h.EndDate != "" {
		t, err := time.ParseInLocation(config.DateLayout, h.EndDate, time.Local)
		if err != nil {
			return window, fmt.Errorf("invalid end date %q: %w", h.EndDate, err)
		}
		window.End = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if window.Start.After(window.End) {
		return window, errors.New("start date must not be after end date")
	}
	return window, nil
}

func upper(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// WorkUnit is one independently iterated slice of the catalog
type WorkUnit struct {
	Country    string
	Category   string
	Collection string
}

// Key identifies the unit in the checkpoint cursor map and in logs
func (u WorkUnit) Key() string {
	if u.Collection == "" {
		return u.Country + "_" + u.Category
	}
	return u.Country + "_" + u.Category + "_" + u.Collection
}

// Units enumerates the work space country-major: every category of the
// first country, then the next country. Collections mode adds the
// collection as the innermost dimension.
func (o Options) Units() []WorkUnit {
	var units []WorkUnit
	for _, country := range o.Countries {
		for _, category := range o.Categories {
			if o.Mode != config.ModeCollections {
				units = append(units, WorkUnit{Country: country, Category: category})
				continue
			}
			for _, collection := range o.Collections {
				units = append(units, WorkUnit{Country: country, Category: category, Collection: collection})
			}
		}
	}
	return units
}
