package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"playharvest/pkg/catalog"
	"playharvest/pkg/checkpoint"
	"playharvest/pkg/config"
	errs "playharvest/pkg/errors"
	"playharvest/pkg/export"
	"playharvest/pkg/filter"
	"playharvest/pkg/logger"
	"playharvest/pkg/metadata"
	"playharvest/pkg/models"
	"playharvest/pkg/retry"
)

// The paginated listing is not verified to be sorted; the early stop relies on it
const orderingWarning = "listing is assumed sorted by last update, newest first; a unit stops at the first record older than the window"

// Result reports the outcome of a run
type Result struct {
	// Collected is the number of records held after the run
	Collected int
	// Processed is the number of records fetched during this run
	Processed int
	Units     []metadata.UnitSummary
	Exported  bool
	RunID     string
}

// Scraper drives the harvest over every work unit
type Scraper struct {
	opts     Options
	source   catalog.Source
	store    *checkpoint.Manager
	exporter export.Exporter
	filter   *filter.Filter
	retry    *retry.Config
	logger   logger.Logger
	progress Progress
	now      func() time.Time
}

// New wires a Scraper. opts must come from OptionsFromConfig or be built
// with the same care; it is not modified.
func New(opts Options, source catalog.Source, store *checkpoint.Manager, exporter export.Exporter, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Scraper{
		opts:     opts,
		source:   source,
		store:    store,
		exporter: exporter,
		filter:   filter.New(opts.Window, opts.MaxInstalls),
		retry:    retry.FromConfig(opts.Retry, log),
		logger:   log,
		progress: nopProgress{},
		now:      time.Now,
	}
}

// SetProgress attaches a console progress display
func (s *Scraper) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	s.progress = p
}

// Run processes every work unit in order, persisting the checkpoint after
// each page, then exports the collected records. A unit that fails after
// all retries is logged and skipped. Cancelling ctx stops the run after the
// last completed save and returns ctx.Err() without exporting.
func (s *Scraper) Run(ctx context.Context) (*Result, error) {
	state := s.store.Load()
	units := s.opts.Units()

	summary := &metadata.Summary{
		RunID:     uuid.New().String(),
		StartedAt: s.now(),
		Mode:      s.opts.Mode,
		Window:    s.opts.Window.String(),
		Resumed:   state.Len(),
		Output:    s.opts.Output,
	}
	result := &Result{RunID: summary.RunID}

	s.logger.InfoWithFields("starting harvest", map[string]interface{}{
		"run_id":     summary.RunID,
		"mode":       s.opts.Mode,
		"window":     s.opts.Window.String(),
		"units":      len(units),
		"batch_size": s.opts.BatchSize,
		"resumed":    state.Len(),
	})
	if s.opts.Mode == config.ModeSearch {
		s.logger.Warn(orderingWarning)
	}

	for i, unit := range units {
		if err := ctx.Err(); err != nil {
			return s.interrupted(result, summary, state, err)
		}

		var us metadata.UnitSummary
		var err error
		if s.opts.Mode == config.ModeCollections {
			us, err = s.runList(ctx, state, unit, i == len(units)-1)
		} else {
			us, err = s.runPaged(ctx, state, unit)
		}
		result.Units = append(result.Units, us)
		result.Processed += us.Fetched
		if err != nil {
			return s.interrupted(result, summary, state, err)
		}
	}

	result.Collected = state.Len()
	s.logger.InfoWithFields("collection complete", map[string]interface{}{
		"processed": result.Processed,
		"total":     result.Collected,
	})

	if state.Len() == 0 {
		s.logger.Info("nothing to export")
	} else {
		if err := s.exporter.Export(ctx, models.Rows(state.Apps())); err != nil {
			s.finish(summary, result)
			return result, fmt.Errorf("failed to export %d records to %s: %w", state.Len(), s.opts.Output, err)
		}
		result.Exported = true
		s.logger.InfoWithFields("exported records", map[string]interface{}{
			"path":  s.opts.Output,
			"total": state.Len(),
		})
	}

	s.finish(summary, result)
	s.progress.Finished(result.Collected, s.opts.Output, result.Exported)
	return result, nil
}

// runPaged walks the pages of one unit from its cursor until a short batch
// or a record older than the window. The returned error is non-nil only
// when ctx was cancelled.
func (s *Scraper) runPaged(ctx context.Context, state *checkpoint.State, unit WorkUnit) (metadata.UnitSummary, error) {
	key := unit.Key()
	page := state.Cursor(key)
	us := newUnitSummary(unit, page)
	log := s.logger.WithFields(logger.UnitFields(unit.Country, unit.Category, ""))

	s.progress.UnitStarted(key, page)
	log.DebugWithFields("starting unit", map[string]interface{}{"page": page})

	for {
		apps, err := retry.Do(ctx, s.retry, func(ctx context.Context) ([]catalog.App, error) {
			return s.source.Fetch(ctx, catalog.Query{
				Country:    unit.Country,
				Category:   unit.Category,
				Num:        s.opts.BatchSize,
				Start:      page * s.opts.BatchSize,
				FullDetail: true,
			})
		})
		if err != nil {
			if ctx.Err() != nil {
				us.StopReason = metadata.StopInterrupted
				return us, ctx.Err()
			}
			log.WithError(err).WithFields(failureFields(err)).WithField("page", page).Error("failed to fetch page, abandoning unit")
			us.StopReason = metadata.StopError
			us.Error = err.Error()
			s.progress.UnitFailed(key, err)
			return us, nil
		}

		matched, reachedOld := s.collect(state, apps, unit.Country, true, log)
		us.Pages++
		us.Fetched += len(apps)
		us.Matched += matched

		done := len(apps) < s.opts.BatchSize || reachedOld
		if done {
			state.SetCursor(key, page)
		} else {
			state.SetCursor(key, page+1)
		}
		s.save(state)

		logger.LogPage(log, page, len(apps), matched, state.Len())
		s.progress.PageProcessed(page, len(apps), matched, state.Len())

		if done {
			us.StopReason = metadata.StopShortBatch
			if reachedOld {
				us.StopReason = metadata.StopReachedOld
			}
			log.InfoWithFields("unit complete", map[string]interface{}{
				"pages":  us.Pages,
				"reason": us.StopReason,
			})
			s.progress.UnitFinished(key, us.StopReason)
			return us, nil
		}

		page++
		if err := s.pause(ctx); err != nil {
			us.StopReason = metadata.StopInterrupted
			return us, err
		}
	}
}

// runList fetches one fixed collection. Failures are logged and the run
// moves on. The page delay follows every fetch except the last unit's.
func (s *Scraper) runList(ctx context.Context, state *checkpoint.State, unit WorkUnit, last bool) (metadata.UnitSummary, error) {
	key := unit.Key()
	us := newUnitSummary(unit, 0)
	log := s.logger.WithFields(logger.UnitFields(unit.Country, unit.Category, unit.Collection))

	s.progress.UnitStarted(key, 0)

	apps, err := retry.Do(ctx, s.retry, func(ctx context.Context) ([]catalog.App, error) {
		return s.source.Fetch(ctx, catalog.Query{
			Country:    unit.Country,
			Category:   unit.Category,
			Collection: unit.Collection,
			Num:        s.opts.BatchSize,
			FullDetail: true,
		})
	})
	switch {
	case err != nil && ctx.Err() != nil:
		us.StopReason = metadata.StopInterrupted
		return us, ctx.Err()
	case err != nil:
		log.WithError(err).WithFields(failureFields(err)).Error("failed to fetch collection")
		us.StopReason = metadata.StopError
		us.Error = err.Error()
		s.progress.UnitFailed(key, err)
	default:
		matched, _ := s.collect(state, apps, unit.Country, false, log)
		us.Pages = 1
		us.Fetched = len(apps)
		us.Matched = matched
		us.StopReason = metadata.StopFixedList
		s.save(state)

		logger.LogPage(log, 0, len(apps), matched, state.Len())
		s.progress.PageProcessed(0, len(apps), matched, state.Len())
		s.progress.UnitFinished(key, us.StopReason)
	}

	if last {
		return us, nil
	}
	if err := s.pause(ctx); err != nil {
		return us, err
	}
	return us, nil
}

// collect filters a batch into state. With stopAtOld the scan ends at the
// first record older than the window and reachedOld is reported.
func (s *Scraper) collect(state *checkpoint.State, apps []catalog.App, country string, stopAtOld bool, log logger.Logger) (matched int, reachedOld bool) {
	for _, app := range apps {
		record, verdict := s.filter.Apply(app, country, state.Seen())
		switch verdict {
		case filter.Accepted:
			if state.Add(record) {
				matched++
			}
		case filter.TooOld:
			if stopAtOld {
				log.DebugWithFields("reached records older than the window", map[string]interface{}{
					"app_id":  app.AppID,
					"updated": app.Updated.Format(time.RFC3339),
				})
				return matched, true
			}
			fallthrough
		default:
			log.DebugWithFields("record skipped", map[string]interface{}{
				"app_id": app.AppID,
				"reason": verdict.String(),
			})
		}
	}
	return matched, false
}

// save persists state; a failure is logged and the run continues
func (s *Scraper) save(state *checkpoint.State) {
	if err := s.store.Save(state); err != nil {
		s.logger.WithError(err).WithField("path", s.store.Path()).Error("failed to save checkpoint")
		return
	}
	s.logger.DebugWithFields("checkpoint saved", map[string]interface{}{
		"total": state.Len(),
	})
}

func (s *Scraper) pause(ctx context.Context) error {
	if s.opts.PageDelay <= 0 {
		return ctx.Err()
	}
	s.progress.Waiting(s.opts.PageDelay)
	return retry.Wait(ctx, s.opts.PageDelay)
}

func (s *Scraper) interrupted(result *Result, summary *metadata.Summary, state *checkpoint.State, err error) (*Result, error) {
	result.Collected = state.Len()
	s.logger.WarnWithFields("harvest interrupted, progress kept in checkpoint", map[string]interface{}{
		"path":  s.store.Path(),
		"total": state.Len(),
	})
	s.finish(summary, result)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return result, err
	}
	return result, fmt.Errorf("harvest interrupted: %w", err)
}

// finish completes and writes the run summary when a path is configured
func (s *Scraper) finish(summary *metadata.Summary, result *Result) {
	summary.FinishedAt = s.now()
	summary.Collected = result.Collected
	summary.Exported = result.Exported
	summary.Units = result.Units

	if s.opts.Summary == "" {
		return
	}
	if err := summary.Save(s.opts.Summary); err != nil {
		s.logger.WithError(err).WithField("path", s.opts.Summary).Error("failed to write run summary")
	}
}

// failureFields classifies a fetch error that survived every retry
func failureFields(err error) map[string]interface{} {
	t := errs.TypeOf(err)
	return map[string]interface{}{
		"error_type": string(t),
		"transient":  errs.IsTransient(t),
	}
}

func newUnitSummary(unit WorkUnit, page int) metadata.UnitSummary {
	return metadata.UnitSummary{
		Key:        unit.Key(),
		Country:    unit.Country,
		Category:   unit.Category,
		Collection: unit.Collection,
		StartPage:  page,
	}
}
