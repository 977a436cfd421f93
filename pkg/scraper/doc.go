// Package scraper runs the harvest loop over the catalog.
//
// A run enumerates work units (country x category, plus collection in
// collections mode) in a fixed order. In search mode each unit is paged
// from its checkpoint cursor until a short batch or the first record older
// than the time window; in collections mode each unit is a single fixed
// list. Every fetched batch goes through the record filter, accepted
// records are added to the checkpoint state, and the checkpoint is saved
// after each page so an interrupted run resumes where it stopped.
//
// Usage:
//
//	opts, err := scraper.OptionsFromConfig(cfg, time.Now())
//	if err != nil {
//	    return err
//	}
//	store := checkpoint.NewManager(cfg.Output.Checkpoint, checkpoint.FormatPaged, log)
//	exporter, err := export.New(cfg.Output.File, "")
//	if err != nil {
//	    return err
//	}
//
//	s := scraper.New(opts, client, store, exporter, log)
//	result, err := s.Run(ctx)
//
// Failure handling:
//
// Each page request is retried per the retry policy. A unit whose request
// still fails is logged and skipped. A failed checkpoint save is logged and
// the run continues. A failed export ends the run with an error, and
// cancelling ctx stops the run without exporting.
package scraper
