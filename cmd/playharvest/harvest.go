package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"playharvest/pkg/auth"
	"playharvest/pkg/catalog"
	"playharvest/pkg/checkpoint"
	"playharvest/pkg/config"
	"playharvest/pkg/export"
	"playharvest/pkg/logger"
	"playharvest/pkg/ratelimit"
	"playharvest/pkg/scraper"
	"playharvest/pkg/ui"
)

var (
	// Harvest command flags
	baseURL      string
	mode         string
	countries    []string
	categories   []string
	collections  []string
	batchSize    int
	pageDelay    time.Duration
	maxInstalls  int
	outputFile   string
	checkpointAt string
	summaryFile  string
	startDate    string
	endDate      string
	targetDate   string
	profile      string
	cpFormat     string
	forceRestart bool
)

// harvestCmd represents the harvest command
var harvestCmd = &cobra.Command{
	Use:   "harvest",
	Short: "Collect apps from the catalog and export them",
	Long: `Collect apps from the catalog gateway and export them to a spreadsheet.

In search mode every country and category is paged until a short batch or
the first app updated before the window. Apps updated inside the window
with fewer installs than the ceiling are kept.

In collections mode the top lists of every country and category are read
once and apps updated on the target day are kept.

Progress is saved to the checkpoint after every page. Running the same
command again resumes where the last run stopped. A run interrupted with
Ctrl-C or SIGTERM keeps its checkpoint, skips the export and exits 0.`,
	Example: `  # Last three months in the US, all categories
  playharvest harvest

  # Two countries, two categories, explicit range
  playharvest harvest --country us --country gb --category TOOLS --category GAME \
    --start-date 2025-01-01 --end-date 2025-03-31

  # Today's top lists as csv
  playharvest harvest --mode collections --output top_lists.csv

  # Start over, ignoring the existing checkpoint
  playharvest harvest --force-restart`,
	Args: cobra.NoArgs,
	RunE: runHarvest,
}

func init() {
	rootCmd.AddCommand(harvestCmd)

	f := harvestCmd.Flags()
	f.StringVar(&baseURL, "base-url", "", "catalog gateway base URL")
	f.StringVar(&mode, "mode", "", "harvest mode (search, collections)")
	f.StringArrayVar(&countries, "country", nil, "country code, repeatable (default us)")
	f.StringArrayVar(&categories, "category", nil, "category, repeatable (default all)")
	f.StringArrayVar(&collections, "collection", nil, "collection in collections mode, repeatable (default all)")
	f.IntVar(&batchSize, "batch-size", 0, "apps requested per page")
	f.DurationVar(&pageDelay, "page-delay", 0, "pause between pages")
	f.IntVar(&maxInstalls, "max-installs", 0, "keep only apps with fewer installs than this")
	f.StringVarP(&outputFile, "output", "o", "", "export file (.xlsx, .csv, .db)")
	f.StringVar(&checkpointAt, "checkpoint", "", "checkpoint file")
	f.StringVar(&summaryFile, "summary", "", "write a JSON run summary to this file")
	f.StringVar(&startDate, "start-date", "", "window start, YYYY-MM-DD")
	f.StringVar(&endDate, "end-date", "", "window end (inclusive), YYYY-MM-DD")
	f.StringVar(&targetDate, "target-date", "", "day to keep in collections mode, YYYY-MM-DD")
	f.StringVar(&profile, "profile", auth.DefaultProfile, "stored API key profile")
	f.StringVar(&cpFormat, "checkpoint-format", "", "checkpoint layout: paged or list (default paged in search mode, list in collections mode)")
	f.BoolVar(&forceRestart, "force-restart", false, "delete the checkpoint before starting")
}

// harvestFlags collects only the flags the user set
func harvestFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	changed := cmd.Flags().Changed

	if changed("base-url") {
		flags["base-url"] = baseURL
	}
	if changed("mode") {
		flags["mode"] = mode
	}
	if changed("country") {
		flags["country"] = countries
	}
	if changed("category") {
		flags["category"] = categories
	}
	if changed("collection") {
		flags["collection"] = collections
	}
	if changed("batch-size") {
		flags["batch-size"] = batchSize
	}
	if changed("page-delay") {
		flags["page-delay"] = pageDelay
	}
	if changed("max-installs") {
		flags["max-installs"] = maxInstalls
	}
	if changed("output") {
		flags["output"] = outputFile
	}
	if changed("checkpoint") {
		flags["checkpoint"] = checkpointAt
	}
	if changed("summary") {
		flags["summary"] = summaryFile
	}
	if changed("start-date") {
		flags["start-date"] = startDate
	}
	if changed("end-date") {
		flags["end-date"] = endDate
	}
	if changed("target-date") {
		flags["target-date"] = targetDate
	}
	return flags
}

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, harvestFlags(cmd))
	if err != nil {
		return err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("playharvest starting")

	opts, err := scraper.OptionsFromConfig(cfg, time.Now())
	if err != nil {
		return fmt.Errorf("invalid harvest options: %w", err)
	}

	if cfg.Catalog.APIKey == "" {
		resolveAPIKey(cmd, cfg, log)
	}

	limiter, err := ratelimit.New(cfg.RateLimit.Strategy, cfg.RateLimit.RequestsPerMinute)
	if err != nil {
		return err
	}
	client := catalog.NewClient(cfg.Catalog, limiter, log)
	logger.LogComponentStart(log, "catalog client", map[string]interface{}{
		"base_url":            cfg.Catalog.BaseURL,
		"requests_per_minute": cfg.RateLimit.RequestsPerMinute,
		"strategy":            cfg.RateLimit.Strategy,
		"authenticated":       cfg.Catalog.APIKey != "",
	})

	format := checkpoint.FormatPaged
	if opts.Mode == config.ModeCollections {
		format = checkpoint.FormatList
	}
	if cpFormat != "" {
		if format, err = checkpoint.ParseFormat(cpFormat); err != nil {
			return err
		}
	}
	store := checkpoint.NewManager(cfg.Output.Checkpoint, format, log)
	if forceRestart {
		if err := store.Delete(); err != nil {
			return fmt.Errorf("failed to reset checkpoint: %w", err)
		}
		log.WithField("path", store.Path()).Info("checkpoint reset")
	}

	exporter, err := export.New(opts.Output, "")
	if err != nil {
		return err
	}

	ui.PrintInfo("Mode", opts.Mode)
	ui.PrintInfo("Window", opts.Window.String())
	ui.PrintInfo("Countries", fmt.Sprint(opts.Countries))
	ui.PrintInfo("Units", fmt.Sprint(len(opts.Units())))
	ui.PrintInfo("Output", opts.Output)

	s := scraper.New(opts, client, store, exporter, log)
	s.SetProgress(ui.NewProgressDisplay(os.Stdout, ui.IsQuietMode()))

	result, err := s.Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		ui.PrintWarning("Interrupted, progress saved", store.Path())
		return nil
	}
	if err != nil {
		return err
	}

	if result.Exported {
		ui.PrintSuccess(fmt.Sprintf("Exported %d apps to %s", result.Collected, opts.Output))
	}
	return nil
}

// resolveAPIKey fills the catalog API key from the credential stores.
// A missing key is not an error: the gateway may not require one.
func resolveAPIKey(cmd *cobra.Command, cfg *config.Config, log logger.Logger) {
	manager, err := auth.NewManager()
	if err != nil {
		log.WithError(err).Warn("credential manager unavailable")
		return
	}
	cred, err := manager.Retrieve(profile)
	if err != nil {
		log.WithField("profile", profile).Debug("no stored API key")
		return
	}

	cfg.Catalog.APIKey = cred.APIKey
	if cred.BaseURL != "" && !cmd.Flags().Changed("base-url") {
		cfg.Catalog.BaseURL = cred.BaseURL
	}
	log.WithField("profile", cred.Profile).Info("using stored API key")
}
