package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"yoresults/lib/pagecache"
	"yoresults/lib/restyutil"
	"yoresults/lib/resultstore"
	"yoresults/lib/scrapers/yo"
	"yoresults/lib/telemetry"

	"github.com/spf13/cobra"
)

var scrapeFlags struct {
	outYear    string
	outSubject string
	shape      string
	strict     bool
	db         string
	cache      string
	dumpHttp   string
}

func init() {
	flags := scrapeCmd.Flags()
	flags.StringVar(&scrapeFlags.outYear, "out-year", "", "Where to write the by-year index.")
	flags.StringVar(&scrapeFlags.outSubject, "out-subject", "", "Where to write the by-subject index.")
	flags.StringVar(&scrapeFlags.shape, "shape", "", `Which indexes to write, "year" or "year+subject".`)
	flags.BoolVar(&scrapeFlags.strict, "strict", false, "Fail on score cells that are not numbers.")
	flags.StringVar(&scrapeFlags.db, "db", "", "A sqlite database to also save the run to.")
	flags.StringVar(&scrapeFlags.cache, "cache", "", "A directory to cache fetched pages in.")
	flags.StringVar(&scrapeFlags.dumpHttp, "dump-http", "", "A directory to dump every http exchange into.")
	rootCmd.AddCommand(scrapeCmd)
}

// applyScrapeFlags overrides cfg with the flags that were set explicitly.
func applyScrapeFlags(cmd *cobra.Command, cfg Config) Config {
	flags := cmd.Flags()
	if flags.Changed("out-year") {
		cfg.Output.YearPath = scrapeFlags.outYear
	}
	if flags.Changed("out-subject") {
		cfg.Output.SubjectPath = scrapeFlags.outSubject
	}
	if flags.Changed("shape") {
		cfg.Output.Shape = scrapeFlags.shape
	}
	if flags.Changed("strict") {
		cfg.StrictScores = scrapeFlags.strict
	}
	if flags.Changed("db") {
		cfg.Store = resultstore.Config{File: scrapeFlags.db}
	}
	if flags.Changed("cache") {
		cfg.Cache.Dir = scrapeFlags.cache
	}
	return cfg
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out-year <path>] [--out-subject <path>] [--shape year|year+subject] [--db <path>]",
	Short: "Scrapes every grade threshold page and writes the json indexes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		cfg = applyScrapeFlags(cmd, cfg)
		// flags are checked before anything is fetched
		err = cfg.Validate()
		if err != nil {
			return err
		}

		err = runScrape(cmd.Context(), cfg, scrapeFlags.dumpHttp)
		if err != nil {
			return fmt.Errorf("scrape failed: %w", err)
		}
		return nil
	},
}

func openCache(cfg Config) (pagecache.Layered, func(), error) {
	// the landing page is also the first detail page, the memory layer
	// serves its second read
	caches := pagecache.Layered{pagecache.NewMemory(64, time.Hour)}
	if cfg.Cache.Dir == "" {
		return caches, func() {}, nil
	}

	disk, err := pagecache.OpenDisk(cfg.Cache.Dir, cfg.CacheTtl())
	if err != nil {
		return nil, nil, err
	}
	caches = append(caches, disk)
	return caches, func() {
		err := disk.Close()
		if err != nil {
			slog.Warn("failed to close page cache", "err", err)
		}
	}, nil
}

func runScrape(ctx context.Context, cfg Config, dumpDir string) error {
	outputOpts, err := cfg.OutputOptions()
	if err != nil {
		return err
	}

	caches, closeCache, err := openCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	opts := cfg.ClientOptions()
	opts.Cache = caches
	client, err := yo.NewClient(opts, telemetry.SlogAPI{})
	if err != nil {
		return err
	}
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return err
		}
		restyutil.DumpExchanges(client.Http, output)
	}

	t1 := time.Now()
	results, err := client.Scrape(ctx)
	if err != nil {
		return err
	}
	slog.Info(
		"scraped",
		"years", len(results.ByYear),
		"subjects", len(results.BySubject),
		"seconds", time.Since(t1).Seconds(),
	)

	written, err := yo.WriteResults(results, outputOpts)
	if err != nil {
		return err
	}
	slog.Info("wrote results", "files", written)

	if !cfg.StoreEnabled() {
		return nil
	}
	return saveRun(ctx, cfg.Store, resultstore.NewRun(client.LandingUrl, results))
}

func openStore(ctx context.Context, cfg resultstore.Config) (resultstore.Store, func(), error) {
	db, err := cfg.Open()
	if err != nil {
		return resultstore.Store{}, nil, err
	}
	store := resultstore.NewStore(db)
	err = store.Migrate(ctx)
	if err != nil {
		db.Close()
		return resultstore.Store{}, nil, err
	}
	return store, func() { db.Close() }, nil
}

func saveRun(ctx context.Context, cfg resultstore.Config, run resultstore.Run) error {
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	err = store.Save(ctx, run)
	if err != nil {
		return err
	}
	slog.Info("saved run", "id", run.ID)
	return nil
}
