package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"yoresults/lib/resultstore"
	"yoresults/lib/scrapers/yo"
	"yoresults/lib/textutil"

	"github.com/spf13/cobra"
)

// below this a fuzzy lookup is treated as a miss
const minSimilarity = 0.8

type sourceFlags struct {
	db string
	in string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.db, "db", "", "Read the latest run from this sqlite database.")
	cmd.Flags().StringVar(&f.in, "in", "", "Read a by-year index written by scrape.")
	cmd.MarkFlagsMutuallyExclusive("db", "in")
}

// loadResults reads results from --in, --db, the configured store or the
// configured by-year output file, in that order of preference.
func loadResults(ctx context.Context, cfg Config, flags sourceFlags) (yo.Results, error) {
	if flags.in != "" {
		return readYearFile(flags.in)
	}

	storeCfg := cfg.Store
	if flags.db != "" {
		storeCfg = resultstore.Config{File: flags.db}
	} else if !cfg.StoreEnabled() {
		return readYearFile(cfg.Output.YearPath)
	}

	store, closeStore, err := openStore(ctx, storeCfg)
	if err != nil {
		return yo.Results{}, err
	}
	defer closeStore()

	run, err := store.Latest(ctx)
	if err != nil {
		return yo.Results{}, err
	}
	slog.Debug("loaded run", "id", run.ID, "scraped_at", run.ScrapedAt, "source", run.Source)
	return run.Results, nil
}

func readYearFile(path string) (yo.Results, error) {
	index, err := yo.ReadYearIndex(path)
	if err != nil {
		return yo.Results{}, err
	}
	return yo.ResultsFromYearIndex(index), nil
}

// resolveName finds the candidate closest to name, `kind` names what is
// being looked up in the error.
func resolveName(kind, name string, candidates []string) (string, error) {
	match := textutil.BestMatch(name, candidates)
	if match.Similarity < minSimilarity {
		return "", fmt.Errorf("no %s matching %q", kind, name)
	}
	if match.Similarity < 1 {
		slog.Info("using closest match", kind, match.Value, "similarity", match.Similarity)
	}
	return match.Value, nil
}

func formatScore(score yo.Score) string {
	if score.IsNaN() {
		return "-"
	}
	return strconv.FormatFloat(float64(score), 'f', -1, 64)
}
