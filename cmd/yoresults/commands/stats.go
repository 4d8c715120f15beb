package commands

import (
	"fmt"
	"yoresults/lib/scrapers/yo"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"
)

var statsFlags struct {
	source  sourceFlags
	subject string
}

func init() {
	statsFlags.source.register(statsCmd)
	statsCmd.Flags().StringVar(&statsFlags.subject, "subject", "", "The subject to summarize, matched loosely.")
	statsCmd.MarkFlagRequired("subject")
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats --subject <name> [--db <path> | --in <path>]",
	Short: "Summarizes a subject's thresholds across every sitting.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		results, err := loadResults(cmd.Context(), cfg, statsFlags.source)
		if err != nil {
			return fmt.Errorf("failed to load results: %w", err)
		}
		subject, err := resolveName("subject", statsFlags.subject, results.Subjects())
		if err != nil {
			return fmt.Errorf("failed to find subject: %w", err)
		}

		summaries, err := summarize(results.BySubject[subject])
		if err != nil {
			return fmt.Errorf("failed to summarize: %w", err)
		}

		t := NewTable()
		t.SetTitle(subject)
		t.AppendHeader(table.Row{"Column", "Sittings", "Min", "Max", "Mean", "Median"})
		for _, s := range summaries {
			if s.Count == 0 {
				t.AppendRow(table.Row{s.Column, 0, "-", "-", "-", "-"})
				continue
			}
			t.AppendRow(table.Row{
				s.Column, s.Count,
				formatScore(yo.Score(s.Min)),
				formatScore(yo.Score(s.Max)),
				fmt.Sprintf("%.1f", s.Mean),
				formatScore(yo.Score(s.Median)),
			})
		}
		t.Render()
		return nil
	},
}

// columnSummary describes one column of a subject's table across sittings.
type columnSummary struct {
	// 1-based
	Column int
	// sittings with a number in this column
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// summarize computes per-column statistics, NaN cells and sittings that lack
// the column are left out.
func summarize(years map[string][]yo.Score) ([]columnSummary, error) {
	width := 0
	for _, points := range years {
		width = max(width, len(points))
	}

	summaries := make([]columnSummary, width)
	for i := 0; i < width; i++ {
		var data stats.Float64Data
		for _, points := range years {
			if i >= len(points) || points[i].IsNaN() {
				continue
			}
			data = append(data, float64(points[i]))
		}

		summaries[i] = columnSummary{Column: i + 1, Count: len(data)}
		if len(data) == 0 {
			continue
		}

		var err error
		summaries[i].Min, err = stats.Min(data)
		if err != nil {
			return nil, err
		}
		summaries[i].Max, err = stats.Max(data)
		if err != nil {
			return nil, err
		}
		summaries[i].Mean, err = stats.Mean(data)
		if err != nil {
			return nil, err
		}
		summaries[i].Median, err = stats.Median(data)
		if err != nil {
			return nil, err
		}
	}
	return summaries, nil
}
