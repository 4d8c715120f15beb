package commands

import (
	"fmt"

	"yoresults/lib/scrapers/yo"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showFlags struct {
	source  sourceFlags
	subject string
	year    string
}

func init() {
	showFlags.source.register(showCmd)
	showCmd.Flags().StringVar(&showFlags.subject, "subject", "", "Only show this subject, matched loosely.")
	showCmd.Flags().StringVar(&showFlags.year, "year", "", "Only show this sitting, matched loosely.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show [--db <path> | --in <path>] [--subject <name>] [--year <label>]",
	Short: "Renders scraped grade thresholds as a table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}
		results, err := loadResults(cmd.Context(), cfg, showFlags.source)
		if err != nil {
			return fmt.Errorf("failed to load results: %w", err)
		}

		t, err := showTable(results, showFlags.subject, showFlags.year)
		if err != nil {
			return fmt.Errorf("failed to render results: %w", err)
		}
		t.Render()
		return nil
	},
}

func pointsRow(first []any, points []yo.Score) table.Row {
	row := table.Row(first)
	for _, p := range points {
		row = append(row, formatScore(p))
	}
	return row
}

func showTable(results yo.Results, subject, year string) (table.Writer, error) {
	var err error
	if subject != "" {
		subject, err = resolveName("subject", subject, results.Subjects())
		if err != nil {
			return nil, err
		}
	}
	if year != "" {
		year, err = resolveName("year", year, results.Years())
		if err != nil {
			return nil, err
		}
	}

	t := NewTable()
	switch {
	case subject != "" && year != "":
		t.SetTitle(subject)
		t.AppendHeader(table.Row{"Year", "Points"})
		t.AppendRow(pointsRow([]any{year}, results.ByYear[year][subject]))
	case subject != "":
		t.SetTitle(subject)
		t.AppendHeader(table.Row{"Year", "Points"})
		years := results.BySubject[subject]
		for _, y := range results.Years() {
			points, ok := years[y]
			if !ok {
				continue
			}
			t.AppendRow(pointsRow([]any{y}, points))
		}
	case year != "":
		t.SetTitle(year)
		t.AppendHeader(table.Row{"Subject", "Points"})
		points := results.ByYear[year]
		for _, s := range results.Subjects() {
			p, ok := points[s]
			if !ok {
				continue
			}
			t.AppendRow(pointsRow([]any{s}, p))
		}
	default:
		t.AppendHeader(table.Row{"Year", "Subjects"})
		for _, y := range results.Years() {
			t.AppendRow(table.Row{y, len(results.ByYear[y])})
		}
	}
	return t, nil
}
