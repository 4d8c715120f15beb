package yo

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Scrape resolves every detail page and extracts them one after another,
// the first failure aborts the whole scrape.
func (c *Client) Scrape(ctx context.Context) (Results, error) {
	ctx, span := tracer.Start(ctx, "client:Scrape")
	defer span.End()

	links, err := c.YearPageURLs(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "failed to resolve year pages")
		return Results{}, err
	}
	slog.DebugContext(ctx, "resolved year pages", "count", len(links))

	results := NewResults()
	for _, link := range links {
		start := time.Now()
		slog.InfoContext(ctx, "scraping page", "url", link)

		entries, err := c.YearEntries(ctx, link)
		if err != nil {
			span.SetStatus(codes.Error, "failed to scrape page")
			return Results{}, err
		}
		for _, entry := range entries {
			results.Add(entry)
		}

		pagesCounter.Add(ctx, 1)
		entriesCounter.Add(ctx, int64(len(entries)))
		slog.DebugContext(
			ctx, "page scraped",
			"url", link,
			"entries", len(entries),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	span.SetAttributes(
		attribute.Int("years", len(results.ByYear)),
		attribute.Int("subjects", len(results.BySubject)),
	)
	c.tel.ReportCount(report_client_scrape, int64(len(results.ByYear)))
	return results, nil
}
