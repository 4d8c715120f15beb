package yo

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("yoresults.lib.scrapers.yo")
var meter = otel.Meter("yoresults.lib.scrapers.yo")

var pagesCounter, _ = meter.Int64Counter(
	"yo.pages_scraped",
	metric.WithDescription("detail pages fetched and extracted"),
)
var entriesCounter, _ = meter.Int64Counter(
	"yo.year_entries",
	metric.WithDescription("examination sittings extracted"),
)

const (
	report_client_document       = "client.document"
	report_client_year_page_urls = "client.year-page-urls"
	report_client_year_entries   = "client.year-entries"
	report_client_scrape         = "client.scrape"
	report_client_cache          = "client.cache"
)
