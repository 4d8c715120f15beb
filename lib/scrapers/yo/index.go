package yo

import (
	"context"
	"fmt"
	"net/url"
	"yoresults/lib/htmlutil"
	"yoresults/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// the sidebar entry of the landing page, its submenu lists every detail page
const sidebarSelector = ".sidebar-menu__item.sidebar-menu__item--active.sidebar-menu__item--with-sub"

// YearPageURLs fetches the landing page and returns the detail page urls
// listed in its sidebar, in document order.
func (c *Client) YearPageURLs(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "client:YearPageURLs")
	defer span.End()

	doc, err := c.Document(ctx, c.LandingUrl)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch landing page")
		return nil, err
	}

	links, err := ResolveYearPageURLs(ctx, doc, c.BaseUrl, c.tel)
	if err != nil {
		err = fmt.Errorf("%s: %w", c.LandingUrl, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve year pages")
		c.tel.ReportBroken(report_client_year_page_urls, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("links", len(links)))
	return links, nil
}

// ResolveYearPageURLs reads the first link of every list item in the active
// sidebar entry and resolves it against base. Items without a link are
// skipped and reported as a warning.
func ResolveYearPageURLs(ctx context.Context, doc *goquery.Document, base *url.URL, tel telemetry.API) ([]string, error) {
	list := doc.Find(sidebarSelector).First()
	if list.Length() == 0 {
		return nil, fmt.Errorf("%w: no active sidebar menu", ErrStructure)
	}

	links := []string{}
	list.Find("li").Each(func(i int, item *goquery.Selection) {
		anchors := htmlutil.GetAnchors(ctx, item.Find("a").First())
		if len(anchors) == 0 || !anchors[0].HasHref {
			tel.ReportWarning(
				report_client_year_page_urls,
				fmt.Errorf("sidebar item %d has no link", i),
				htmlutil.NormalizeText(item.Text()),
			)
			return
		}

		ref, err := url.Parse(anchors[0].Href)
		if err != nil {
			tel.ReportWarning(report_client_year_page_urls, err, anchors[0].Href)
			return
		}
		links = append(links, base.ResolveReference(ref).String())
	})

	return links, nil
}
