package yo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
	"yoresults/internal/assert"
	"yoresults/lib/pagecache"
	"yoresults/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseUrl    = "https://www.ylioppilastutkinto.fi"
	DefaultLandingUrl = DefaultBaseUrl + "/fi/tutkinnon-suorittaminen/pisterajat/pisterajat-kevat-2023"
	DefaultTimeout    = time.Second * 30

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
)

type ClientOptions struct {
	// origin every sidebar link is resolved against
	BaseUrl string
	// page whose sidebar lists every detail page
	LandingUrl string
	// 0 means DefaultTimeout
	Timeout time.Duration
	// 0 disables rate limiting
	RequestsPerSecond float64
	CloudflareBypass  bool

	// optional
	Cache pagecache.Cache
	// nil means ChildCountClassifier with DefaultLayoutThreshold
	Classifier LayoutClassifier
	Parse      ParseOptions
}

type Client struct {
	BaseUrl    *url.URL
	LandingUrl string
	Http       *resty.Client

	cache      pagecache.Cache
	classifier LayoutClassifier
	parse      ParseOptions
	tel        telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel, "telemetry api")
	tel = telemetry.NewScopedAPI("yo_scraper", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.LandingUrl == "" {
		opts.LandingUrl = DefaultLandingUrl
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Classifier == nil {
		opts.Classifier = ChildCountClassifier{Threshold: DefaultLayoutThreshold}
	}

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	_, err = url.Parse(opts.LandingUrl)
	if err != nil {
		return nil, err
	}

	httpClient := resty.New()
	httpClient.SetHeader("user-agent", userAgent)
	httpClient.SetTimeout(opts.Timeout)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	if opts.RequestsPerSecond > 0 {
		// max burst >= 1 just means that no requests will be dropped
		burst := max(int(opts.RequestsPerSecond), 1)
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, "yoresults.lib.scrapers.yo/http", tel)

	return &Client{
		BaseUrl:    baseUrl,
		LandingUrl: opts.LandingUrl,
		Http:       httpClient,
		cache:      opts.Cache,
		classifier: opts.Classifier,
		parse:      opts.Parse,
		tel:        tel,
	}, nil
}

// Document fetches `link` and parses it as html.
func (c *Client) Document(ctx context.Context, link string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "client:Document")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	body, err := c.fetch(ctx, link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		c.tel.ReportBroken(report_client_document, err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrParse, link, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		c.tel.ReportBroken(report_client_document, err)
		return nil, err
	}
	return doc, nil
}

func (c *Client) fetch(ctx context.Context, link string) ([]byte, error) {
	if c.cache != nil {
		body, err := c.cache.Get(ctx, link)
		if err == nil {
			c.tel.ReportDebug("cache hit", link)
			return body, nil
		}
		if !errors.Is(err, pagecache.ErrNotFound) {
			c.tel.ReportWarning(report_client_cache, fmt.Errorf("get %s: %w", link, err))
		}
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, link, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrNetwork, link, res.Status())
	}

	body := res.Body()
	if c.cache != nil {
		err = c.cache.Set(ctx, link, body)
		if err != nil {
			c.tel.ReportWarning(report_client_cache, fmt.Errorf("set %s: %w", link, err))
		}
	}
	return body, nil
}

// YearEntries fetches one detail page and extracts its sittings.
func (c *Client) YearEntries(ctx context.Context, link string) ([]YearEntry, error) {
	ctx, span := tracer.Start(ctx, "client:YearEntries")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	doc, err := c.Document(ctx, link)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch page")
		return nil, err
	}

	entries, err := ExtractYearEntries(doc, c.classifier, c.parse)
	if err != nil {
		err = fmt.Errorf("%s: %w", link, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract year entries")
		c.tel.ReportBroken(report_client_year_entries, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("entries", len(entries)))
	return entries, nil
}
