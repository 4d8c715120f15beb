package commands

import (
	"fmt"
	"os"
	"time"
	"yoresults/lib/configutil"
	"yoresults/lib/resultstore"
	"yoresults/lib/scrapers/yo"
)

const libsqlAuthTokenEnv = "YORESULTS_LIBSQL_AUTH_TOKEN"

type OutputConfig struct {
	Shape       string `json:"shape"`
	YearPath    string `json:"year_path"`
	SubjectPath string `json:"subject_path"`
}

type CacheConfig struct {
	// empty disables the on-disk cache
	Dir      string  `json:"dir"`
	TtlHours float64 `json:"ttl_hours"`
}

type Config struct {
	LandingUrl        string  `json:"landing_url"`
	BaseUrl           string  `json:"base_url"`
	TimeoutSeconds    float64 `json:"timeout_seconds"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	StrictScores      bool    `json:"strict_scores"`
	LayoutThreshold   int     `json:"layout_threshold"`

	Output OutputConfig       `json:"output"`
	Cache  CacheConfig        `json:"cache"`
	Store  resultstore.Config `json:"store"`
}

func DefaultConfig() Config {
	return Config{
		LandingUrl:        yo.DefaultLandingUrl,
		BaseUrl:           yo.DefaultBaseUrl,
		TimeoutSeconds:    yo.DefaultTimeout.Seconds(),
		RequestsPerSecond: 2,
		LayoutThreshold:   yo.DefaultLayoutThreshold,
		Output: OutputConfig{
			Shape:       string(yo.ShapeYearAndSubject),
			YearPath:    yo.DefaultYearPath,
			SubjectPath: yo.DefaultSubjectPath,
		},
		Cache: CacheConfig{
			TtlHours: 24,
		},
	}
}

// LoadConfig reads `path` over DefaultConfig, a missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadWithDefaults(path, DefaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	token := os.Getenv(libsqlAuthTokenEnv)
	if token != "" {
		cfg.Store.AuthToken = token
	}
	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that are otherwise only used after a scrape.
func (c Config) Validate() error {
	_, err := c.OutputOptions()
	return err
}

func (c Config) ClientOptions() yo.ClientOptions {
	return yo.ClientOptions{
		BaseUrl:           c.BaseUrl,
		LandingUrl:        c.LandingUrl,
		Timeout:           time.Duration(c.TimeoutSeconds * float64(time.Second)),
		RequestsPerSecond: c.RequestsPerSecond,
		CloudflareBypass:  c.CloudflareBypass,
		Classifier:        yo.ChildCountClassifier{Threshold: c.LayoutThreshold},
		Parse:             yo.ParseOptions{Strict: c.StrictScores},
	}
}

func (c Config) OutputOptions() (yo.OutputOptions, error) {
	shape, err := yo.ParseOutputShape(c.Output.Shape)
	if err != nil {
		return yo.OutputOptions{}, fmt.Errorf("output.shape: %w", err)
	}
	return yo.OutputOptions{
		Shape:       shape,
		YearPath:    c.Output.YearPath,
		SubjectPath: c.Output.SubjectPath,
	}, nil
}

func (c Config) CacheTtl() time.Duration {
	return time.Duration(c.Cache.TtlHours * float64(time.Hour))
}

func (c Config) StoreEnabled() bool {
	return c.Store.File != "" || c.Store.Url != ""
}
