package pagecache

import (
	"context"
	"errors"

	"github.com/PuerkitoBio/purell"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("yoresults.lib.pagecache")

var ErrNotFound = errors.New("pagecache: page not found")

// Cache stores raw response bodies keyed by url.
type Cache interface {
	// Get returns ErrNotFound on a miss or an expired entry.
	Get(ctx context.Context, link string) ([]byte, error)
	Set(ctx context.Context, link string, body []byte) error
}

// Key normalizes a url so that trivially different spellings of the same
// page share a cache entry.
func Key(link string) (string, error) {
	return purell.NormalizeURLString(
		link,
		purell.FlagsSafe|
			purell.FlagRemoveDotSegments|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	)
}

// Layered consults its caches in order, a hit in a later cache is copied into
// the earlier ones. Set writes to every cache.
type Layered []Cache

func (l Layered) Get(ctx context.Context, link string) ([]byte, error) {
	for i, cache := range l {
		body, err := cache.Get(ctx, link)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, earlier := range l[:i] {
			err = earlier.Set(ctx, link, body)
			if err != nil {
				return nil, err
			}
		}
		return body, nil
	}
	return nil, ErrNotFound
}

func (l Layered) Set(ctx context.Context, link string, body []byte) error {
	var errlist []error
	for _, cache := range l {
		err := cache.Set(ctx, link, body)
		if err != nil {
			errlist = append(errlist, err)
		}
	}
	return errors.Join(errlist...)
}
