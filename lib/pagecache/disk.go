package pagecache

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"time"
	"yoresults/lib/timezone"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type webpage struct {
	Contents  []byte
	ExpiresAt int64
}

// Disk persists pages in a badger database so that repeated runs during
// development do not hit the site again.
type Disk struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenDisk opens (or creates) a badger database in dir.
func OpenDisk(dir string, ttl time.Duration) (Disk, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return Disk{}, err
	}
	return NewDisk(db, ttl), nil
}

func NewDisk(db *badger.DB, ttl time.Duration) Disk {
	return Disk{db: db, ttl: ttl}
}

func (d Disk) Close() error {
	return d.db.Close()
}

func (d Disk) Get(ctx context.Context, link string) ([]byte, error) {
	_, span := tracer.Start(ctx, "disk:get")
	defer span.End()

	key, err := Key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return nil, err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	var cached webpage
	err = d.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		serialized, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return gob.NewDecoder(bytes.NewBuffer(serialized)).Decode(&cached)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cached page")
		return nil, err
	}

	if timezone.Now().Unix() >= cached.ExpiresAt {
		span.AddEvent("delete expired cache key", trace.WithAttributes(
			attribute.String("key", key),
		))
		err = d.db.Update(func(tx *badger.Txn) error {
			return tx.Delete([]byte(key))
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return nil, ErrNotFound
	}

	span.SetAttributes(attribute.Int("contentlength", len(cached.Contents)))
	return cached.Contents, nil
}

func (d Disk) Set(ctx context.Context, link string, body []byte) error {
	_, span := tracer.Start(ctx, "disk:set")
	defer span.End()

	key, err := Key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(webpage{
		Contents:  body,
		ExpiresAt: timezone.Now().Add(d.ttl).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize webpage")
		return err
	}

	err = d.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), serialized.Bytes())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}
	return nil
}
