package pagecache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process cache, entries are dropped after `ttl` or when
// more than `size` pages are held.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(size int, ttl time.Duration) Memory {
	return Memory{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (m Memory) Get(ctx context.Context, link string) ([]byte, error) {
	key, err := Key(link)
	if err != nil {
		return nil, err
	}
	body, ok := m.lru.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return body, nil
}

func (m Memory) Set(ctx context.Context, link string, body []byte) error {
	key, err := Key(link)
	if err != nil {
		return err
	}
	m.lru.Add(key, body)
	return nil
}
