// Package cache holds rendered post HTML keyed by source checksum, so a
// reindex only pays for goldmark rendering when a file actually changed.
package cache

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
)

const renderKeyPrefix = "render:"

type RenderCache struct {
	db *badger.DB
}

// Open opens the badger-backed cache at path. An empty path opens an
// in-memory cache, used by tests and the validate-only CLI path.
func Open(path string) (*RenderCache, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open render cache: %w", err)
	}

	return &RenderCache{db: db}, nil
}

func (c *RenderCache) Close() error {
	return c.db.Close()
}

// Get returns the cached HTML for a source checksum. A miss is (nil, false),
// never an error; the caller just renders again.
func (c *RenderCache) Get(checksum string) ([]byte, bool) {
	var html []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(renderKey(checksum))
		if err != nil {
			return err
		}
		html, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false
	}
	if err != nil {
		slog.Warn("render cache read failed", "checksum", checksum, "error", err)
		return nil, false
	}
	return html, true
}

func (c *RenderCache) Put(checksum string, html []byte) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(renderKey(checksum), html)
	})
}

func renderKey(checksum string) []byte {
	return []byte(renderKeyPrefix + checksum)
}
