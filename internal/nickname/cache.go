// Package nickname keeps player names transliterated consistently across
// a session: a bounded LRU cache from source name to romaji, plus the
// kagome-backed transliterator that produces the romaji.
package nickname

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/go-chat-translate/internal/protect"
)

// DefaultLimit is the cache bound when none is configured.
const DefaultLimit = 500

// Cache maps a source-language name to its transliteration. Any update,
// including re-insertion of a known name, refreshes recency; exceeding
// the limit evicts the least-recently-used entry. Safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, string]
}

// NewCache returns a cache bounded to limit entries (DefaultLimit when
// limit is not positive).
func NewCache(limit int) (*Cache, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	entries, err := lru.New[string, string](limit)
	if err != nil {
		return nil, fmt.Errorf("nickname cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Update inserts or refreshes name as most-recently-used. An empty name
// is a no-op.
func (c *Cache) Update(name, romaji string) {
	if name == "" {
		return
	}
	c.entries.Add(name, romaji)
}

// Lookup returns the cached transliteration and marks the entry as
// most-recently-used.
func (c *Cache) Lookup(name string) (string, bool) {
	return c.entries.Get(name)
}

// Len returns the number of cached names.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Snapshot returns the current mapping, oldest entry first, without
// disturbing recency. The order only matters for determinism; the span
// protector substitutes every entry that occurs in the text.
func (c *Cache) Snapshot() []protect.Nickname {
	keys := c.entries.Keys()
	out := make([]protect.Nickname, 0, len(keys))
	for _, k := range keys {
		if v, ok := c.entries.Peek(k); ok {
			out = append(out, protect.Nickname{Source: k, Romaji: v})
		}
	}
	return out
}
