// Package cache keeps the most recent blame result per file and the set of
// error kinds already surfaced to the user.
package cache

import (
	"fmt"

	"github.com/DrSkyle/lineblame/pkg/blame"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSize is the number of files kept when no size is configured.
const DefaultSize = 256

// BlameCache maps an absolute file path to its latest attribution set.
// Entries are replaced wholesale and the least recently used file is
// evicted once the cache is full.
type BlameCache struct {
	entries *lru.Cache[string, blame.Set]
}

// New creates a cache holding up to size files.
func New(size int) (*BlameCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, blame.Set](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create blame cache: %w", err)
	}
	return &BlameCache{entries: entries}, nil
}

// Get returns the cached set for path.
func (c *BlameCache) Get(path string) (blame.Set, bool) {
	return c.entries.Get(path)
}

// Put overwrites any prior entry for path.
func (c *BlameCache) Put(path string, set blame.Set) {
	c.entries.Add(path, set)
}

// Invalidate drops path and reports whether it was cached.
func (c *BlameCache) Invalidate(path string) bool {
	return c.entries.Remove(path)
}

// Purge drops every entry.
func (c *BlameCache) Purge() {
	c.entries.Purge()
}

// Len returns the number of cached files.
func (c *BlameCache) Len() int {
	return c.entries.Len()
}

// Paths returns cached paths from oldest to newest use.
func (c *BlameCache) Paths() []string {
	return c.entries.Keys()
}
