package cache

import (
	"testing"

	"github.com/DrSkyle/lineblame/pkg/blame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func set(authors ...string) blame.Set {
	s := make(blame.Set, 0, len(authors))
	for i, a := range authors {
		s = append(s, blame.Record{Author: a, Line: i + 1})
	}
	return s
}

func TestBlameCache_PutOverwrites(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	_, ok := c.Get("/repo/a.go")
	assert.False(t, ok)

	c.Put("/repo/a.go", set("alice", "bob"))
	c.Put("/repo/a.go", set("carol"))

	got, ok := c.Get("/repo/a.go")
	require.True(t, ok)
	assert.Equal(t, set("carol"), got)
	assert.Equal(t, 1, c.Len())
}

func TestBlameCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("/a", set("a"))
	c.Put("/b", set("b"))
	_, _ = c.Get("/a")
	c.Put("/c", set("c"))

	_, okA := c.Get("/a")
	_, okB := c.Get("/b")
	_, okC := c.Get("/c")
	assert.True(t, okA)
	assert.False(t, okB, "least recently used entry should be evicted")
	assert.True(t, okC)
}

func TestBlameCache_Invalidate(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)

	c.Put("/a", set("a"))
	assert.True(t, c.Invalidate("/a"))
	assert.False(t, c.Invalidate("/a"))
	assert.Zero(t, c.Len())

	c.Put("/a", set("a"))
	c.Put("/b", set("b"))
	assert.ElementsMatch(t, []string{"/a", "/b"}, c.Paths())
	c.Purge()
	assert.Zero(t, c.Len())
}

func TestShownErrors_OncePerKind(t *testing.T) {
	s := NewShownErrors()

	assert.False(t, s.Shown(blame.KindNotARepository))
	assert.True(t, s.MarkShown(blame.KindNotARepository))
	assert.False(t, s.MarkShown(blame.KindNotARepository))
	assert.True(t, s.Shown(blame.KindNotARepository))
	assert.True(t, s.MarkShown(blame.KindQueryFailed), "kinds are tracked independently")
}
