package respcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/askfolio/internal/model"
)

func newTestCache(ttl time.Duration) (*Cache, *time.Time) {
	now := time.Unix(1700000000, 0)
	c := New(ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestKey(t *testing.T) {
	require.Equal(t, "what projects has he built?", Key("  What   Projects\thas he BUILT? ", ""))
	require.Equal(t, Key("hello world", ""), Key("HELLO  world", "  "))
	require.Equal(t, "tell me more\x1fproject tide", Key("Tell me more", "Project  Tide"))
	require.NotEqual(t, Key("tell me more", ""), Key("tell me more", "skills"))
	require.NotEqual(t, Key("tell me more", "projects"), Key("tell me more", "skills"))
}

func TestCacheTTLBoundary(t *testing.T) {
	c, now := newTestCache(time.Hour)
	answer := &model.Answer{Title: "Projects", Type: model.PanelProjects}
	c.Set("k", Entry{Answer: answer})

	*now = now.Add(time.Hour - time.Nanosecond)
	got, ok := c.Get("k")
	require.True(t, ok)
	require.Same(t, answer, got.Answer)

	*now = now.Add(time.Nanosecond)
	_, ok = c.Get("k")
	require.False(t, ok)
	require.Zero(t, c.Len())
}

func TestCacheSetOverwrites(t *testing.T) {
	c, now := newTestCache(time.Minute)
	c.Set("k", Entry{Answer: &model.Answer{Title: "first"}})
	*now = now.Add(50 * time.Second)
	c.Set("k", Entry{Answer: &model.Answer{Title: "second"}, QuotaReached: true})
	*now = now.Add(50 * time.Second)

	got, ok := c.Get("k")
	require.True(t, ok)
	require.Equal(t, "second", got.Answer.Title)
	require.True(t, got.QuotaReached)
}

func TestCachePurge(t *testing.T) {
	c, now := newTestCache(time.Minute)
	c.Set("old", Entry{Answer: &model.Answer{}})
	*now = now.Add(30 * time.Second)
	c.Set("new", Entry{Answer: &model.Answer{}})
	*now = now.Add(40 * time.Second)

	require.Equal(t, 1, c.Purge())
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("new")
	require.True(t, ok)
}

func TestCacheMiss(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	_, ok := c.Get("absent")
	require.False(t, ok)
}
