package respcache

import (
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/askfolio/internal/model"
)

const followUpSeparator = "\x1f"

// Key normalizes the query and appends the follow-up hint, so the same
// question asked fresh and as a follow-up map to different entries.
func Key(query, followUp string) string {
	key := normalize(query)
	if f := normalize(followUp); f != "" {
		key += followUpSeparator + f
	}
	return key
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

type Entry struct {
	Answer       *model.Answer
	RAG          *model.RAGInfo
	QuotaReached bool
	CreatedAt    time.Time
}

// Cache holds answers for a fixed TTL. Expired entries are dropped when
// looked up or when Purge runs.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]Entry
	now     func() time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

func (c *Cache) Get(key string) (Entry, bool) {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	if !c.validLocked(entry, now) {
		delete(c.entries, key)
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) Set(key string, entry Entry) {
	entry.CreatedAt = c.now()
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Purge removes expired entries and reports how many were dropped.
func (c *Cache) Purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for key, entry := range c.entries {
		if !c.validLocked(entry, now) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) validLocked(entry Entry, now time.Time) bool {
	return now.Sub(entry.CreatedAt) < c.ttl
}
