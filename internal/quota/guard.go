// Package quota counts successful generation calls against a daily ceiling.
// Without a scheduled Reset the count lives as long as the process.
package quota

import "sync/atomic"

type Guard struct {
	limit int64
	used  atomic.Int64
}

func New(limit int) *Guard {
	return &Guard{limit: int64(limit)}
}

func (g *Guard) IsExceeded() bool {
	return g.used.Load() >= g.limit
}

func (g *Guard) Increment() {
	g.used.Add(1)
}

func (g *Guard) Used() int64 {
	return g.used.Load()
}

func (g *Guard) Limit() int64 {
	return g.limit
}

func (g *Guard) Reset() {
	g.used.Store(0)
}
