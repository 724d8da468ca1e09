package embedcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/askfolio/internal/ai"
)

type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []float32{float32(len(text)), 1}, nil
}

func (s *stubEmbedder) ModelName() string {
	return "stub"
}

func TestLruEmbedderCachesByTextAndTask(t *testing.T) {
	inner := &stubEmbedder{}
	e := NewLruEmbedder(inner, 16, time.Hour)
	ctx := context.Background()

	first, err := e.Embed(ctx, "hello", ai.TaskRetrievalQuery)
	require.NoError(t, err)
	second, err := e.Embed(ctx, "hello", ai.TaskRetrievalQuery)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)

	_, err = e.Embed(ctx, "hello", ai.TaskRetrievalDocument)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)

	stats := e.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(2), stats.Misses)
	require.Equal(t, 2, stats.Size)
}

func TestLruEmbedderReturnsCopies(t *testing.T) {
	e := NewLruEmbedder(&stubEmbedder{}, 4, time.Hour)
	vec, err := e.Embed(context.Background(), "abc", "")
	require.NoError(t, err)
	vec[0] = 99

	again, err := e.Embed(context.Background(), "abc", "")
	require.NoError(t, err)
	require.Equal(t, float32(3), again[0])
}

func TestLruEmbedderDoesNotCacheErrors(t *testing.T) {
	inner := &stubEmbedder{err: errors.New("down")}
	e := NewLruEmbedder(inner, 4, time.Hour)
	_, err := e.Embed(context.Background(), "abc", "")
	require.Error(t, err)
	_, err = e.Embed(context.Background(), "abc", "")
	require.Error(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestWrapLruCacheDisabled(t *testing.T) {
	inner := &stubEmbedder{}
	require.Same(t, ai.IEmbedder(inner), WrapLruCacheToEmbedder(inner, 0, time.Hour))
	require.Same(t, ai.IEmbedder(inner), WrapLruCacheToEmbedder(inner, 10, 0))
}
