package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/intent"
)

const (
	projectQuery   = "What projects has he built?"
	gibberishQuery = "zxqv blorp wuggle"
)

func newTestEngine(t *testing.T, queries map[string][]float32, cfg EngineConfig) (*Engine, *fakeEmbedder) {
	t.Helper()
	c := testCorpus(t)
	emb := newFakeEmbedder(queries)
	store := NewEmbeddingStore(testFile(testVectors()), emb)
	engine, err := NewEngine(c, intent.NewDefaultClassifier(), emb, store, cfg)
	require.NoError(t, err)
	return engine, emb
}

func TestSearchProjectQuery(t *testing.T) {
	engine, _ := newTestEngine(t, map[string][]float32{projectQuery: {1, 0, 0}}, EngineConfig{})

	res, err := engine.Search(context.Background(), projectQuery)
	require.NoError(t, err)
	require.Equal(t, intent.Project, res.Intent)
	require.False(t, res.FallbackUsed)
	// skills:backend scores 1 but is outside the project sections.
	require.Equal(t, []string{"project:tide", "project:lantern", "project:orbit"}, ids(res.Matches))
	for i, m := range res.Matches {
		require.GreaterOrEqual(t, m.Score, float32(DefaultThreshold))
		if i > 0 {
			require.LessOrEqual(t, m.Score, res.Matches[i-1].Score)
		}
	}
}

func TestSearchFallsBackWhenNothingClearsThreshold(t *testing.T) {
	engine, _ := newTestEngine(t, map[string][]float32{gibberishQuery: {0, 0, -1}}, EngineConfig{})

	res, err := engine.Search(context.Background(), gibberishQuery)
	require.NoError(t, err)
	require.Equal(t, intent.General, res.Intent)
	require.True(t, res.FallbackUsed)
	require.Equal(t, []string{"identity", "philosophy"}, ids(res.Matches))
	for _, m := range res.Matches {
		require.Zero(t, m.Score)
	}
}

func TestSearchFallbackSetIsQueryIndependent(t *testing.T) {
	engine, _ := newTestEngine(t, map[string][]float32{
		"how do I reach her by email": {-1, -1, -1},
		gibberishQuery:                {0, 0, -1},
	}, EngineConfig{FallbackIDs: []string{"contact", "identity"}})

	for _, q := range []string{"how do I reach her by email", gibberishQuery} {
		res, err := engine.Search(context.Background(), q)
		require.NoError(t, err)
		require.True(t, res.FallbackUsed)
		require.Equal(t, []string{"contact", "identity"}, ids(res.Matches))
	}
}

func TestSearchThresholdIsInclusive(t *testing.T) {
	query := []float32{1, 0, 0}
	exact := CosineSimilarity(query, testVectors()["project:orbit"])
	engine, _ := newTestEngine(t, map[string][]float32{projectQuery: query}, EngineConfig{Threshold: &exact, TopK: 10})

	res, err := engine.Search(context.Background(), projectQuery)
	require.NoError(t, err)
	require.Equal(t, []string{"project:tide", "project:lantern", "project:orbit"}, ids(res.Matches))
}

func TestSearchTopKAndStableTies(t *testing.T) {
	c := testCorpus(t)
	vectors := testVectors()
	vectors["project:tide"] = []float32{1, 0, 0}
	vectors["project:lantern"] = []float32{1, 0, 0}
	vectors["project:orbit"] = []float32{1, 0, 0}
	emb := newFakeEmbedder(map[string][]float32{projectQuery: {1, 0, 0}})
	engine, err := NewEngine(c, intent.NewDefaultClassifier(), emb, NewEmbeddingStore(testFile(vectors), emb), EngineConfig{TopK: 2})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		res, err := engine.Search(context.Background(), projectQuery)
		require.NoError(t, err)
		require.Equal(t, []string{"project:tide", "project:lantern"}, ids(res.Matches))
	}
}

func TestSearchQueryEmbedFailurePropagates(t *testing.T) {
	engine, emb := newTestEngine(t, nil, EngineConfig{})
	emb.fail = true

	res, err := engine.Search(context.Background(), projectQuery)
	require.ErrorIs(t, err, errEmbed)
	require.Nil(t, res)
}

func TestSearchEmbedsMissingChunksOnDemand(t *testing.T) {
	c := testCorpus(t)
	vectors := testVectors()
	delete(vectors, "project:tide")
	tide, ok := c.Get("project:tide")
	require.True(t, ok)
	emb := newFakeEmbedder(map[string][]float32{projectQuery: {1, 0, 0}, tide.Text: {1, 0, 0}})
	store := NewEmbeddingStore(testFile(vectors), emb)
	engine, err := NewEngine(c, intent.NewDefaultClassifier(), emb, store, EngineConfig{})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := engine.Search(context.Background(), projectQuery)
		require.NoError(t, err)
		require.Equal(t, "project:tide", res.Matches[0].Chunk.ID)
	}
	require.Equal(t, 1, emb.count(ai.TaskRetrievalDocument))
	persisted, computed := store.Stats()
	require.Equal(t, 7, persisted)
	require.Equal(t, 1, computed)
}

func TestNewEngineFallbackValidation(t *testing.T) {
	c := testCorpus(t)
	emb := newFakeEmbedder(nil)
	store := NewEmbeddingStore(testFile(testVectors()), emb)
	_, err := NewEngine(c, intent.NewDefaultClassifier(), emb, store, EngineConfig{FallbackIDs: []string{"nope"}})
	require.Error(t, err)
	_, err = NewEngine(nil, intent.NewDefaultClassifier(), emb, store, EngineConfig{})
	require.Error(t, err)
}

func TestSearchZeroThresholdKeepsWeakMatches(t *testing.T) {
	zero := float32(0)
	// Only tide (about 0.09) and identity (0) score at or above zero.
	query := []float32{0.2, -1, 0}

	engine, _ := newTestEngine(t, map[string][]float32{projectQuery: query}, EngineConfig{Threshold: &zero})
	res, err := engine.Search(context.Background(), projectQuery)
	require.NoError(t, err)
	require.False(t, res.FallbackUsed)
	require.Equal(t, []string{"project:tide", "identity"}, ids(res.Matches))

	defaulted, _ := newTestEngine(t, map[string][]float32{projectQuery: query}, EngineConfig{})
	res, err = defaulted.Search(context.Background(), projectQuery)
	require.NoError(t, err)
	require.True(t, res.FallbackUsed)
}
