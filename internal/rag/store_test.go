package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/model"
)

func TestEmbeddingStorePrefersPersisted(t *testing.T) {
	emb := newFakeEmbedder(nil)
	store := NewEmbeddingStore(testFile(testVectors()), emb)

	vec, err := store.Vector(context.Background(), model.Chunk{ID: "identity", Text: "anything"})
	require.NoError(t, err)
	require.Equal(t, []float32{0, 0, 1}, vec)
	require.Zero(t, emb.count(ai.TaskRetrievalDocument))
	require.Equal(t, "fake-embed", store.Model())
	require.Equal(t, 3, store.Dimension())
}

func TestEmbeddingStoreRecomputesStaleVectors(t *testing.T) {
	file := testFile(testVectors())
	file.Hashes["identity"] = hashText("old text")
	emb := newFakeEmbedder(map[string][]float32{"new text": {9, 9, 9}})
	store := NewEmbeddingStore(file, emb)

	chunk := model.Chunk{ID: "identity", Text: "new text"}
	vec, err := store.Vector(context.Background(), chunk)
	require.NoError(t, err)
	require.Equal(t, []float32{9, 9, 9}, vec)

	vec, err = store.Vector(context.Background(), chunk)
	require.NoError(t, err)
	require.Equal(t, []float32{9, 9, 9}, vec)
	require.Equal(t, 1, emb.count(ai.TaskRetrievalDocument))
}

func TestEmbeddingStoreErrors(t *testing.T) {
	emb := newFakeEmbedder(nil)
	emb.fail = true
	store := NewEmbeddingStore(nil, emb)
	_, err := store.Vector(context.Background(), model.Chunk{ID: "x", Text: "x"})
	require.ErrorIs(t, err, errEmbed)
	_, computed := store.Stats()
	require.Zero(t, computed)

	store = NewEmbeddingStore(nil, nil)
	_, err = store.Vector(context.Background(), model.Chunk{ID: "x", Text: "x"})
	require.Error(t, err)
}
