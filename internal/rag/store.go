package rag

import (
	"context"
	"fmt"
	"sync"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/model"
)

// EmbeddingStore serves chunk vectors. Persisted vectors are read-only; chunks
// missing from the file, or whose text changed since it was written, are
// embedded on demand and kept in memory for the process lifetime.
type EmbeddingStore struct {
	persisted map[string][]float32
	hashes    map[string]string
	model     string
	dimension int
	embedder  ai.IEmbedder

	mu       sync.RWMutex
	computed map[string][]float32
}

func NewEmbeddingStore(file *EmbeddingFile, embedder ai.IEmbedder) *EmbeddingStore {
	if file == nil {
		file = NewEmbeddingFile("")
	}
	return &EmbeddingStore{
		persisted: file.Embeddings,
		hashes:    file.Hashes,
		model:     file.Model,
		dimension: file.Dimension,
		embedder:  embedder,
		computed:  make(map[string][]float32),
	}
}

func (s *EmbeddingStore) Model() string {
	return s.model
}

func (s *EmbeddingStore) Dimension() int {
	return s.dimension
}

func (s *EmbeddingStore) Vector(ctx context.Context, chunk model.Chunk) ([]float32, error) {
	if vec, ok := s.persisted[chunk.ID]; ok {
		if hash, ok := s.hashes[chunk.ID]; !ok || hash == hashText(chunk.Text) {
			return vec, nil
		}
	}
	s.mu.RLock()
	vec, ok := s.computed[chunk.ID]
	s.mu.RUnlock()
	if ok {
		return vec, nil
	}
	if s.embedder == nil {
		return nil, fmt.Errorf("no embedding for chunk %s", chunk.ID)
	}
	vec, err := s.embedder.Embed(ctx, chunk.Text, ai.TaskRetrievalDocument)
	if err != nil {
		return nil, err
	}
	if s.dimension > 0 && len(vec) != s.dimension {
		logutil.GetLogger(ctx).Warn("on-demand embedding dimension differs from persisted set",
			zap.String("chunk_id", chunk.ID), zap.Int("dimension", len(vec)), zap.Int("want", s.dimension))
	}
	s.mu.Lock()
	s.computed[chunk.ID] = vec
	s.mu.Unlock()
	logutil.GetLogger(ctx).Debug("chunk embedded on demand", zap.String("chunk_id", chunk.ID))
	return vec, nil
}

// Stats reports how many vectors came from the file and how many were computed.
func (s *EmbeddingStore) Stats() (persisted int, computed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.persisted), len(s.computed)
}
