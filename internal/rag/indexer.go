package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/model"
)

type Indexer struct {
	embedder ai.IEmbedder
	limiter  *rate.Limiter
	now      func() time.Time
}

// NewIndexer paces embedding calls to one per interval. A non-positive
// interval disables pacing.
func NewIndexer(embedder ai.IEmbedder, interval time.Duration) *Indexer {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Indexer{
		embedder: embedder,
		limiter:  rate.NewLimiter(limit, 1),
		now:      time.Now,
	}
}

// Build embeds every chunk. Vectors from previous are reused when the model
// and the chunk text are unchanged.
func (x *Indexer) Build(ctx context.Context, chunks []model.Chunk, previous *EmbeddingFile) (*EmbeddingFile, error) {
	modelName := x.embedder.ModelName()
	out := NewEmbeddingFile(modelName)
	reuse := previous != nil && previous.Model == modelName
	reused := 0
	for _, chunk := range chunks {
		hash := hashText(chunk.Text)
		if reuse {
			if vec, ok := previous.Embeddings[chunk.ID]; ok && previous.Hashes[chunk.ID] == hash {
				if err := out.put(chunk.ID, hash, vec); err != nil {
					return nil, err
				}
				reused++
				continue
			}
		}
		if err := x.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		vec, err := x.embedder.Embed(ctx, chunk.Text, ai.TaskRetrievalDocument)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", chunk.ID, err)
		}
		if err := out.put(chunk.ID, hash, vec); err != nil {
			return nil, err
		}
	}
	out.CreatedAt = x.now().Unix()
	logutil.GetLogger(ctx).Info("embeddings built",
		zap.String("model", modelName),
		zap.Int("chunks", len(chunks)),
		zap.Int("reused", reused),
		zap.Int("dimension", out.Dimension))
	return out, nil
}

func (f *EmbeddingFile) put(id, hash string, vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("empty embedding for chunk %s", id)
	}
	if f.Dimension == 0 {
		f.Dimension = len(vec)
	}
	if len(vec) != f.Dimension {
		return fmt.Errorf("embedding dimension drift on chunk %s: got %d, want %d", id, len(vec), f.Dimension)
	}
	f.Embeddings[id] = vec
	f.Hashes[id] = hash
	return nil
}
