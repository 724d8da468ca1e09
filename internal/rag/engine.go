package rag

import (
	"context"
	"fmt"
	"sort"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/corpus"
	"github.com/xxxsen/askfolio/internal/intent"
	"github.com/xxxsen/askfolio/internal/model"
)

const (
	DefaultThreshold = 0.25
	DefaultTopK      = 3
)

var defaultFallbackIDs = []string{"identity", "philosophy"}

type EngineConfig struct {
	// Threshold is the minimum score a match needs. Nil means DefaultThreshold.
	Threshold *float32
	TopK      int
	// FallbackIDs lists the chunks returned when nothing clears Threshold.
	// Empty means identity and philosophy.
	FallbackIDs []string
}

type Match struct {
	Chunk model.Chunk
	Score float32
}

type Result struct {
	Intent       intent.Intent
	Matches      []Match
	FallbackUsed bool
}

type Engine struct {
	corpus     *corpus.Corpus
	classifier *intent.Classifier
	embedder   ai.IEmbedder
	store      *EmbeddingStore
	cfg        EngineConfig
	threshold  float32
	fallback   []model.Chunk
}

func NewEngine(c *corpus.Corpus, classifier *intent.Classifier, queryEmbedder ai.IEmbedder, store *EmbeddingStore, cfg EngineConfig) (*Engine, error) {
	if c == nil || classifier == nil || queryEmbedder == nil || store == nil {
		return nil, fmt.Errorf("engine dependencies are required")
	}
	threshold := float32(DefaultThreshold)
	if cfg.Threshold != nil {
		threshold = *cfg.Threshold
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	fallback, err := resolveFallback(c, cfg.FallbackIDs)
	if err != nil {
		return nil, err
	}
	return &Engine{
		corpus:     c,
		classifier: classifier,
		embedder:   queryEmbedder,
		store:      store,
		cfg:        cfg,
		threshold:  threshold,
		fallback:   fallback,
	}, nil
}

func resolveFallback(c *corpus.Corpus, ids []string) ([]model.Chunk, error) {
	strict := len(ids) > 0
	if !strict {
		ids = defaultFallbackIDs
	}
	out := make([]model.Chunk, 0, len(ids))
	for _, id := range ids {
		chunk, ok := c.Get(id)
		if !ok {
			if strict {
				return nil, fmt.Errorf("fallback chunk %s not found in corpus", id)
			}
			continue
		}
		out = append(out, chunk)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("fallback chunk set is empty")
	}
	return out, nil
}

func (e *Engine) Search(ctx context.Context, query string) (*Result, error) {
	in := e.classifier.Classify(query)
	allowed := make(map[model.Section]struct{})
	for _, section := range intent.Sections(in) {
		allowed[section] = struct{}{}
	}

	queryVec, err := e.embedder.Embed(ctx, query, ai.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches := make([]Match, 0, len(e.corpus.Chunks))
	for _, chunk := range e.corpus.Chunks {
		if _, ok := allowed[chunk.Source.Section]; !ok {
			continue
		}
		vec, err := e.store.Vector(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", chunk.ID, err)
		}
		score := CosineSimilarity(queryVec, vec)
		if score < e.threshold {
			continue
		}
		matches = append(matches, Match{Chunk: chunk, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > e.cfg.TopK {
		matches = matches[:e.cfg.TopK]
	}

	result := &Result{Intent: in, Matches: matches}
	if len(matches) == 0 {
		result.Matches = e.fallbackMatches()
		result.FallbackUsed = true
	}
	logutil.GetLogger(ctx).Debug("rag search done",
		zap.String("intent", string(in)),
		zap.Int("chunks", len(result.Matches)),
		zap.Bool("fallback", result.FallbackUsed))
	return result, nil
}

func (e *Engine) fallbackMatches() []Match {
	out := make([]Match, 0, len(e.fallback))
	for _, chunk := range e.fallback {
		out = append(out, Match{Chunk: chunk})
	}
	return out
}

func (e *Engine) Classify(query string) intent.Intent {
	return e.classifier.Classify(query)
}
