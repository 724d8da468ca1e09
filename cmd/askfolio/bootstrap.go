package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/askfolio/internal/ai"
	"github.com/xxxsen/askfolio/internal/config"
	"github.com/xxxsen/askfolio/internal/corpus"
	"github.com/xxxsen/askfolio/internal/embedcache"
	"github.com/xxxsen/askfolio/internal/filestore"
	"github.com/xxxsen/askfolio/internal/intent"
	"github.com/xxxsen/askfolio/internal/model"
	"github.com/xxxsen/askfolio/internal/quota"
	"github.com/xxxsen/askfolio/internal/rag"
	"github.com/xxxsen/askfolio/internal/ratelimit"
	"github.com/xxxsen/askfolio/internal/respcache"
	"github.com/xxxsen/askfolio/internal/service"
)

type app struct {
	corpus  *corpus.Corpus
	cache   *respcache.Cache
	quota   *quota.Guard
	limiter *ratelimit.Limiter
	ask     *service.AskService
}

func loadCorpus(path string) (*model.Profile, *corpus.Corpus, error) {
	profile, err := corpus.LoadProfile(path)
	if err != nil {
		return nil, nil, err
	}
	c, err := corpus.Build(profile)
	if err != nil {
		return nil, nil, fmt.Errorf("build corpus: %w", err)
	}
	return profile, c, nil
}

func entryName(item config.AIProviderConfig) string {
	if item.Name != "" {
		return item.Name
	}
	return item.Provider + "/" + item.Model
}

// buildAI wires every configured provider behind retry, failover and the
// per-call timeout.
func buildAI(cfg *config.Config) (*ai.Manager, error) {
	generators := make([]ai.GeneratorEntry, 0, len(cfg.AI.Generators))
	for _, item := range cfg.AI.Generators {
		provider, err := ai.NewProvider(item.Provider, item.Data)
		if err != nil {
			return nil, fmt.Errorf("init generator %s: %w", entryName(item), err)
		}
		generators = append(generators, ai.GeneratorEntry{
			Name:      entryName(item),
			Generator: ai.WrapRetryGenerator(ai.NewGenerator(provider, item.Model), cfg.AI.MaxRetries),
		})
	}
	embedders := make([]ai.EmbedderEntry, 0, len(cfg.AI.Embedders))
	for _, item := range cfg.AI.Embedders {
		provider, err := ai.NewProvider(item.Provider, item.Data)
		if err != nil {
			return nil, fmt.Errorf("init embedder %s: %w", entryName(item), err)
		}
		embedders = append(embedders, ai.EmbedderEntry{
			Name:     entryName(item),
			Embedder: ai.WrapRetryEmbedder(ai.NewEmbedder(provider, item.Model), cfg.AI.MaxRetries),
		})
	}
	return ai.NewManager(ai.NewGroupGenerator(generators), ai.NewGroupEmbedder(embedders), ai.ManagerConfig{Timeout: cfg.AI.Timeout}), nil
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	profile, c, err := loadCorpus(cfg.ProfilePath)
	if err != nil {
		return nil, err
	}
	manager, err := buildAI(cfg)
	if err != nil {
		return nil, err
	}
	if len(cfg.AI.Generators) == 0 {
		logutil.GetLogger(ctx).Warn("no generator configured, every answer will be canned")
	}

	store, err := filestore.New(cfg.EmbeddingStore)
	if err != nil {
		return nil, fmt.Errorf("init embedding store: %w", err)
	}
	file, err := rag.LoadEmbeddingFile(ctx, store, cfg.EmbeddingStore.Key, manager.ModelName())
	if err != nil {
		return nil, err
	}
	if file.Model != "" && file.Model != manager.ModelName() {
		logutil.GetLogger(ctx).Warn("embeddings file was built with a different model, ignoring it until embed is rerun",
			zap.String("file_model", file.Model), zap.String("model", manager.ModelName()))
		file = rag.NewEmbeddingFile(manager.ModelName())
	}
	vectors := rag.NewEmbeddingStore(file, manager)
	queryEmbedder := embedcache.WrapLruCacheToEmbedder(manager, cfg.AI.QueryCacheSize, time.Duration(cfg.AI.QueryCacheTTL)*time.Second)
	threshold := float32(cfg.RAG.Threshold())
	engine, err := rag.NewEngine(c, intent.NewDefaultClassifier(), queryEmbedder, vectors, rag.EngineConfig{
		Threshold:   &threshold,
		TopK:        cfg.RAG.TopK,
		FallbackIDs: cfg.RAG.FallbackChunkIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("init rag engine: %w", err)
	}
	persisted, _ := vectors.Stats()
	logutil.GetLogger(ctx).Info("rag engine ready",
		zap.Int("chunks", c.Len()),
		zap.Int("persisted_vectors", persisted),
		zap.Int("dimension", vectors.Dimension()))

	cache := respcache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	guard := quota.New(cfg.Quota.DailyLimit)
	ask := service.NewAskService(service.AskDeps{
		Profile:   profile,
		Corpus:    c,
		Searcher:  engine,
		Generator: manager,
		Cache:     cache,
		Quota:     guard,
	}, service.AskConfig{
		MaxQueryChars: cfg.RAG.MaxQueryChars,
		MaxRetries:    cfg.AI.MaxRetries,
	})
	return &app{
		corpus:  c,
		cache:   cache,
		quota:   guard,
		limiter: ratelimit.New(cfg.RateLimit.Limit, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second),
		ask:     ask,
	}, nil
}
