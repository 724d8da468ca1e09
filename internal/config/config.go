package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xxxsen/common/logger"
)

const (
	defaultSimilarityThreshold = 0.25
	defaultTopK                = 3
	defaultMaxQueryChars       = 500
	defaultRateLimit           = 10
	defaultRateWindowSeconds   = 60
	defaultCacheTTLSeconds     = 3600
	defaultDailyQuota          = 100
	defaultQuotaResetSpec      = "0 0 * * *"
	defaultAITimeoutSeconds    = 30
	defaultQueryCacheSize      = 512
	defaultQueryCacheTTL       = 3600
	defaultEmbeddingsKey       = "embeddings.json"
)

type Config struct {
	Port           int              `json:"port"`
	LogConfig      logger.LogConfig `json:"log_config"`
	CORSOrigins    []string         `json:"cors_origins"`
	ProfilePath    string           `json:"profile_path"`
	AI             AIConfig         `json:"ai"`
	EmbeddingStore FileStoreConfig  `json:"embedding_store"`
	RAG            RAGConfig        `json:"rag"`
	RateLimit      RateLimitConfig  `json:"rate_limit"`
	Cache          CacheConfig      `json:"cache"`
	Quota          QuotaConfig      `json:"quota"`
}

type AIProviderConfig struct {
	Name     string      `json:"name"`
	Provider string      `json:"provider"`
	Model    string      `json:"model"`
	Data     interface{} `json:"data"`
}

type AIConfig struct {
	Generators []AIProviderConfig `json:"generators"`
	Embedders  []AIProviderConfig `json:"embedders"`
	// Timeout is the per-call deadline in seconds.
	Timeout int `json:"timeout"`
	// MaxRetries defaults to 1. A negative value disables retries.
	MaxRetries     int `json:"max_retries"`
	QueryCacheSize int `json:"query_cache_size"`
	QueryCacheTTL  int `json:"query_cache_ttl"`
}

type FileStoreConfig struct {
	Type string      `json:"type"`
	Key  string      `json:"key"`
	Data interface{} `json:"data"`
}

type RAGConfig struct {
	// SimilarityThreshold is nil when unset, so 0 stays a valid setting.
	SimilarityThreshold *float64 `json:"similarity_threshold"`
	TopK                int      `json:"top_k"`
	FallbackChunkIDs    []string `json:"fallback_chunk_ids"`
	MaxQueryChars       int      `json:"max_query_chars"`
	// IndexIntervalMs paces embedding calls made by the offline indexer.
	IndexIntervalMs int `json:"index_interval_ms"`
}

func (r RAGConfig) Threshold() float64 {
	if r.SimilarityThreshold == nil {
		return defaultSimilarityThreshold
	}
	return *r.SimilarityThreshold
}

type RateLimitConfig struct {
	Limit         int `json:"limit"`
	WindowSeconds int `json:"window_seconds"`
}

type CacheConfig struct {
	TTLSeconds int `json:"ttl_seconds"`
}

type QuotaConfig struct {
	DailyLimit int `json:"daily_limit"`
	// ResetSpec is a cron expression. Empty keeps the counter for the process lifetime.
	ResetSpec *string `json:"reset_spec"`
}

func (q QuotaConfig) ResetSchedule() string {
	if q.ResetSpec == nil {
		return defaultQuotaResetSpec
	}
	return strings.TrimSpace(*q.ResetSpec)
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a JSON config after expanding ${VAR} references from the
// environment, then applies defaults.
func Parse(raw []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(raw))
	var cfg Config
	if err := json.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() error {
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if strings.TrimSpace(c.ProfilePath) == "" {
		return fmt.Errorf("profile_path is required")
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if len(c.AI.Embedders) == 0 {
		return fmt.Errorf("ai.embedders is required")
	}
	for i, item := range append(append([]AIProviderConfig{}, c.AI.Generators...), c.AI.Embedders...) {
		if strings.TrimSpace(item.Provider) == "" || strings.TrimSpace(item.Model) == "" {
			return fmt.Errorf("ai provider entry %d: provider and model are required", i)
		}
	}
	if c.AI.Timeout <= 0 {
		c.AI.Timeout = defaultAITimeoutSeconds
	}
	switch {
	case c.AI.MaxRetries == 0:
		c.AI.MaxRetries = 1
	case c.AI.MaxRetries < 0:
		c.AI.MaxRetries = 0
	case c.AI.MaxRetries > 1:
		return fmt.Errorf("ai.max_retries must be at most 1")
	}
	if c.AI.QueryCacheSize == 0 {
		c.AI.QueryCacheSize = defaultQueryCacheSize
	}
	if c.AI.QueryCacheTTL == 0 {
		c.AI.QueryCacheTTL = defaultQueryCacheTTL
	}
	if c.EmbeddingStore.Type == "" {
		c.EmbeddingStore.Type = "local"
	}
	if c.EmbeddingStore.Key == "" {
		c.EmbeddingStore.Key = defaultEmbeddingsKey
	}
	if t := c.RAG.Threshold(); t < -1 || t > 1 {
		return fmt.Errorf("rag.similarity_threshold must be within [-1, 1]")
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = defaultTopK
	}
	if c.RAG.MaxQueryChars <= 0 {
		c.RAG.MaxQueryChars = defaultMaxQueryChars
	}
	if c.RateLimit.Limit <= 0 {
		c.RateLimit.Limit = defaultRateLimit
	}
	if c.RateLimit.WindowSeconds <= 0 {
		c.RateLimit.WindowSeconds = defaultRateWindowSeconds
	}
	if c.Cache.TTLSeconds <= 0 {
		c.Cache.TTLSeconds = defaultCacheTTLSeconds
	}
	if c.Quota.DailyLimit <= 0 {
		c.Quota.DailyLimit = defaultDailyQuota
	}
	return nil
}
