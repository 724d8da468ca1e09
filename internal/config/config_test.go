package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const minimalConfig = `{
  "port": 8080,
  "profile_path": "profile.yaml",
  "ai": {"embedders": [{"provider": "gemini", "model": "text-embedding-004", "data": {"api_key": "${ASKFOLIO_TEST_KEY}"}}]}
}`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogConfig.Level)
	require.Nil(t, cfg.RAG.SimilarityThreshold)
	require.Equal(t, 0.25, cfg.RAG.Threshold())
	require.Equal(t, 3, cfg.RAG.TopK)
	require.Equal(t, 500, cfg.RAG.MaxQueryChars)
	require.Equal(t, 10, cfg.RateLimit.Limit)
	require.Equal(t, 60, cfg.RateLimit.WindowSeconds)
	require.Equal(t, 3600, cfg.Cache.TTLSeconds)
	require.Equal(t, 100, cfg.Quota.DailyLimit)
	require.Equal(t, "0 0 * * *", cfg.Quota.ResetSchedule())
	require.Equal(t, 1, cfg.AI.MaxRetries)
	require.Equal(t, "local", cfg.EmbeddingStore.Type)
	require.Equal(t, "embeddings.json", cfg.EmbeddingStore.Key)
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("ASKFOLIO_TEST_KEY", "secret-value")
	cfg, err := Parse([]byte(minimalConfig))
	require.NoError(t, err)
	data, ok := cfg.AI.Embedders[0].Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "secret-value", data["api_key"])
}

func TestParseEmptyResetSpecDisablesReset(t *testing.T) {
	cfg, err := Parse([]byte(`{"port":1,"profile_path":"p","quota":{"reset_spec":""},
"ai":{"embedders":[{"provider":"gemini","model":"m"}]}}`))
	require.NoError(t, err)
	require.Equal(t, "", cfg.Quota.ResetSchedule())
}

func TestParseValidation(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "missing port", raw: `{"profile_path":"p","ai":{"embedders":[{"provider":"gemini","model":"m"}]}}`},
		{name: "missing profile", raw: `{"port":1,"ai":{"embedders":[{"provider":"gemini","model":"m"}]}}`},
		{name: "missing embedder", raw: `{"port":1,"profile_path":"p"}`},
		{name: "embedder without model", raw: `{"port":1,"profile_path":"p","ai":{"embedders":[{"provider":"gemini"}]}}`},
		{name: "too many retries", raw: `{"port":1,"profile_path":"p","ai":{"max_retries":3,"embedders":[{"provider":"gemini","model":"m"}]}}`},
		{name: "bad threshold", raw: `{"port":1,"profile_path":"p","rag":{"similarity_threshold":2},"ai":{"embedders":[{"provider":"gemini","model":"m"}]}}`},
		{name: "bad json", raw: `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.raw))
			require.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(minimalConfig), 0o644))
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestExampleConfigLoads(t *testing.T) {
	cfg, err := Load("../../configs/config.example.json")
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Len(t, cfg.AI.Generators, 2)
	require.Equal(t, "local", cfg.EmbeddingStore.Type)
	require.Equal(t, "0 0 * * *", cfg.Quota.ResetSchedule())
	require.InDelta(t, 0.25, cfg.RAG.Threshold(), 1e-9)
}

func TestSimilarityThresholdZeroIsKept(t *testing.T) {
	tests := []struct {
		name string
		rag  string
		want float64
	}{
		{name: "unset", rag: `{}`, want: 0.25},
		{name: "zero", rag: `{"similarity_threshold": 0}`, want: 0},
		{name: "negative", rag: `{"similarity_threshold": -0.5}`, want: -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := strings.Replace(minimalConfig, `"port": 8080,`, `"port": 8080, "rag": `+tt.rag+`,`, 1)
			cfg, err := Parse([]byte(raw))
			require.NoError(t, err)
			require.Equal(t, tt.want, cfg.RAG.Threshold())
		})
	}

	_, err := Parse([]byte(strings.Replace(minimalConfig, `"port": 8080,`, `"port": 8080, "rag": {"similarity_threshold": 1.5},`, 1)))
	require.Error(t, err)
}
