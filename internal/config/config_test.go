package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaultsWithMocks(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.RetrievalCfg.TopK)
	assert.Equal(t, 1500, cfg.BudgetCfg.ContextTokens)
	assert.Equal(t, 3000, cfg.BudgetCfg.OverallTokens)
	assert.Equal(t, 20*time.Second, cfg.GenerationCfg.Timeout)
	assert.Equal(t, uint(1), cfg.GenerationCfg.Retry.Attempts)
	assert.Equal(t, 500*time.Millisecond, cfg.GenerationCfg.Retry.Delay)
	assert.Equal(t, ProviderHashing, cfg.EmbeddingCfg.Provider)
	assert.Equal(t, BackendFile, cfg.IndexCfg.Backend)
}

func TestParseNestedPrefixes(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("LLM_PROVIDER", "http")
	t.Setenv("LLM_SERVICE_URL", "http://llm:9000")
	t.Setenv("LLM_TIMEOUT", "7s")
	t.Setenv("GENERATION_RETRY_ATTEMPTS", "2")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, ProviderHTTP, cfg.LLMCfg.Provider)
	assert.Equal(t, "http://llm:9000", cfg.LLMCfg.Url)
	assert.Equal(t, 7*time.Second, cfg.LLMCfg.RequestTimeout)
	assert.Equal(t, uint(2), cfg.GenerationCfg.Retry.Attempts)
	assert.Equal(t, "redis:6379", cfg.RedisCfg.Addr)
}

func TestValidateConfigCollectsEveryViolation(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "true")
	t.Setenv("RETRIEVAL_TOP_K", "0")
	t.Setenv("BUDGET_CONTEXT_TOKENS", "4000")
	t.Setenv("EMBEDDING_PROVIDER", "word2vec")
	t.Setenv("INDEX_BACKEND", "postgres")

	_, err := Parse()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "RETRIEVAL_TOP_K")
	assert.Contains(t, msg, "BUDGET_CONTEXT_TOKENS (4000) must be smaller")
	assert.Contains(t, msg, "EMBEDDING_PROVIDER")
	assert.Contains(t, msg, "DATABASE_URL is required")
}

func TestLLMKeyRequiredWithoutMocks(t *testing.T) {
	t.Setenv("ENABLE_MOCKS", "false")
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("LLM_BASE_URL", "")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY is required")
}

func TestGetEnvFile(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"", ".env.local"},
		{"dev", ".env.local"},
		{"production", ".env.prod"},
		{"staging", ".env.staging"},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, getEnvFile(tt.env))
		})
	}
}
