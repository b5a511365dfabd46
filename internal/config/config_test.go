package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillsense/internal/llm"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"GROQ_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GEMINI_API_KEY"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "app:\n  log_level: info\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 12000, cfg.Resume.MaxRunes)
	assert.True(t, cfg.LLM.Cache.Enabled)
	assert.Equal(t, 100, cfg.LLM.Cache.Capacity)
	assert.Equal(t, 5*time.Minute, cfg.LLM.Cache.TTL)
	assert.Equal(t, 2, cfg.LLM.Retry.MaxRetries)

	_, remote := cfg.RemoteScorer()
	assert.False(t, remote)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
scorer:
  remote_url: http://ml:8000/predict
  remote_timeout: 2s
llm:
  provider: openai
  openai:
    api_key: ${TEST_OPENAI_KEY}
    model: gpt-4.1-mini
`)
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	t.Setenv("SKILLSENSE_AUTH_JWT_SECRET", "0123456789abcdef")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "sk-test", cfg.LLM.OpenAI.APIKey)

	rc, ok := cfg.RemoteScorer()
	require.True(t, ok)
	assert.Equal(t, "http://ml:8000/predict", rc.URL)
	assert.Equal(t, 2*time.Second, rc.Timeout)

	secret, err := cfg.RequireJWTSecret()
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef", string(secret))

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, lc.Provider)
	assert.Equal(t, "gpt-4.1-mini", lc.OpenAI.Model)
	assert.Equal(t, "gpt-4o", lc.OpenAI.LargeModel)
	require.NoError(t, lc.Validate())
}

func TestLoad_BadFile(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestLLMConfig_Discovery(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "ak-test")

	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderAnthropic, lc.Provider)
	assert.Equal(t, "ak-test", lc.Anthropic.APIKey)
}

func TestLLMConfig_DiscoversKeyFromFile(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GEMINI_API_KEY", "env-gemini")

	cfg, err := Load(writeConfig(t, "llm:\n  openai:\n    api_key: sk-file\n"))
	require.NoError(t, err)

	lc := cfg.LLMConfig()
	assert.Equal(t, llm.ProviderOpenAI, lc.Provider)
	assert.Equal(t, "sk-file", lc.OpenAI.APIKey)
	assert.True(t, lc.HasKey())
}

func TestLLMConfig_ProviderKeyFromStandardEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk-test")

	cfg, err := Load(writeConfig(t, "llm:\n  provider: groq\n  cache:\n    enabled: false\n"))
	require.NoError(t, err)

	lc := cfg.LLMConfig()
	assert.Equal(t, "gsk-test", lc.Groq.APIKey)
	assert.False(t, lc.Cache.Enabled)
	assert.True(t, lc.HasKey())
}

func TestLLMConfig_NoKey(t *testing.T) {
	clearLLMEnv(t)
	cfg, err := Load(writeConfig(t, "{}"))
	require.NoError(t, err)
	assert.False(t, cfg.LLMConfig().HasKey())
}

func TestRequireJWTSecret(t *testing.T) {
	cfg := &Config{}
	_, err := cfg.RequireJWTSecret()
	assert.ErrorIs(t, err, ErrNoJWTSecret)

	cfg.Auth.JWTSecret = "short"
	_, err = cfg.RequireJWTSecret()
	assert.ErrorContains(t, err, "at least 16")
}

func TestGapConfig(t *testing.T) {
	cfg := &Config{Scorer: ScorerConfig{PerLevelHours: 12}}
	assert.Equal(t, 12.0, cfg.GapConfig().PerLevelHours)

	cfg.Scorer.PerLevelHours = 0
	assert.Greater(t, cfg.GapConfig().PerLevelHours, 0.0)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLogger("warn", &buf)
	slog.Info("hidden")
	slog.Warn("shown", "k", "v")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown k=v")
}
