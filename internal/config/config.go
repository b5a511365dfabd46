// Package config loads SkillSense settings from a YAML file, a .env file
// and SKILLSENSE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. SKILLSENSE_SERVER_ADDR.
const EnvPrefix = "SKILLSENSE"

// MinJWTSecretLen is the shortest accepted signing secret.
const MinJWTSecretLen = 16

// ErrNoJWTSecret is returned when a command needs to sign or verify tokens
// but no secret is configured.
var ErrNoJWTSecret = errors.New("auth.jwt_secret is not set (or SKILLSENSE_AUTH_JWT_SECRET)")

// Config is the application configuration.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Scorer  ScorerConfig  `mapstructure:"scorer"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Resume  ResumeConfig  `mapstructure:"resume"`
}

type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type StorageConfig struct {
	// DBPath is empty to use the XDG default location.
	DBPath string `mapstructure:"db_path"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// ScorerConfig selects and tunes the gap scorer. An empty RemoteURL keeps
// scoring local.
type ScorerConfig struct {
	RemoteURL     string        `mapstructure:"remote_url"`
	RemoteTimeout time.Duration `mapstructure:"remote_timeout"`
	PerLevelHours float64       `mapstructure:"per_level_hours"`
}

type LLMConfig struct {
	// Provider is empty to pick the first provider with a key, in this
	// file or in the environment.
	Provider  string            `mapstructure:"provider"`
	Groq      LLMProviderConfig `mapstructure:"groq"`
	OpenAI    LLMProviderConfig `mapstructure:"openai"`
	Anthropic LLMProviderConfig `mapstructure:"anthropic"`
	Gemini    LLMProviderConfig `mapstructure:"gemini"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	Cache     LLMCacheConfig    `mapstructure:"cache"`
	Retry     LLMRetryConfig    `mapstructure:"retry"`
}

type LLMProviderConfig struct {
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	LargeModel string `mapstructure:"large_model"`
	BaseURL    string `mapstructure:"base_url"`
}

type LLMCacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Capacity int           `mapstructure:"capacity"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type LLMRetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	BaseWait   time.Duration `mapstructure:"base_wait"`
	MaxWait    time.Duration `mapstructure:"max_wait"`
}

type ResumeConfig struct {
	MaxRunes int `mapstructure:"max_runes"`
}

// Load reads configuration. A .env file in the working directory is loaded
// into the environment first; variables already set win. With an empty
// configPath, config.yaml is looked up in ./config and the working directory.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("no config file found, using defaults")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Auth.JWTSecret = expandEnv(cfg.Auth.JWTSecret)
	for _, p := range []*LLMProviderConfig{&cfg.LLM.Groq, &cfg.LLM.OpenAI, &cfg.LLM.Anthropic, &cfg.LLM.Gemini} {
		p.APIKey = expandEnv(p.APIKey)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("storage.db_path", "")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("scorer.remote_url", "")
	v.SetDefault("scorer.remote_timeout", 5*time.Second)
	v.SetDefault("scorer.per_level_hours", gap.PerLevelBaseHours)

	d := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	for name, p := range map[string]llm.OpenAIConfig{
		"groq":      {Model: d.Groq.Model, LargeModel: d.Groq.LargeModel},
		"openai":    d.OpenAI,
		"anthropic": {Model: d.Anthropic.Model, LargeModel: d.Anthropic.LargeModel},
		"gemini":    {Model: d.Gemini.Model, LargeModel: d.Gemini.LargeModel},
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", p.Model)
		v.SetDefault("llm."+name+".large_model", p.LargeModel)
		v.SetDefault("llm."+name+".base_url", "")
	}
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.cache.enabled", d.Cache.Enabled)
	v.SetDefault("llm.cache.capacity", d.Cache.Capacity)
	v.SetDefault("llm.cache.ttl", d.Cache.TTL)
	v.SetDefault("llm.retry.max_retries", d.Retry.MaxRetries)
	v.SetDefault("llm.retry.base_wait", d.Retry.BaseWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)

	v.SetDefault("resume.max_runes", 12000)
}

// expandEnv resolves a ${VAR} placeholder.
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}

// GapConfig returns the scoring constants.
func (c *Config) GapConfig() gap.Config {
	gc := gap.DefaultConfig()
	if c.Scorer.PerLevelHours > 0 {
		gc.PerLevelHours = c.Scorer.PerLevelHours
	}
	return gc
}

// RemoteScorer returns the remote scorer settings and whether one is
// configured.
func (c *Config) RemoteScorer() (gap.RemoteConfig, bool) {
	if c.Scorer.RemoteURL == "" {
		return gap.RemoteConfig{}, false
	}
	return gap.RemoteConfig{URL: c.Scorer.RemoteURL, Timeout: c.Scorer.RemoteTimeout}, true
}

// LLMConfig converts the llm section into gateway configuration. Without
// llm.provider, the first provider with a key in the file is used, then
// the first with a standard env var (GROQ_API_KEY, OPENAI_API_KEY,
// ANTHROPIC_API_KEY, GEMINI_API_KEY). With llm.provider set, a key missing
// from the file is read from that provider's env var.
func (c *Config) LLMConfig() llm.Config {
	out := llm.DefaultConfig()
	l := c.LLM

	out.Groq = llm.GroqConfig{APIKey: l.Groq.APIKey, Model: l.Groq.Model, LargeModel: l.Groq.LargeModel, BaseURL: l.Groq.BaseURL}
	out.OpenAI = llm.OpenAIConfig{APIKey: l.OpenAI.APIKey, Model: l.OpenAI.Model, LargeModel: l.OpenAI.LargeModel, BaseURL: l.OpenAI.BaseURL}
	out.Anthropic = llm.AnthropicConfig{APIKey: l.Anthropic.APIKey, Model: l.Anthropic.Model, LargeModel: l.Anthropic.LargeModel}
	out.Gemini = llm.GeminiConfig{APIKey: l.Gemini.APIKey, Model: l.Gemini.Model, LargeModel: l.Gemini.LargeModel}

	if l.Timeout > 0 {
		out.Timeout = l.Timeout
	}
	out.Cache = llm.CacheConfig{Enabled: l.Cache.Enabled, Capacity: l.Cache.Capacity, TTL: l.Cache.TTL}
	out.Retry = llm.RetryConfig{MaxRetries: l.Retry.MaxRetries, BaseWait: l.Retry.BaseWait, MaxWait: l.Retry.MaxWait}

	if l.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(out); ok {
			return discovered
		}
		return out
	}

	out.Provider = l.Provider
	out.KeyFromEnv()
	return out
}

// RequireJWTSecret returns the signing secret or an error when it is
// missing or too short.
func (c *Config) RequireJWTSecret() ([]byte, error) {
	s := c.Auth.JWTSecret
	if s == "" {
		return nil, ErrNoJWTSecret
	}
	if len(s) < MinJWTSecretLen {
		return nil, fmt.Errorf("auth.jwt_secret must be at least %d characters", MinJWTSecretLen)
	}
	return []byte(s), nil
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogger installs a text handler writing to w as the default logger.
func SetupLogger(level string, w io.Writer) {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	slog.SetDefault(slog.New(handler))
}
