package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderGroq      = "groq"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "groq", "openai", "anthropic", "gemini", "mock"
	Provider string

	Groq      GroqConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig
	Retry     RetryConfig
	Cache     CacheConfig

	// Timeout bounds a single gateway call, retries included.
	Timeout time.Duration
}

// GroqConfig holds Groq-specific configuration.
type GroqConfig struct {
	APIKey     string
	Model      string // fast tier. Default: "llama-fast"
	LargeModel string // large tier. Default: "llama-large"
	BaseURL    string // Default: "https://api.groq.com/openai/v1"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey     string
	Model      string // Default: "gpt-4o-mini"
	LargeModel string // Default: "gpt-4o"
	BaseURL    string // Optional override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey     string
	Model      string // Default: "claude-haiku"
	LargeModel string // Default: "claude-large"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey     string
	Model      string // Default: "gemini-flash"
	LargeModel string // Default: "gemini-pro"
}

// RetryConfig configures retries of rate-limited requests.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseWait is multiplied by the retry number: 1x, 2x, ...
	BaseWait time.Duration

	// MaxWait caps any single wait, including provider hints.
	MaxWait time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGroq,
		Groq: GroqConfig{
			Model:      "llama-fast",
			LargeModel: "llama-large",
		},
		OpenAI: OpenAIConfig{
			Model:      "gpt-4o-mini",
			LargeModel: "gpt-4o",
		},
		Anthropic: AnthropicConfig{
			Model:      "claude-haiku",
			LargeModel: "claude-large",
		},
		Gemini: GeminiConfig{
			Model:      "gemini-flash",
			LargeModel: "gemini-pro",
		},
		Retry: RetryConfig{
			MaxRetries: 2,
			BaseWait:   1 * time.Second,
			MaxWait:    10 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 100,
			TTL:      5 * time.Minute,
		},
		Timeout: 60 * time.Second,
	}
}

// providerKeys lists providers in discovery priority with the env var
// each one reads its key from.
var providerKeys = []struct{ provider, env string }{
	{ProviderGroq, "GROQ_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderGemini, "GEMINI_API_KEY"},
}

// KeyEnv returns the standard env var holding provider's API key.
func KeyEnv(provider string) string {
	for _, pk := range providerKeys {
		if pk.provider == provider {
			return pk.env
		}
	}
	return ""
}

func (c *Config) apiKey(provider string) *string {
	switch provider {
	case ProviderGroq:
		return &c.Groq.APIKey
	case ProviderOpenAI:
		return &c.OpenAI.APIKey
	case ProviderAnthropic:
		return &c.Anthropic.APIKey
	case ProviderGemini:
		return &c.Gemini.APIKey
	}
	return nil
}

// KeyFromEnv fills the selected provider's key from its standard env var
// when it is not already set.
func (c *Config) KeyFromEnv() {
	key := c.apiKey(c.Provider)
	if key == nil || *key != "" {
		return
	}
	if env := KeyEnv(c.Provider); env != "" {
		*key = os.Getenv(env)
	}
}

// DiscoverConfig picks a provider when none was chosen. Keys already in
// cfg win over env vars; within each source the order is Groq, OpenAI,
// Anthropic, Gemini. Returns false if no key is found.
func DiscoverConfig(cfg Config) (Config, bool) {
	for _, pk := range providerKeys {
		if *cfg.apiKey(pk.provider) != "" {
			cfg.Provider = pk.provider
			return cfg, true
		}
	}
	for _, pk := range providerKeys {
		if k := os.Getenv(pk.env); k != "" {
			cfg.Provider = pk.provider
			*cfg.apiKey(pk.provider) = k
			return cfg, true
		}
	}
	return cfg, false
}

// HasKey reports whether the selected provider has credentials.
func (c Config) HasKey() bool {
	switch c.Provider {
	case ProviderGroq:
		return c.Groq.APIKey != ""
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	case ProviderAnthropic:
		return c.Anthropic.APIKey != ""
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderMock:
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderMock:
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if !c.HasKey() {
		return fmt.Errorf("an API key is required for the %s provider (set llm.%s.api_key or the provider's standard env var)",
			c.Provider, c.Provider)
	}
	return nil
}
