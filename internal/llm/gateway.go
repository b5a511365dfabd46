package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/skillsense/internal/store"
)

// Tier selects a model class. Quick structured tasks use the fast tier;
// long-form critique and planning use the large tier.
type Tier int

const (
	TierFast Tier = iota
	TierLarge
)

func (t Tier) String() string {
	if t == TierLarge {
		return "large"
	}
	return "fast"
}

// Gateway exposes one decorated Provider per tier.
type Gateway struct {
	Fast  Provider
	Large Provider
}

// For returns the provider for tier.
func (g *Gateway) For(t Tier) Provider {
	if t == TierLarge && g.Large != nil {
		return g.Large
	}
	return g.Fast
}

// NewGatewayFromProviders builds a Gateway from already-constructed
// providers, applying the same decorators as NewGateway.
func NewGatewayFromProviders(fast, large Provider, cfg Config, eventRepo store.EventRepo) *Gateway {
	return &Gateway{
		Fast:  decorate(fast, cfg, eventRepo),
		Large: decorate(large, cfg, eventRepo),
	}
}

// NewGateway creates the fast and large tier providers from configuration.
func NewGateway(ctx context.Context, cfg Config, eventRepo store.EventRepo) (*Gateway, error) {
	fast, err := newBaseProvider(ctx, cfg, TierFast)
	if err != nil {
		return nil, err
	}
	large, err := newBaseProvider(ctx, cfg, TierLarge)
	if err != nil {
		return nil, err
	}
	return NewGatewayFromProviders(fast, large, cfg, eventRepo), nil
}

func newBaseProvider(ctx context.Context, cfg Config, tier Tier) (Provider, error) {
	pick := func(fast, large string) string {
		if tier == TierLarge && large != "" {
			return large
		}
		return fast
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGroq:
		base, err = NewGroqProvider(cfg.Groq, pick(cfg.Groq.Model, cfg.Groq.LargeModel))
	case ProviderOpenAI:
		c := cfg.OpenAI
		c.Model = pick(c.Model, c.LargeModel)
		base, err = NewOpenAIProvider(c)
	case ProviderAnthropic:
		c := cfg.Anthropic
		c.Model = pick(c.Model, c.LargeModel)
		base, err = NewAnthropicProvider(c)
	case ProviderGemini:
		c := cfg.Gemini
		c.Model = pick(c.Model, c.LargeModel)
		base, err = NewGeminiProvider(ctx, c)
	case ProviderMock:
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider (%s tier): %w", cfg.Provider, tier, err)
	}
	return base, nil
}

// decorate wraps base as caller → cache → retry → logging → base, so cache
// hits skip the network and every upstream attempt is logged.
func decorate(base Provider, cfg Config, eventRepo store.EventRepo) Provider {
	p := base
	if eventRepo != nil {
		p = WithLogging(p, eventRepo)
	}
	p = WithRetry(p, cfg.Retry)
	if cfg.Cache.Enabled {
		p = WithCache(p, cfg.Cache, eventRepo)
	}
	if cfg.Timeout > 0 {
		p = WithTimeout(p, cfg.Timeout)
	}
	return p
}

// TimeoutProvider bounds every Generate call with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so each call is cancelled after d.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}

func (t *TimeoutProvider) ProviderName() string {
	return providerName(t.inner)
}
