package llm

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/skillsense/internal/store"
)

func TestTier_String(t *testing.T) {
	assert.Equal(t, "fast", TierFast.String())
	assert.Equal(t, "large", TierLarge.String())
}

func TestGateway_For(t *testing.T) {
	fast := NewMockProvider(MockResponse{Content: json.RawMessage(`"fast"`)})
	large := NewMockProvider(MockResponse{Content: json.RawMessage(`"large"`)})
	gw := NewGatewayFromProviders(fast, large, DefaultConfig(), nil)

	resp, err := gw.For(TierLarge).Generate(context.Background(), chatRequest("plan"))
	require.NoError(t, err)
	assert.Equal(t, `"large"`, resp.Text())

	resp, err = gw.For(TierFast).Generate(context.Background(), chatRequest("quiz"))
	require.NoError(t, err)
	assert.Equal(t, `"fast"`, resp.Text())
}

func TestGateway_LargeFallsBackToFast(t *testing.T) {
	gw := &Gateway{Fast: NewMockProvider()}
	assert.Same(t, gw.Fast, gw.For(TierLarge))
}

func TestGateway_DecoratorsLogEveryAttempt(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "gw.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{}},
		MockResponse{Content: json.RawMessage(`"ok"`), Usage: Usage{InputTokens: 12, OutputTokens: 3}},
	)
	cfg := DefaultConfig()
	cfg.Retry = RetryConfig{MaxRetries: 2, BaseWait: time.Millisecond, MaxWait: time.Millisecond}
	gw := NewGatewayFromProviders(mock, mock, cfg, s.EventRepo())

	ctx := WithPurpose(context.Background(), PurposeResumeCritique)
	resp, err := gw.For(TierFast).Generate(ctx, chatRequest("critique"))
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, resp.Text())

	// The second identical call is a cache hit.
	_, err = gw.For(TierFast).Generate(ctx, chatRequest("critique"))
	require.NoError(t, err)
	assert.Equal(t, 2, mock.CallCount())

	events, err := s.EventRepo().QueryLLMEvents(context.Background(), store.QueryOpts{Limit: 10})
	require.NoError(t, err)
	require.Len(t, events, 3)

	var failed, ok, hits int
	for _, e := range events {
		switch {
		case e.CacheHit:
			hits++
		case e.Success:
			ok++
			assert.Equal(t, 12, e.InputTokens)
		default:
			failed++
		}
		assert.Equal(t, string(PurposeResumeCritique), e.Purpose)
		assert.Equal(t, ProviderMock, e.Provider)
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, hits)
}

type slowProvider struct{}

func (slowProvider) Generate(ctx context.Context, _ Request) (*Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (slowProvider) ModelID() string { return "slow" }

func TestWithTimeout(t *testing.T) {
	p := WithTimeout(slowProvider{}, 5*time.Millisecond)
	_, err := p.Generate(context.Background(), Request{})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, "slow", p.ModelID())
	assert.Equal(t, "unknown", providerName(p))
}

func TestNewGateway_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = ProviderMock
	gw, err := NewGateway(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", gw.For(TierFast).ModelID())
	assert.Equal(t, ProviderMock, providerName(gw.For(TierLarge)))
}

func TestNewGateway_GroqTiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Groq.APIKey = "gsk-test"
	gw, err := NewGateway(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "llama-3.1-8b-instant", gw.For(TierFast).ModelID())
	assert.Equal(t, "llama-3.3-70b-versatile", gw.For(TierLarge).ModelID())
	assert.Equal(t, ProviderGroq, providerName(gw.For(TierFast)))
}

func TestNewGateway_MissingKey(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewGateway(context.Background(), cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "groq")
}
