package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/abhisek/skillsense/internal/cache"
	"github.com/abhisek/skillsense/internal/store"
)

// CacheProvider is a decorator that answers repeated identical requests
// from a bounded in-memory cache. Failed requests are never cached.
type CacheProvider struct {
	inner     Provider
	entries   *cache.TTL[string, *Response]
	eventRepo store.EventRepo
}

// WithCache wraps p with a response cache. When repo is non-nil, every hit
// is recorded as a zero-token LLM request event.
func WithCache(p Provider, cfg CacheConfig, repo store.EventRepo) *CacheProvider {
	return &CacheProvider{
		inner:     p,
		entries:   cache.New[string, *Response](cfg.Capacity, cfg.TTL),
		eventRepo: repo,
	}
}

func (c *CacheProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	key := c.key(req)
	if resp, ok := c.entries.Get(key); ok {
		c.recordHit(ctx, resp)
		out := *resp
		return &out, nil
	}

	resp, err := c.inner.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	stored := *resp
	c.entries.Set(key, &stored)
	return resp, nil
}

func (c *CacheProvider) ModelID() string {
	return c.inner.ModelID()
}

func (c *CacheProvider) ProviderName() string {
	return providerName(c.inner)
}

// Len returns the number of cached responses.
func (c *CacheProvider) Len() int {
	return c.entries.Len()
}

// key hashes everything that influences the reply.
func (c *CacheProvider) key(req Request) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	schemaName := ""
	if req.Schema != nil {
		schemaName = req.Schema.Name
	}
	_ = enc.Encode([]any{
		c.inner.ModelID(),
		req.System,
		req.Messages,
		schemaName,
		req.MaxTokens,
		req.Temperature,
	})
	return hex.EncodeToString(h.Sum(nil))
}

func (c *CacheProvider) recordHit(ctx context.Context, resp *Response) {
	if c.eventRepo == nil {
		return
	}
	data := store.LLMRequestEventData{
		Provider:     providerName(c.inner),
		Model:        resp.Model,
		Purpose:      string(PurposeFrom(ctx)),
		Success:      true,
		CacheHit:     true,
		ResponseBody: string(resp.Content),
	}
	if err := c.eventRepo.AppendLLMRequest(ctx, data); err != nil {
		slog.Warn("failed to log LLM cache hit", "error", err)
	}
}

// CacheConfig bounds the response cache.
type CacheConfig struct {
	Enabled  bool
	Capacity int
	TTL      time.Duration
}
