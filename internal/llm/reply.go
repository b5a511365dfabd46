package llm

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// completion is a vendor reply reduced to what every provider reports.
type completion struct {
	text      string
	truncated bool
	usage     Usage
	model     string
}

// response turns c into a Response for req. Structured replies that hit the
// token limit fail with ErrMaxTokensExceeded; complete ones are de-fenced
// and validated against the schema.
func (c completion) response(req Request) (*Response, error) {
	resp := &Response{
		Content:    json.RawMessage(c.text),
		Usage:      c.usage,
		Model:      c.model,
		StopReason: StopEnd,
	}
	if c.truncated {
		resp.StopReason = StopMaxTokens
	}
	if req.Schema == nil {
		return resp, nil
	}
	if c.truncated {
		return nil, &ErrMaxTokensExceeded{Content: resp.Content}
	}

	content, err := structuredContent(req.Schema, c.text)
	if err != nil {
		return nil, err
	}
	resp.Content = content
	return resp, nil
}

func usageOf(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// classifyStatus maps a vendor HTTP status to the gateway's error types.
// Any status other than 429 is treated as the provider being unavailable.
func classifyStatus(status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		rl := &ErrRateLimit{Err: err}
		if header != nil {
			rl.RetryAfter = parseRetryAfter(header.Get("Retry-After"))
		}
		return rl
	}
	return &ErrProviderUnavailable{Err: err}
}

// parseRetryAfter reads a Retry-After header value in seconds.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are passed through so full model IDs work too.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
