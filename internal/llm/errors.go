package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Gateway calls fail with one of four typed errors. Callers that only need
// the broad category use Classify.

// ErrRateLimit is a 429 from the provider. RetryAfter carries the
// provider's hint when it sent one.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	msg := "llm rate limited"
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(", retry in %s", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the reply could not be used: empty, not JSON,
// or not matching the request schema. Content holds the raw reply.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("unusable llm reply: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means a structured reply was cut off at the token
// budget. Content holds the partial reply.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "llm reply truncated at the token limit"
}

// ErrProviderUnavailable covers transport failures and any non-429 error
// status.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "llm provider unavailable"
	}
	return fmt.Sprintf("llm provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// Failure is the broad category of a gateway error.
type Failure int

const (
	FailureNone Failure = iota
	FailureRateLimited
	FailureUnusable
	FailureUnavailable
	FailureOther
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "ok"
	case FailureRateLimited:
		return "rate_limited"
	case FailureUnusable:
		return "unusable"
	case FailureUnavailable:
		return "unavailable"
	}
	return "error"
}

// Classify maps err, or anything it wraps, to a Failure.
func Classify(err error) Failure {
	var (
		rl  *ErrRateLimit
		inv *ErrInvalidResponse
		trc *ErrMaxTokensExceeded
		unv *ErrProviderUnavailable
	)
	switch {
	case err == nil:
		return FailureNone
	case errors.As(err, &rl):
		return FailureRateLimited
	case errors.As(err, &inv), errors.As(err, &trc):
		return FailureUnusable
	case errors.As(err, &unv):
		return FailureUnavailable
	}
	return FailureOther
}

// IsRateLimit reports whether err is, or wraps, an *ErrRateLimit.
func IsRateLimit(err error) bool {
	return Classify(err) == FailureRateLimited
}

// RetryAfter returns the provider's wait hint carried by a rate-limit
// error, or zero.
func RetryAfter(err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return rl.RetryAfter
	}
	return 0
}
