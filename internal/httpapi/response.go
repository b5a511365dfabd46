package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillsense/internal/analysis"
	"github.com/abhisek/skillsense/internal/assessment"
	"github.com/abhisek/skillsense/internal/coach"
	"github.com/abhisek/skillsense/internal/gap"
	"github.com/abhisek/skillsense/internal/llm"
	"github.com/abhisek/skillsense/internal/resume"
	"github.com/abhisek/skillsense/internal/store"
)

// MsgAIBusy is shown when the LLM provider keeps rate limiting us.
const MsgAIBusy = "the AI service is busy, try again shortly"

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

func created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Message: message, Data: data})
}

func failure(c *gin.Context, status int, message string, err error) {
	resp := APIResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

func badRequest(c *gin.Context, message string, err error) {
	failure(c, http.StatusBadRequest, message, err)
}

func unauthorized(c *gin.Context, message string) {
	failure(c, http.StatusUnauthorized, message, nil)
}

// respondError maps a service error to a status code and message. Internal
// errors are logged and hidden from the caller.
func respondError(c *gin.Context, err error) {
	var val *assessment.ValidationError
	switch {
	case errors.Is(err, analysis.ErrInsufficientData):
		failure(c, http.StatusUnprocessableEntity, analysis.ErrInsufficientData.Error(), nil)
	case errors.Is(err, analysis.ErrUnknownRole):
		failure(c, http.StatusNotFound, "role not found", nil)
	case errors.Is(err, store.ErrNotFound):
		failure(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, gap.ErrInvalidInput),
		errors.Is(err, resume.ErrUnsupportedType),
		errors.Is(err, resume.ErrEmpty),
		errors.Is(err, coach.ErrEmptyInput),
		errors.Is(err, assessment.ErrAnswerCount):
		badRequest(c, "invalid request", err)
	case errors.Is(err, assessment.ErrNotOwner):
		failure(c, http.StatusForbidden, "assessment belongs to another user", nil)
	case errors.Is(err, store.ErrAlreadyCompleted):
		failure(c, http.StatusConflict, "assessment already completed", nil)
	case errors.As(err, &val):
		slog.Warn("unusable LLM reply", "path", c.FullPath(), "err", err)
		failure(c, http.StatusBadGateway, msgAIUnusable, nil)
	default:
		respondLLMError(c, err)
	}
}

func respondLLMError(c *gin.Context, err error) {
	switch llm.Classify(err) {
	case llm.FailureRateLimited:
		if wait := llm.RetryAfter(err); wait > 0 {
			c.Header("Retry-After", retryAfterSeconds(wait))
		}
		failure(c, http.StatusTooManyRequests, MsgAIBusy, nil)
	case llm.FailureUnusable:
		slog.Warn("unusable LLM reply", "path", c.FullPath(), "err", err)
		failure(c, http.StatusBadGateway, msgAIUnusable, nil)
	case llm.FailureUnavailable:
		slog.Warn("LLM provider unavailable", "path", c.FullPath(), "err", err)
		failure(c, http.StatusServiceUnavailable, "the AI service is unavailable", nil)
	default:
		slog.Error("request failed", "path", c.FullPath(), "err", err)
		failure(c, http.StatusInternalServerError, "internal error", nil)
	}
}

const msgAIUnusable = "the AI service returned an unusable answer, try again"

func retryAfterSeconds(wait time.Duration) string {
	secs := int(wait.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
