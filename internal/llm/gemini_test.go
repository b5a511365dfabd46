package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-2.0-flash", geminiModels))
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string", "description": "phase title"},
			"level":    map[string]any{"type": "integer", "minimum": 0, "maximum": 5},
			"priority": map[string]any{"type": "string", "enum": []any{"critical", "high", "medium"}},
			"weeks": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "integer"},
				"minItems": 1,
			},
		},
		"required": []string{"title", "level"},
	}

	s := buildGeminiSchema(def)

	assert.Equal(t, genai.TypeObject, s.Type)
	require.Len(t, s.Properties, 4)
	assert.Equal(t, genai.TypeString, s.Properties["title"].Type)
	assert.Equal(t, "phase title", s.Properties["title"].Description)

	level := s.Properties["level"]
	assert.Equal(t, genai.TypeInteger, level.Type)
	require.NotNil(t, level.Minimum)
	require.NotNil(t, level.Maximum)
	assert.Equal(t, 5.0, *level.Maximum)

	assert.Equal(t, []string{"critical", "high", "medium"}, s.Properties["priority"].Enum)

	weeks := s.Properties["weeks"]
	assert.Equal(t, genai.TypeArray, weeks.Type)
	assert.Equal(t, genai.TypeInteger, weeks.Items.Type)
	require.NotNil(t, weeks.MinItems)
	assert.Equal(t, int64(1), *weeks.MinItems)

	assert.ElementsMatch(t, []string{"title", "level"}, s.Required)
}

func TestBuildGeminiSchema_UnknownTypeFallsBackToString(t *testing.T) {
	assert.Equal(t, genai.TypeString, buildGeminiSchema(map[string]any{"type": "null"}).Type)
}

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Request{System: "be brief", Schema: scoreSchema(), MaxTokens: 64, Temperature: 0.3})

	assert.Equal(t, int32(64), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.3, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.Equal(t, genai.TypeObject, cfg.ResponseSchema.Type)

	plain := geminiConfig(Request{MaxTokens: 10})
	assert.Nil(t, plain.Temperature)
	assert.Nil(t, plain.ResponseSchema)
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}
