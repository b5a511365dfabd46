package llm

import "fmt"

const defaultGroqBaseURL = "https://api.groq.com/openai/v1"

// groqModels maps friendly names to Groq model IDs.
var groqModels = map[string]string{
	"llama-fast":  "llama-3.1-8b-instant",
	"llama-large": "llama-3.3-70b-versatile",
}

// NewGroqProvider creates a provider targeting Groq's OpenAI-compatible
// API. Groq's strict json_schema support varies by model, so structured
// requests use JSON mode with the schema in the prompt and are validated
// locally.
func NewGroqProvider(cfg GroqConfig, model string) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("groq API key is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGroqBaseURL
	}
	return newOpenAICompatible("groq", cfg.APIKey, baseURL, resolveModel(model, groqModels), true), nil
}
