package providers

import (
	"fmt"
	"strings"

	"github.com/readmegen/readmegen/providers/contracts"
	"github.com/readmegen/readmegen/providers/groq"
	contracts2 "github.com/readmegen/readmegen/token_management/contracts"
)

// AIProviderConfig holds the provider settings loaded from configuration.
type AIProviderConfig struct {
	Provider    string  `mapstructure:"provider"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	ApiKey      string  `mapstructure:"api_key"`
}

// NewCompletionProvider builds the completion provider for the configured
// backend. The API key must be non-empty; there is no ambient credential
// fallback here.
func NewCompletionProvider(config *AIProviderConfig, tokenManagement contracts2.ITokenManagement) (contracts.ICompletionProvider, error) {
	if config.ApiKey == "" {
		return nil, fmt.Errorf("api key is required (set GROQ_API_KEY or the api_key config value)")
	}

	switch strings.ToLower(config.Provider) {
	// Any OpenAI-compatible chat completions endpoint works through the
	// groq provider with a different base URL.
	case "groq", "openai", "":
		return groq.NewGroqCompletionProvider(&groq.GroqConfig{
			BaseURL:         config.BaseURL,
			ApiKey:          config.ApiKey,
			TokenManagement: tokenManagement,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
}
