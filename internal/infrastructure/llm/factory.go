package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
)

// New builds the configured Client. A nil Client with nil error means analysis
// is disabled and callers report it as unconfigured.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "none":
		return nil, nil
	case "openai":
		// A keyless hosted endpoint cannot work; a custom base URL may be a local server
		if cfg.OpenAIKey == "" && (cfg.OpenAIBaseURL == "" || cfg.OpenAIBaseURL == DefaultOpenAIURL) {
			return nil, nil
		}
		return NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.Timeout), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, nil
		}
		client, err := NewGeminiClient(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
}
