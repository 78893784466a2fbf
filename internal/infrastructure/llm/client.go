// Package llm wraps the chat-completion providers used for transcript analysis.
package llm

import (
	"context"
)

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	System      string
	Prompt      string
	JSON        bool // ask the provider for a JSON object response
	Temperature float64
	MaxTokens   int
}

// Usage is token accounting reported by the provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the model's answer.
type Completion struct {
	Text  string
	Model string
	Usage Usage
}

// Client interface
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
	Provider() string
}
