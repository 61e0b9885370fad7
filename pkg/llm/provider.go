package llm

import (
	"context"
	"errors"
	"fmt"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Apply folds opts over defaults.
func Apply(defaults Options, opts ...Option) Options {
	for _, opt := range opts {
		opt(&defaults)
	}
	return defaults
}

var (
	ErrEmptyResponse = errors.New("empty response from model")
	ErrUnauthorized  = errors.New("model provider rejected credentials")
	ErrRateLimited   = errors.New("model provider rate limit")
	// ErrTruncated means the model stopped at its token limit; the tail of the output is missing.
	ErrTruncated = errors.New("model output truncated")
)

// StatusError classifies a non-2xx provider response.
func StatusError(provider string, status int, body string) error {
	var kind error
	switch {
	case status == 401 || status == 403:
		kind = ErrUnauthorized
	case status == 429:
		kind = ErrRateLimited
	}
	if kind != nil {
		return fmt.Errorf("%s: %w (status %d): %s", provider, kind, status, body)
	}
	return fmt.Errorf("%s error: status %d, body: %s", provider, status, body)
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
