package llm

import (
	"context"
)

// Message is a chat turn in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option configures optional call parameters.
type Option func(*Options)

type Options struct {
	Temperature    float64
	MaxTokens      int
	Model          string // Override default model
	ConversationId string // Server-side continuity key, if the provider supports it
	StreamHandler  func(chunk string)
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

// WithConversation asks the provider to keep its own continuity for the given
// id, so multi-turn callers do not have to re-send prior turns.
func WithConversation(id string) Option {
	return func(o *Options) {
		o.ConversationId = id
	}
}

// WithStreamHandler delivers partial output as it is produced. The handler is
// invoked zero or more times before the call returns the full response.
func WithStreamHandler(fn func(chunk string)) Option {
	return func(o *Options) {
		o.StreamHandler = fn
	}
}

// ApplyOptions folds the given options over provider defaults.
func ApplyOptions(opts []Option) *Options {
	options := &Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Provider defines the contract for any LLM backend.
type Provider interface {
	// Chat sends a chat history to the model and returns the full response.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method).
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
