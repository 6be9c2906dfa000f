package echo

import (
	"context"
	"strings"

	"docs-assistant-be/pkg/llm"
)

// DefaultAnswer is returned when no canned answer is configured.
const DefaultAnswer = "This is a locally generated answer based on the retrieved documentation."

// Provider is a deterministic offline backend for local development and
// tests: it streams its answer word by word and needs no model server.
type Provider struct {
	Answer string
}

var _ llm.Provider = &Provider{}

func NewProvider() *Provider {
	return &Provider{}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	options := llm.ApplyOptions(opts)

	answer := p.Answer
	if answer == "" {
		answer = DefaultAnswer
	}

	if options.StreamHandler != nil {
		words := strings.Fields(answer)
		for i, word := range words {
			if i < len(words)-1 {
				word += " "
			}
			options.StreamHandler(word)
		}
	}
	return answer, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
