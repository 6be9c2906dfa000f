package prompt

import (
	"strings"

	"docs-assistant-be/pkg/llm"
)

// DefaultPreamble frames the assistant's role and answer format.
const DefaultPreamble = "You are a documentation assistant for this codebase. " +
	"Answer questions using the architecture overview and documentation excerpts below. " +
	"Reply in markdown, reference components by their ids, and say plainly when the " +
	"documentation does not cover what was asked."

// Builder assembles the model prompt from retrieval output, optional prior
// turns and the current question. Build is pure: it only reads its inputs.
type Builder struct {
	preamble     string
	graphSummary string
	contextText  string
	history      []llm.Message
	question     string
}

func NewBuilder(question string) *Builder {
	return &Builder{question: question}
}

// WithPreamble overrides the default system preamble.
func (b *Builder) WithPreamble(preamble string) *Builder {
	b.preamble = preamble
	return b
}

func (b *Builder) WithGraphSummary(summary string) *Builder {
	b.graphSummary = summary
	return b
}

func (b *Builder) WithContext(contextText string) *Builder {
	b.contextText = contextText
	return b
}

// WithHistory embeds prior turns into the prompt. Used only in stateless
// mode; session mode relies on the provider's own continuity.
func (b *Builder) WithHistory(history []llm.Message) *Builder {
	b.history = history
	return b
}

func (b *Builder) Build() string {
	var sb strings.Builder

	preamble := b.preamble
	if preamble == "" {
		preamble = DefaultPreamble
	}
	sb.WriteString(preamble)
	sb.WriteString("\n\n")

	if b.graphSummary != "" {
		sb.WriteString("## Architecture Overview\n")
		sb.WriteString(b.graphSummary)
		sb.WriteString("\n\n")
	}

	if b.contextText != "" {
		sb.WriteString("## Relevant Documentation\n")
		sb.WriteString(b.contextText)
		sb.WriteString("\n\n")
	}

	if len(b.history) > 0 {
		sb.WriteString("## Conversation History\n")
		for _, turn := range b.history {
			sb.WriteString(roleLabel(turn.Role))
			sb.WriteString(": ")
			sb.WriteString(turn.Content)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Current Question\n")
	sb.WriteString(b.question)
	return sb.String()
}

func roleLabel(role string) string {
	switch role {
	case "assistant", "model":
		return "Assistant"
	default:
		return "User"
	}
}
