package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docs-assistant-be/pkg/llm"
)

func TestBuild(t *testing.T) {
	t.Run("minimal prompt has preamble and question", func(t *testing.T) {
		out := NewBuilder("What does the core do?").Build()

		assert.True(t, strings.HasPrefix(out, DefaultPreamble))
		assert.Contains(t, out, "## Current Question\nWhat does the core do?")
		assert.NotContains(t, out, "## Relevant Documentation")
		assert.NotContains(t, out, "## Conversation History")
	})

	t.Run("sections appear in order", func(t *testing.T) {
		out := NewBuilder("q").
			WithGraphSummary("Project: demo").
			WithContext("## Component: core\nbody").
			WithHistory([]llm.Message{{Role: "user", Content: "earlier"}}).
			Build()

		overview := strings.Index(out, "## Architecture Overview")
		docs := strings.Index(out, "## Relevant Documentation")
		history := strings.Index(out, "## Conversation History")
		question := strings.Index(out, "## Current Question")

		assert.True(t, overview < docs && docs < history && history < question,
			"sections out of order: %d %d %d %d", overview, docs, history, question)
	})

	t.Run("history roles are labelled", func(t *testing.T) {
		out := NewBuilder("q").
			WithHistory([]llm.Message{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "hello"},
				{Role: "model", Content: "old style role"},
			}).
			Build()

		assert.Contains(t, out, "User: hi")
		assert.Contains(t, out, "Assistant: hello")
		assert.Contains(t, out, "Assistant: old style role")
	})

	t.Run("custom preamble replaces default", func(t *testing.T) {
		out := NewBuilder("q").WithPreamble("Be terse.").Build()
		assert.True(t, strings.HasPrefix(out, "Be terse."))
		assert.NotContains(t, out, DefaultPreamble)
	})
}
