package index

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docs-assistant-be/pkg/corpus"
)

func testSnapshot() *corpus.Snapshot {
	graph := &corpus.Graph{
		Project: corpus.Project{
			Name:        "payments",
			Description: "A payment processing service",
			Language:    "go",
		},
		Components: []corpus.Component{
			{
				Id:           "auth-service",
				Name:         "Auth Service",
				Purpose:      "Validates credentials and issues tokens",
				Category:     "service",
				Path:         "internal/auth",
				Dependencies: []string{"token-store"},
				Dependents:   []string{"api-gateway"},
			},
			{
				Id:         "token-store",
				Name:       "Token Store",
				Purpose:    "Persists issued tokens",
				Category:   "storage",
				Path:       "internal/tokenstore",
				Dependents: []string{"auth-service"},
			},
			{
				Id:           "api-gateway",
				Name:         "API Gateway",
				Purpose:      "Routes requests to services",
				Category:     "transport",
				Path:         "internal/gateway",
				Dependencies: []string{"auth-service"},
			},
			{
				Id:       "billing",
				Name:     "Billing",
				Purpose:  "Computes invoices",
				Category: "service",
				Path:     "internal/billing",
			},
		},
		Topics: []corpus.Topic{
			{
				Id:          "security",
				Title:       "Security",
				Description: "Authentication and authorization flows",
				Components:  []string{"auth-service", "token-store"},
				Articles: []corpus.Article{
					{Slug: "login-flow", Title: "The Login Flow"},
					{Slug: "missing-article", Title: "Not Written Yet"},
				},
			},
		},
	}

	return corpus.NewSnapshot(graph,
		map[string]string{
			"auth-service": "# Auth Service\nHandles login, token issuance and credential checks.",
			"token-store":  "# Token Store\nKeeps tokens in memory.",
			"api-gateway":  "# API Gateway\nFront door for all requests.",
			"billing":      "# Billing\nInvoices and ledgers.",
		},
		map[corpus.ArticleKey]string{
			{TopicId: "security", Slug: "login-flow"}: "Login starts at the gateway and ends with a token.",
		},
	)
}

func TestIndexBuild(t *testing.T) {
	ix := New(testSnapshot())

	// 4 components + 2 topic articles
	assert.Len(t, ix.Documents(), 6)

	for _, doc := range ix.Documents() {
		assert.Greater(t, doc.TermCount, 0, "document %v should have terms", doc.Key)
	}
}

func TestDocumentTermFrequencies(t *testing.T) {
	ix := New(testSnapshot())

	for _, doc := range ix.Documents() {
		sum := 0.0
		recovered := 0
		for _, f := range doc.TermFreq {
			sum += f
			recovered += int(math.Round(f * float64(doc.TermCount)))
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "frequencies of %v should sum to 1", doc.Key)
		assert.Equal(t, doc.TermCount, recovered, "raw counts of %v should add back up to the term total", doc.Key)
	}
}

func TestRetrieveRanking(t *testing.T) {
	ix := New(testSnapshot())

	t.Run("matches the obvious component first", func(t *testing.T) {
		got := ix.Retrieve("How does login and credential issuance work?", 2, 3)
		assert.NotEmpty(t, got.ComponentIds)
		assert.Equal(t, "auth-service", got.ComponentIds[0])
	})

	t.Run("name match outranks body-only match", func(t *testing.T) {
		got := ix.Retrieve("billing", 4, 0)
		assert.NotEmpty(t, got.ComponentIds)
		assert.Equal(t, "billing", got.ComponentIds[0])
	})

	t.Run("respects the component budget", func(t *testing.T) {
		got := ix.Retrieve("token gateway billing login requests", 2, 3)
		assert.LessOrEqual(t, len(got.ComponentIds), 2)
	})
}

func TestRetrieveBudgetDefaults(t *testing.T) {
	ix := New(testSnapshot())

	t.Run("zero topic budget disables topic articles", func(t *testing.T) {
		got := ix.Retrieve("login flow token", 5, 0)
		assert.Empty(t, got.Topics)
	})

	t.Run("non-positive component budget falls back to the default", func(t *testing.T) {
		got := ix.Retrieve("token gateway billing login requests", 0, -1)
		assert.NotEmpty(t, got.ComponentIds)
		assert.LessOrEqual(t, len(got.ComponentIds), DefaultMaxComponents)
	})
}

func TestRetrieveGraphExpansion(t *testing.T) {
	ix := New(testSnapshot())

	// "credential" only matches auth-service; expansion should pull its
	// dependency first, then its dependent.
	got := ix.Retrieve("credential checks", 3, 0)
	assert.Equal(t, []string{"auth-service", "token-store", "api-gateway"}, got.ComponentIds)
}

func TestRetrieveNoMatches(t *testing.T) {
	ix := New(testSnapshot())

	t.Run("unknown terms fall back to graph summary", func(t *testing.T) {
		got := ix.Retrieve("zebra kubernetes quantum", 5, 3)
		assert.Empty(t, got.ComponentIds)
		assert.Empty(t, got.Topics)
		assert.Equal(t, got.GraphSummary, got.ContextText)
	})

	t.Run("stopword-only question falls back too", func(t *testing.T) {
		got := ix.Retrieve("how does it do that", 5, 3)
		assert.Empty(t, got.ComponentIds)
		assert.Equal(t, got.GraphSummary, got.ContextText)
	})
}

func TestRetrieveTopics(t *testing.T) {
	ix := New(testSnapshot())

	got := ix.Retrieve("login flow token", 5, 3)

	// The article without a body on disk must not appear even if it scores.
	for _, tc := range got.Topics {
		assert.NotEqual(t, "missing-article", tc.Slug)
	}

	if assert.NotEmpty(t, got.Topics) {
		assert.Equal(t, "security", got.Topics[0].TopicId)
		assert.Equal(t, "login-flow", got.Topics[0].Slug)
		assert.Contains(t, got.ContextText, "## Topic Article: The Login Flow")
		assert.Contains(t, got.ContextText, "topics/security/login-flow.md")
	}
}

func TestGraphSummary(t *testing.T) {
	ix := New(testSnapshot())
	summary := ix.GraphSummary()

	assert.Contains(t, summary, "Project: payments")
	assert.Contains(t, summary, "Language: go")
	assert.Contains(t, summary, "Auth Service (auth-service)")
	assert.Contains(t, summary, "depends on: token-store")
	// Components without dependencies get no arrow
	for _, line := range strings.Split(summary, "\n") {
		if strings.Contains(line, "(billing)") {
			assert.NotContains(t, line, "depends on")
		}
	}
}
