package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testGraphJSON = `{
	"project": {"name": "demo", "description": "Demo project", "language": "go"},
	"components": [
		{
			"id": "core",
			"name": "Core",
			"purpose": "Does the work",
			"category": "service",
			"path": "internal/core",
			"key_files": ["internal/core/core.go"],
			"dependencies": [],
			"dependents": ["cli"]
		},
		{
			"id": "cli",
			"name": "CLI",
			"purpose": "Command line front",
			"category": "transport",
			"path": "cmd/cli",
			"dependencies": ["core"]
		}
	],
	"topics": [
		{
			"id": "getting-started",
			"title": "Getting Started",
			"description": "First steps",
			"components": ["core"],
			"articles": [
				{"slug": "install", "title": "Installation"},
				{"slug": "missing", "title": "Never Written"}
			]
		}
	]
}`

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	assert.NoError(t, os.WriteFile(filepath.Join(dir, "graph.json"), []byte(testGraphJSON), 0644))

	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "components"), 0755))
	assert.NoError(t, os.WriteFile(
		filepath.Join(dir, "components", "core.md"),
		[]byte("# Core\nThe heart of the system."), 0644))
	// cli.md intentionally absent

	assert.NoError(t, os.MkdirAll(filepath.Join(dir, "topics", "getting-started"), 0755))
	assert.NoError(t, os.WriteFile(
		filepath.Join(dir, "topics", "getting-started", "install.md"),
		[]byte("Run the installer."), 0644))
	// missing.md intentionally absent

	return dir
}

func TestLoad(t *testing.T) {
	dir := writeTestCorpus(t)

	snap, err := Load(dir)
	assert.NoError(t, err)

	t.Run("graph parsed", func(t *testing.T) {
		assert.Equal(t, "demo", snap.Graph.Project.Name)
		assert.Len(t, snap.Graph.Components, 2)
		assert.Len(t, snap.Graph.Topics, 1)
	})

	t.Run("lookups resolve", func(t *testing.T) {
		core := snap.Component("core")
		if assert.NotNil(t, core) {
			assert.Equal(t, "Core", core.Name)
			assert.Equal(t, []string{"cli"}, core.Dependents)
		}
		assert.Nil(t, snap.Component("nope"))
		assert.NotNil(t, snap.Topic("getting-started"))
	})

	t.Run("markdown bodies loaded", func(t *testing.T) {
		assert.Contains(t, snap.ComponentMarkdown["core"], "heart of the system")
		assert.Contains(t, snap.ArticleMarkdown[ArticleKey{TopicId: "getting-started", Slug: "install"}], "installer")
	})

	t.Run("missing bodies come back empty not failing", func(t *testing.T) {
		assert.Equal(t, "", snap.ComponentMarkdown["cli"])
		assert.Equal(t, "", snap.ArticleMarkdown[ArticleKey{TopicId: "getting-started", Slug: "missing"}])
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing graph.json fails", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("malformed graph.json fails", func(t *testing.T) {
		dir := t.TempDir()
		assert.NoError(t, os.WriteFile(filepath.Join(dir, "graph.json"), []byte("{not json"), 0644))
		_, err := Load(dir)
		assert.Error(t, err)
	})
}
