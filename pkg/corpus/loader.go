package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const graphFileName = "graph.json"

// Load reads the generated corpus from dir: graph.json, components/<id>.md and
// topics/<topicId>/<slug>.md. Markdown files that are missing or unreadable are
// tolerated (the document simply has an empty body); only a missing or invalid
// graph file is an error.
func Load(dir string) (*Snapshot, error) {
	raw, err := os.ReadFile(filepath.Join(dir, graphFileName))
	if err != nil {
		return nil, fmt.Errorf("read corpus graph: %w", err)
	}

	var graph Graph
	if err := json.Unmarshal(raw, &graph); err != nil {
		return nil, fmt.Errorf("parse corpus graph: %w", err)
	}

	componentMarkdown := make(map[string]string, len(graph.Components))
	for _, c := range graph.Components {
		componentMarkdown[c.Id] = readOptional(filepath.Join(dir, "components", c.Id+".md"))
	}

	articleMarkdown := make(map[ArticleKey]string)
	for _, t := range graph.Topics {
		for _, a := range t.Articles {
			key := ArticleKey{TopicId: t.Id, Slug: a.Slug}
			articleMarkdown[key] = readOptional(filepath.Join(dir, "topics", t.Id, a.Slug+".md"))
		}
	}

	return NewSnapshot(&graph, componentMarkdown, articleMarkdown), nil
}

func readOptional(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(raw)
}
