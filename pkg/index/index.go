package index

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"docs-assistant-be/pkg/corpus"
)

// nameBoost multiplies a document's score once for every query term its
// display name contains as a substring.
const nameBoost = 1.5

const (
	// DefaultMaxComponents bounds the component selection per retrieve.
	DefaultMaxComponents = 5
	// DefaultMaxTopics bounds the topic-article selection per retrieve.
	DefaultMaxTopics = 3
)

// Index is a static TF-IDF model over the corpus snapshot. It is built once
// and read-only afterwards; a corpus reload builds a new Index.
type Index struct {
	snapshot     *corpus.Snapshot
	docs         []*Document
	idf          map[string]float64
	graphSummary string
}

// TopicContext is one retained topic article in a retrieval result.
type TopicContext struct {
	TopicId string `json:"topic_id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// RetrievedContext is the transient result of one Retrieve call.
type RetrievedContext struct {
	ComponentIds []string
	ContextText  string
	GraphSummary string
	Topics       []TopicContext
}

// New builds the index: one document per component, one per topic article,
// then the IDF table log(N/df)+1 over the whole set.
func New(snap *corpus.Snapshot) *Index {
	ix := &Index{
		snapshot: snap,
		idf:      make(map[string]float64),
	}

	for _, c := range snap.Graph.Components {
		blob := strings.Join([]string{
			c.Name, c.Purpose, c.Category, c.Path,
			strings.Join(c.KeyFiles, " "),
			snap.ComponentMarkdown[c.Id],
		}, "\n")
		ix.docs = append(ix.docs, newDocument(
			Key{Kind: KindComponent, ComponentId: c.Id},
			c.Name, c.Category, blob,
		))
	}

	for _, t := range snap.Graph.Topics {
		componentNames := make([]string, 0, len(t.Components))
		for _, id := range t.Components {
			if c := snap.Component(id); c != nil {
				componentNames = append(componentNames, c.Name)
			}
		}
		for _, a := range t.Articles {
			blob := strings.Join([]string{
				t.Title, t.Description, a.Title,
				strings.Join(componentNames, " "),
				snap.ArticleMarkdown[corpus.ArticleKey{TopicId: t.Id, Slug: a.Slug}],
			}, "\n")
			ix.docs = append(ix.docs, newDocument(
				Key{Kind: KindTopic, TopicId: t.Id, Slug: a.Slug},
				a.Title, "topic", blob,
			))
		}
	}

	df := make(map[string]int)
	for _, doc := range ix.docs {
		for term := range doc.TermFreq {
			df[term]++
		}
	}
	total := float64(len(ix.docs))
	for term, n := range df {
		ix.idf[term] = math.Log(total/float64(n)) + 1
	}

	ix.graphSummary = renderGraphSummary(snap)
	return ix
}

// Documents exposes the built documents for inspection and tests.
func (ix *Index) Documents() []*Document {
	return ix.docs
}

// GraphSummary returns the rendered dependency-graph overview.
func (ix *Index) GraphSummary() string {
	return ix.graphSummary
}

type scoredDoc struct {
	doc   *Document
	score float64
}

// Retrieve scores the question against every document, expands the top
// components one hop through the dependency graph and resolves the top topic
// articles. It never fails: a question with no matches yields empty selections
// and a context text holding just the graph summary.
func (ix *Index) Retrieve(question string, maxComponents, maxTopics int) *RetrievedContext {
	if maxComponents <= 0 {
		maxComponents = DefaultMaxComponents
	}
	// Zero is meaningful for topics: it disables topic articles entirely.
	// Only a negative value falls back to the default.
	if maxTopics < 0 {
		maxTopics = DefaultMaxTopics
	}

	terms := Tokenize(question)
	distinct := distinctTerms(terms)

	var components, topics []scoredDoc
	for _, doc := range ix.docs {
		score := 0.0
		for _, term := range terms {
			score += doc.TermFreq[term] * ix.idf[term]
		}
		if score == 0 {
			continue
		}
		lowerName := strings.ToLower(doc.DisplayName)
		for _, term := range distinct {
			if strings.Contains(lowerName, term) {
				score *= nameBoost
			}
		}
		if doc.Key.Kind == KindComponent {
			components = append(components, scoredDoc{doc, score})
		} else {
			topics = append(topics, scoredDoc{doc, score})
		}
	}

	// Ties keep index build order, which follows the graph declaration order.
	sort.SliceStable(components, func(i, j int) bool { return components[i].score > components[j].score })
	sort.SliceStable(topics, func(i, j int) bool { return topics[i].score > topics[j].score })

	if len(components) > maxComponents {
		components = components[:maxComponents]
	}
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}

	selected := make([]string, 0, maxComponents)
	seen := make(map[string]struct{}, maxComponents)
	for _, sd := range components {
		selected = append(selected, sd.doc.Key.ComponentId)
		seen[sd.doc.Key.ComponentId] = struct{}{}
	}
	selected = ix.expandSelection(selected, seen, maxComponents)

	topicContexts := make([]TopicContext, 0, len(topics))
	for _, sd := range topics {
		t := ix.snapshot.Topic(sd.doc.Key.TopicId)
		if t == nil {
			continue
		}
		content := ix.snapshot.ArticleMarkdown[corpus.ArticleKey{TopicId: t.Id, Slug: sd.doc.Key.Slug}]
		if content == "" {
			continue
		}
		topicContexts = append(topicContexts, TopicContext{
			TopicId: t.Id,
			Slug:    sd.doc.Key.Slug,
			Title:   sd.doc.DisplayName,
			Content: content,
		})
	}

	return &RetrievedContext{
		ComponentIds: selected,
		ContextText:  ix.renderContextText(selected, topicContexts),
		GraphSummary: ix.graphSummary,
		Topics:       topicContexts,
	}
}

// expandSelection pulls one-hop neighbors (dependencies first, then
// dependents, in declared order) of the initially selected components until
// the budget is reached or all neighbors have been considered.
func (ix *Index) expandSelection(selected []string, seen map[string]struct{}, maxComponents int) []string {
	if len(selected) >= maxComponents {
		return selected
	}
	initial := append([]string(nil), selected...)
	for _, id := range initial {
		c := ix.snapshot.Component(id)
		if c == nil {
			continue
		}
		for _, neighbor := range append(append([]string(nil), c.Dependencies...), c.Dependents...) {
			if len(selected) >= maxComponents {
				return selected
			}
			if _, dup := seen[neighbor]; dup {
				continue
			}
			if ix.snapshot.Component(neighbor) == nil {
				continue
			}
			selected = append(selected, neighbor)
			seen[neighbor] = struct{}{}
		}
	}
	return selected
}

func (ix *Index) renderContextText(componentIds []string, topics []TopicContext) string {
	var sections []string
	for _, id := range componentIds {
		md := ix.snapshot.ComponentMarkdown[id]
		if md == "" {
			continue
		}
		sections = append(sections, fmt.Sprintf("## Component: %s\n%s", id, strings.TrimSpace(md)))
	}
	for _, tc := range topics {
		sections = append(sections, fmt.Sprintf("## Topic Article: %s\n_Source: topics/%s/%s.md_\n%s",
			tc.Title, tc.TopicId, tc.Slug, strings.TrimSpace(tc.Content)))
	}
	if len(sections) == 0 {
		return ix.graphSummary
	}
	return strings.Join(sections, "\n\n")
}

func renderGraphSummary(snap *corpus.Snapshot) string {
	var sb strings.Builder
	p := snap.Graph.Project
	fmt.Fprintf(&sb, "Project: %s\n", p.Name)
	fmt.Fprintf(&sb, "Description: %s\n", p.Description)
	fmt.Fprintf(&sb, "Language: %s\n", p.Language)
	fmt.Fprintf(&sb, "Components: %d\n", len(snap.Graph.Components))
	for _, c := range snap.Graph.Components {
		fmt.Fprintf(&sb, "- %s (%s): %s", c.Name, c.Id, c.Purpose)
		if len(c.Dependencies) > 0 {
			fmt.Fprintf(&sb, " → depends on: %s", strings.Join(c.Dependencies, ", "))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func distinctTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
