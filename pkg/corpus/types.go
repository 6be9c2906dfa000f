package corpus

// Project holds the generator's metadata about the documented codebase.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// Component is one documented unit of the codebase together with its
// dependency-graph edges. The graph is produced by the docs generator and is
// never mutated by this service.
type Component struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Purpose      string   `json:"purpose"`
	Category     string   `json:"category"`
	Path         string   `json:"path"`
	KeyFiles     []string `json:"key_files"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// Article is a stub pointing at one topic article body on disk.
type Article struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// Topic groups components under a thematic narrative.
type Topic struct {
	Id          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Components  []string  `json:"components"`
	Articles    []Article `json:"articles"`
}

// Graph is the root structure of graph.json.
type Graph struct {
	Project    Project     `json:"project"`
	Components []Component `json:"components"`
	Topics     []Topic     `json:"topics"`
}

// ArticleKey addresses one topic article body.
type ArticleKey struct {
	TopicId string
	Slug    string
}

// Snapshot is an immutable view of the corpus taken at load time: the graph
// plus the raw markdown bodies for components and topic articles. A reload
// produces a fresh Snapshot; existing ones are never modified.
type Snapshot struct {
	Graph             *Graph
	ComponentMarkdown map[string]string
	ArticleMarkdown   map[ArticleKey]string

	componentsById map[string]*Component
	topicsById     map[string]*Topic
}

// NewSnapshot builds the lookup tables for a loaded graph.
func NewSnapshot(graph *Graph, componentMarkdown map[string]string, articleMarkdown map[ArticleKey]string) *Snapshot {
	s := &Snapshot{
		Graph:             graph,
		ComponentMarkdown: componentMarkdown,
		ArticleMarkdown:   articleMarkdown,
		componentsById:    make(map[string]*Component, len(graph.Components)),
		topicsById:        make(map[string]*Topic, len(graph.Topics)),
	}
	for i := range graph.Components {
		c := &graph.Components[i]
		s.componentsById[c.Id] = c
	}
	for i := range graph.Topics {
		t := &graph.Topics[i]
		s.topicsById[t.Id] = t
	}
	return s
}

// Component returns the component with the given id, or nil.
func (s *Snapshot) Component(id string) *Component {
	return s.componentsById[id]
}

// Topic returns the topic with the given id, or nil.
func (s *Snapshot) Topic(id string) *Topic {
	return s.topicsById[id]
}
