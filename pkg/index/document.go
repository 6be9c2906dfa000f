package index

// Kind distinguishes the two indexed document families.
type Kind int

const (
	KindComponent Kind = iota
	KindTopic
)

// Key identifies an indexed document. Component documents carry ComponentId;
// topic-article documents carry TopicId and Slug. A tagged key avoids the
// string-encoded composite ids the generator uses internally.
type Key struct {
	Kind        Kind
	ComponentId string
	TopicId     string
	Slug        string
}

// Document is one immutable indexed unit: normalized term frequencies over the
// document's text blob plus the metadata needed for scoring and rendering.
// TermFreq values are raw counts divided by TermCount, so for a non-empty
// document they sum to 1 over the distinct terms.
type Document struct {
	Key         Key
	DisplayName string
	Category    string
	TermFreq    map[string]float64
	TermCount   int
}

func newDocument(key Key, displayName, category, blob string) *Document {
	tokens := Tokenize(blob)

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	freq := make(map[string]float64, len(counts))
	for term, n := range counts {
		freq[term] = float64(n) / float64(len(tokens))
	}

	return &Document{
		Key:         key,
		DisplayName: displayName,
		Category:    category,
		TermFreq:    freq,
		TermCount:   len(tokens),
	}
}
