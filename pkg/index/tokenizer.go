package index

import (
	"regexp"
	"strings"
)

var nonTokenChars = regexp.MustCompile(`[^a-z0-9 \-_]+`)

// Tokenize normalizes free text into index terms: lower-case, strip everything
// outside [a-z0-9 -_], split on whitespace, drop single-character tokens and
// stop words. Pure function; the index and query sides share it.
func Tokenize(text string) []string {
	cleaned := nonTokenChars.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)

	tokens := make([]string, 0, len(fields))
	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if _, isStop := stopwords[tok]; isStop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

var stopwords = func() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "its", "this", "that",
		"these", "those", "from", "up", "down", "over", "under", "again",
		"further", "than", "so", "such", "into", "about", "between",
		"through", "during", "before", "after", "above", "below", "out",
		"off", "own", "same", "too", "very", "can", "will", "just", "how",
		"what", "when", "where", "which", "who", "why", "do", "does",
		"did", "not", "no", "nor", "only", "other", "some", "any", "each",
		"few", "more", "most", "all", "both", "he", "she", "they", "we",
		"you", "your", "our", "their", "them", "his", "her", "my", "me",
		"am", "have", "has", "had", "having", "there", "here", "also",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()
