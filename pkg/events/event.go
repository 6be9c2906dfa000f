package events

import "time"

// TopicCorpusReloaded carries CorpusReloaded payloads on the in-process bus.
const TopicCorpusReloaded = "corpus.reloaded"

// CorpusReloaded is published after a successful corpus reload and index
// rebuild, and fanned out to connected documentation viewers.
type CorpusReloaded struct {
	Project    string    `json:"project"`
	Components int       `json:"components"`
	Topics     int       `json:"topics"`
	OccurredAt time.Time `json:"occurred_at"`
}
