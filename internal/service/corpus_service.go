package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"docs-assistant-be/internal/dto"
	"docs-assistant-be/internal/pkg/logger"
	"docs-assistant-be/pkg/corpus"
	"docs-assistant-be/pkg/events"
	"docs-assistant-be/pkg/index"
)

// ICorpusService exposes the loaded documentation corpus and its search index.
type ICorpusService interface {
	Graph(ctx context.Context) (*dto.GraphResponse, error)
	Components(ctx context.Context) ([]*dto.ComponentResponse, error)
	Component(ctx context.Context, id string) (*dto.ComponentDetailResponse, error)
	Topics(ctx context.Context) ([]*dto.TopicResponse, error)
	Reload(ctx context.Context) error
	Index() *index.Index
}

// corpusState pairs a snapshot with the index built from it so readers always
// see a matching pair.
type corpusState struct {
	snapshot *corpus.Snapshot
	index    *index.Index
}

type corpusService struct {
	dir       string
	state     atomic.Pointer[corpusState]
	publisher message.Publisher
	logger    logger.ILogger
}

// NewCorpusService loads the corpus from dir and builds the initial index.
// Subsequent Reload calls swap the state atomically; in-flight requests keep
// the snapshot they started with.
func NewCorpusService(dir string, publisher message.Publisher, log logger.ILogger) (ICorpusService, error) {
	s := &corpusService{
		dir:       dir,
		publisher: publisher,
		logger:    log,
	}

	snap, err := corpus.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	s.state.Store(&corpusState{snapshot: snap, index: index.New(snap)})

	log.Info("corpus", "Corpus loaded", map[string]interface{}{
		"dir":        dir,
		"components": len(snap.Graph.Components),
		"topics":     len(snap.Graph.Topics),
	})

	return s, nil
}

func (s *corpusService) Index() *index.Index {
	return s.state.Load().index
}

func (s *corpusService) Graph(ctx context.Context) (*dto.GraphResponse, error) {
	st := s.state.Load()
	g := st.snapshot.Graph

	return &dto.GraphResponse{
		Project:        g.Project.Name,
		Description:    g.Project.Description,
		Language:       g.Project.Language,
		ComponentCount: len(g.Components),
		TopicCount:     len(g.Topics),
		Summary:        st.index.GraphSummary(),
	}, nil
}

func (s *corpusService) Components(ctx context.Context) ([]*dto.ComponentResponse, error) {
	g := s.state.Load().snapshot.Graph

	resp := make([]*dto.ComponentResponse, 0, len(g.Components))
	for i := range g.Components {
		resp = append(resp, componentToDTO(&g.Components[i]))
	}
	return resp, nil
}

func (s *corpusService) Component(ctx context.Context, id string) (*dto.ComponentDetailResponse, error) {
	st := s.state.Load()

	c := st.snapshot.Component(id)
	if c == nil {
		return nil, fmt.Errorf("component not found: %s", id)
	}

	return &dto.ComponentDetailResponse{
		ComponentResponse: *componentToDTO(c),
		Markdown:          st.snapshot.ComponentMarkdown[c.Id],
	}, nil
}

func (s *corpusService) Topics(ctx context.Context) ([]*dto.TopicResponse, error) {
	g := s.state.Load().snapshot.Graph

	resp := make([]*dto.TopicResponse, 0, len(g.Topics))
	for _, t := range g.Topics {
		articles := make([]dto.ArticleResponse, 0, len(t.Articles))
		for _, a := range t.Articles {
			articles = append(articles, dto.ArticleResponse{Slug: a.Slug, Title: a.Title})
		}
		resp = append(resp, &dto.TopicResponse{
			Id:          t.Id,
			Title:       t.Title,
			Description: t.Description,
			Components:  t.Components,
			Articles:    articles,
		})
	}
	return resp, nil
}

// Reload re-reads the corpus directory and rebuilds the index. On failure the
// previous state stays in place.
func (s *corpusService) Reload(ctx context.Context) error {
	snap, err := corpus.Load(s.dir)
	if err != nil {
		s.logger.Error("corpus", "Corpus reload failed", map[string]interface{}{"error": err.Error()})
		return fmt.Errorf("reload corpus: %w", err)
	}

	s.state.Store(&corpusState{snapshot: snap, index: index.New(snap)})

	s.logger.Info("corpus", "Corpus reloaded", map[string]interface{}{
		"components": len(snap.Graph.Components),
		"topics":     len(snap.Graph.Topics),
	})

	s.publishReloaded(snap)
	return nil
}

func (s *corpusService) publishReloaded(snap *corpus.Snapshot) {
	if s.publisher == nil {
		return
	}

	payload, err := json.Marshal(events.CorpusReloaded{
		Project:    snap.Graph.Project.Name,
		Components: len(snap.Graph.Components),
		Topics:     len(snap.Graph.Topics),
		OccurredAt: time.Now(),
	})
	if err != nil {
		return
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err := s.publisher.Publish(events.TopicCorpusReloaded, msg); err != nil {
		s.logger.Warn("corpus", "Failed to publish reload event", map[string]interface{}{"error": err.Error()})
	}
}

func componentToDTO(c *corpus.Component) *dto.ComponentResponse {
	return &dto.ComponentResponse{
		Id:           c.Id,
		Name:         c.Name,
		Purpose:      c.Purpose,
		Category:     c.Category,
		Path:         c.Path,
		Dependencies: c.Dependencies,
		Dependents:   c.Dependents,
	}
}
