package service

import (
	"context"
	"strings"

	"docs-assistant-be/internal/admin"
	"docs-assistant-be/internal/dto"
	"docs-assistant-be/internal/pkg/logger"
	"docs-assistant-be/pkg/llm"
	"docs-assistant-be/pkg/rag/prompt"
	"docs-assistant-be/pkg/rag/session"
)

// IAskService answers documentation questions as an ordered event stream:
// one context event, zero or more chunk events, then exactly one done or
// error event.
type IAskService interface {
	Ask(ctx context.Context, request *dto.AskRequest, emit func(dto.AskEvent))
	DestroySession(id string) *dto.DestroySessionResponse
}

type askService struct {
	corpusService ICorpusService
	provider      llm.Provider
	sessions      *session.Store // nil when session mode is disabled
	settings      *admin.SettingsManager
	maxComponents int
	maxTopics     int
	logger        logger.ILogger
}

func NewAskService(
	corpusService ICorpusService,
	provider llm.Provider,
	sessions *session.Store,
	settings *admin.SettingsManager,
	maxComponents int,
	maxTopics int,
	log logger.ILogger,
) IAskService {
	return &askService{
		corpusService: corpusService,
		provider:      provider,
		sessions:      sessions,
		settings:      settings,
		maxComponents: maxComponents,
		maxTopics:     maxTopics,
		logger:        log,
	}
}

// Ask runs one question through retrieval and generation. Every failure after
// the stream opens surfaces as a terminal error event; emit is never called
// again after done or error.
func (as *askService) Ask(ctx context.Context, request *dto.AskRequest, emit func(dto.AskEvent)) {
	settings := as.loadSettings()

	maxComponents := as.maxComponents
	if settings.MaxComponents > 0 {
		maxComponents = settings.MaxComponents
	}
	maxTopics := as.maxTopics
	if settings.MaxTopics > 0 {
		maxTopics = settings.MaxTopics
	}

	retrieved := as.corpusService.Index().Retrieve(request.Question, maxComponents, maxTopics)

	emit(dto.AskEvent{
		Type:       dto.EventContext,
		Components: retrieved.ComponentIds,
	})

	builder := prompt.NewBuilder(request.Question).
		WithGraphSummary(retrieved.GraphSummary).
		WithContext(retrieved.ContextText)
	if settings.SystemPreamble != "" {
		builder.WithPreamble(settings.SystemPreamble)
	}

	sessionId := ""
	useSessions := as.sessions != nil
	if !useSessions {
		// Stateless mode carries prior turns inline in the prompt. Session
		// mode ignores inline history; the provider holds its own continuity.
		builder.WithHistory(historyToMessages(request.ConversationHistory))
	}

	var chunks []string
	opts := []llm.Option{
		llm.WithStreamHandler(func(chunk string) {
			chunks = append(chunks, chunk)
			emit(dto.AskEvent{Type: dto.EventChunk, Content: chunk})
		}),
	}
	model := request.Model
	if model == "" {
		model = settings.DefaultModel
	}
	if model != "" {
		opts = append(opts, llm.WithModel(model))
	}

	built := builder.Build()

	var answer string
	var err error
	if useSessions {
		sessionId, answer, err = as.askInSession(ctx, request.SessionId, built, opts)
	} else {
		answer, err = as.provider.Generate(ctx, built, opts...)
	}
	if err != nil {
		as.logger.Error("ask", "Generation failed", map[string]interface{}{
			"error":      err.Error(),
			"session_id": sessionId,
		})
		emit(dto.AskEvent{Type: dto.EventError, Message: err.Error(), SessionId: sessionId})
		return
	}

	// A provider may deliver the whole answer through the stream handler and
	// return an empty final string; done must still carry the full response.
	if answer == "" {
		answer = strings.Join(chunks, "")
	}

	emit(dto.AskEvent{
		Type:         dto.EventDone,
		FullResponse: answer,
		SessionId:    sessionId,
	})
}

// askInSession resolves the caller's session id, creating a replacement when
// the id no longer resolves (expired or evicted), then runs the turn on it.
// The returned id may therefore differ from the requested one.
func (as *askService) askInSession(ctx context.Context, requestedId, builtPrompt string, opts []llm.Option) (string, string, error) {
	id := requestedId
	if id != "" {
		if _, ok := as.sessions.Get(id); !ok {
			id = ""
		}
	}
	if id == "" {
		sess, err := as.sessions.Create()
		if err != nil {
			return "", "", err
		}
		id = sess.Id
	}

	answer, err := as.sessions.Send(ctx, id, builtPrompt, opts...)
	if err != nil {
		return id, "", err
	}
	return id, answer, nil
}

// DestroySession ends a session eagerly rather than waiting for the idle
// sweep. Destroying an unknown id is not an error.
func (as *askService) DestroySession(id string) *dto.DestroySessionResponse {
	existed := false
	if as.sessions != nil {
		existed = as.sessions.Destroy(id)
	}
	return &dto.DestroySessionResponse{Existed: existed}
}

func (as *askService) loadSettings() *admin.Settings {
	if as.settings == nil {
		return &admin.Settings{}
	}
	s, err := as.settings.Load()
	if err != nil {
		as.logger.Warn("ask", "Settings unavailable, using defaults", map[string]interface{}{"error": err.Error()})
		return &admin.Settings{}
	}
	return s
}

func historyToMessages(turns []dto.ChatTurn) []llm.Message {
	if len(turns) == 0 {
		return nil
	}
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, llm.Message{Role: t.Role, Content: t.Content})
	}
	return messages
}
