package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"

	"docs-assistant-be/internal/pkg/logger"
	"docs-assistant-be/internal/websocket"
	"docs-assistant-be/pkg/events"
)

// IConsumerService runs the background event loop that pushes server events
// out to websocket clients.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, hub *websocket.Hub, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		hub:        hub,
		logger:     log,
	}
}

// Consume forwards corpus reload events to the hub so documentation UIs can
// refresh without polling. Blocks until the context is cancelled.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, events.TopicCorpusReloaded)
	if err != nil {
		return err
	}

	for msg := range messages {
		var payload events.CorpusReloaded
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			cs.logger.Warn("consumer", "Malformed reload event", map[string]interface{}{"error": err.Error()})
			msg.Ack()
			continue
		}

		cs.hub.Broadcast(events.TopicCorpusReloaded, payload)
		msg.Ack()
	}
	return nil
}
