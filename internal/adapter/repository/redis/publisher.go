package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/paywal/internal/domain"
)

// DefaultChannelPrefix prefixes the pub/sub channel of every event type.
const DefaultChannelPrefix = "paywal:events:"

// EventMessage is the JSON document published for an outbox event.
type EventMessage struct {
	ID            string         `json:"id"`
	EventType     string         `json:"event_type"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Payload       map[string]any `json:"payload"`
	CreatedAt     time.Time      `json:"created_at"`
}

// EventPublisher publishes outbox events to Redis pub/sub, one channel per event type.
type EventPublisher struct {
	client *redis.Client
	prefix string
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(client *redis.Client) *EventPublisher {
	return &EventPublisher{
		client: client,
		prefix: DefaultChannelPrefix,
	}
}

// Channel returns the channel an event type is published on.
func (p *EventPublisher) Channel(eventType string) string {
	return p.prefix + eventType
}

// Publish sends the event to its channel.
func (p *EventPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	message, err := json.Marshal(EventMessage{
		ID:            event.ID,
		EventType:     event.EventType,
		AggregateType: event.AggregateType,
		AggregateID:   event.AggregateID,
		Payload:       event.Payload,
		CreatedAt:     event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event.ID, err)
	}

	if err := p.client.Publish(ctx, p.Channel(event.EventType), message).Err(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}

	return nil
}
