package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/paywal/internal/domain"
)

func TestEventPublisher_PublishesToEventChannel(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	publisher := NewEventPublisher(client)
	ctx := context.Background()

	sub := client.Subscribe(ctx, publisher.Channel(domain.EventTypeAnomalyDetected))
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	createdAt := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	err = publisher.Publish(ctx, &domain.OutboxEvent{
		ID:            "evt-1",
		AggregateID:   "tr-1",
		AggregateType: domain.AggregateTypeTransfer,
		EventType:     domain.EventTypeAnomalyDetected,
		Payload:       map[string]any{"reason": "SuspiciousLargeTransfer"},
		CreatedAt:     createdAt,
	})
	require.NoError(t, err)

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "paywal:events:transfer.anomaly_detected", msg.Channel)

		var decoded EventMessage
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
		assert.Equal(t, "evt-1", decoded.ID)
		assert.Equal(t, "tr-1", decoded.AggregateID)
		assert.Equal(t, "SuspiciousLargeTransfer", decoded.Payload["reason"])
		assert.True(t, createdAt.Equal(decoded.CreatedAt))
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventPublisher_ServerDown(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer client.Close()
	mr.Close()

	err := NewEventPublisher(client).Publish(context.Background(), &domain.OutboxEvent{ID: "evt-1", EventType: "x"})
	assert.ErrorContains(t, err, "failed to publish event evt-1")
}
