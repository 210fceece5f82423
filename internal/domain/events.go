package domain

import "time"

// Event types
const (
	EventTypeTransferCompleted = "transfer.completed"
	EventTypeAnomalyDetected   = "transfer.anomaly_detected"
)

// Aggregate types
const (
	AggregateTypeTransfer = "transfer"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// TransferCompletedEvent payload
type TransferCompletedEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	CreatedAt     string `json:"created_at"`
}

// AnomalyDetectedEvent payload. Subscribers alert the account owner.
type AnomalyDetectedEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	Reason        string `json:"reason"`
	CreatedAt     string `json:"created_at"`
}

// NewTransferEvent builds the outbox event announcing a ledger record.
// Only completed records and anomaly rejections produce events.
func NewTransferEvent(id string, rec *TransferRecord) (*OutboxEvent, bool) {
	event := &OutboxEvent{
		ID:            id,
		AggregateID:   rec.ID,
		AggregateType: AggregateTypeTransfer,
		CreatedAt:     rec.CreatedAt,
	}

	switch {
	case rec.Completed():
		event.EventType = EventTypeTransferCompleted
		event.Payload = map[string]any{
			"transfer_id":     rec.ID,
			"from_account_id": rec.FromAccountID,
			"to_account_id":   rec.ToAccountID,
			"amount":          rec.Amount.String(),
			"created_at":      rec.CreatedAt.Format(time.RFC3339Nano),
		}
	case rec.Reason.IsAnomaly():
		event.EventType = EventTypeAnomalyDetected
		event.Payload = map[string]any{
			"transfer_id":     rec.ID,
			"from_account_id": rec.FromAccountID,
			"to_account_id":   rec.ToAccountID,
			"amount":          rec.Amount.String(),
			"reason":          string(rec.Reason),
			"created_at":      rec.CreatedAt.Format(time.RFC3339Nano),
		}
	default:
		return nil, false
	}

	return event, true
}
