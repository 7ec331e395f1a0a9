package notifier

import (
	"context"
	"time"
)

// Event types.
const (
	EventSettlement    = "settlement"
	EventStaleApproval = "stale_approval"
)

// Event describes a committed change to a transaction request.
type Event struct {
	Type       string    `json:"type"`
	RequestID  string    `json:"request_id"`
	Action     string    `json:"action,omitempty"`
	Status     string    `json:"status"`
	UserID     string    `json:"user_id"`
	Amount     string    `json:"amount"`
	Currency   string    `json:"currency"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier defines the interface for a component that publishes events after commit.
type Notifier interface {
	Publish(ctx context.Context, event Event) error
}

// NoOp discards every event.
type NoOp struct{}

func (NoOp) Publish(context.Context, Event) error { return nil }
