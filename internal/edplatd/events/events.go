// Package events carries activation lifecycle events from the services to
// administrators watching the event stream.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies a lifecycle event
type Type string

const (
	CodeGenerated     Type = "code.generated"
	ActivationCreated Type = "activation.created"
	ActivationRevoked Type = "activation.revoked"
	ActivationExpired Type = "activation.expired"
)

// Event describes one lifecycle transition
type Event struct {
	Type         Type
	ActivationID uuid.UUID
	VideoID      uuid.UUID
	VideoPath    string
	UserID       string
	CodeID       uuid.UUID
	ExpiresAt    time.Time
	Timestamp    time.Time
}

// Publisher delivers events. Implementations must not block the caller for long.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error {
	return nil
}
