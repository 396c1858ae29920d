package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies an activation lifecycle event
type EventType string

const (
	EventCodeGenerated     EventType = "code.generated"
	EventActivationCreated EventType = "activation.created"
	EventActivationRevoked EventType = "activation.revoked"
	EventActivationExpired EventType = "activation.expired"
)

// Event is streamed to administrators over the activation event websocket
type Event struct {
	Type         EventType  `json:"type"`
	ActivationID *uuid.UUID `json:"activationId,omitempty"`
	VideoID      *uuid.UUID `json:"videoId,omitempty"`
	VideoPath    string     `json:"videoPath,omitempty"`
	UserID       string     `json:"userId,omitempty"`
	CodeID       *uuid.UUID `json:"codeId,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	Timestamp    time.Time  `json:"timestamp"`
}
