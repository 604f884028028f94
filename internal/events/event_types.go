package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAuthSucceeded EventType = "auth_succeeded"
	EventAuthFailed    EventType = "auth_failed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AuthSucceededPayload payload. The username is deliberately absent.
type AuthSucceededPayload struct {
	SubjectID int64  `json:"subject_id"`
	TokenID   string `json:"token_id"`
}

// AuthFailedPayload payload.
type AuthFailedPayload struct {
	Reason string `json:"reason"`
}
