package models

import "time"

// Event types.
const (
	EventStart           = "START"
	EventStop            = "STOP"
	EventProfileComplete = "PROFILE_COMPLETE"
	EventError           = "ERROR"
	EventTelemetry       = "TELEMETRY"
)

// Event is a single log entry.
type Event struct {
	EventID      string    `json:"event_id"`
	OccurredAt   time.Time `json:"occurred_at"`
	ControllerID int       `json:"controller_id,omitempty"`
	Type         string    `json:"type"`        // START | STOP | PROFILE_COMPLETE | ERROR | TELEMETRY
	Description  string    `json:"description"` // human-readable
	Metadata     any       `json:"metadata,omitempty"`
}
