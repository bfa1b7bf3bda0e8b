// Package model defines the core domain types for the activities API.
package model

import "time"

// Activity is an extracurricular offering students can sign up for.
// Activities are keyed by name in the registry, so the name is not a field.
type Activity struct {
	Description     string   `json:"description" mapstructure:"description"`
	Schedule        string   `json:"schedule" mapstructure:"schedule"`
	MaxParticipants int      `json:"max_participants" mapstructure:"max_participants"`
	Participants    []string `json:"participants" mapstructure:"participants"`
}

// Remaining returns the number of open spots. It goes negative when an
// activity is oversubscribed, since capacity is informational only.
func (a *Activity) Remaining() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull returns true when the roster has reached capacity.
func (a *Activity) IsFull() bool {
	return len(a.Participants) >= a.MaxParticipants
}

// HasParticipant reports whether email is on the roster.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot alias the roster slice.
func (a Activity) Clone() Activity {
	a.Participants = append([]string(nil), a.Participants...)
	if a.Participants == nil {
		a.Participants = []string{}
	}
	return a
}

// MessageResponse is returned by successful signup and unregister calls.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse is the body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// AuditAction names the mutation an AuditEntry records.
type AuditAction string

const (
	AuditSignup     AuditAction = "signup"
	AuditUnregister AuditAction = "unregister"
)

// AuditEntry is an append-only record of a successful roster change.
type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Activity  string      `json:"activity"`
	Email     string      `json:"email"`
	CreatedAt time.Time   `json:"created_at"`
}
