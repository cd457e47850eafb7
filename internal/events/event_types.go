package events

import (
	"time"

	"github.com/spec-kit/job-board/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobPosted                EventType = "job_posted"
	EventJobClosed                EventType = "job_closed"
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
)

// AllEventTypes lists every event the services publish.
var AllEventTypes = []EventType{
	EventJobPosted,
	EventJobClosed,
	EventApplicationSubmitted,
	EventApplicationStatusChanged,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
	Email  string      `json:"email"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	JobID     int64       `json:"job_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JobPostedPayload payload.
type JobPostedPayload struct {
	Title    string `json:"title"`
	Location string `json:"location"`
	JobType  string `json:"job_type"`
}

// ApplicationSubmittedPayload payload.
type ApplicationSubmittedPayload struct {
	ApplicationID int64  `json:"application_id"`
	JobTitle      string `json:"job_title"`
	SeekerEmail   string `json:"seeker_email"`
	HasResume     bool   `json:"has_resume"`
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	ApplicationID int64                    `json:"application_id"`
	OldStatus     domain.ApplicationStatus `json:"old_status"`
	NewStatus     domain.ApplicationStatus `json:"new_status"`
}

// ActorFrom converts a workflow actor for event metadata.
func ActorFrom(actor domain.Actor) Actor {
	return Actor{UserID: actor.UserID, Role: actor.Role, Email: actor.Email}
}
