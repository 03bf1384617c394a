package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/department-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated EventType = "department.created"
	EventDepartmentUpdated EventType = "department.updated"
	EventDepartmentDeleted EventType = "department.deleted"
)

// Event represents a department change emitted by the service.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	DepartmentID int64       `json:"department_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload,omitempty"`
}

// DepartmentPayload carries the record state after a create or update.
type DepartmentPayload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// NewDepartmentEvent stamps a fresh event for dept. Deletes carry no payload.
func NewDepartmentEvent(eventType EventType, dept domain.Department) Event {
	evt := Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		DepartmentID: dept.ID,
		Timestamp:    time.Now().UTC(),
	}
	if eventType != EventDepartmentDeleted {
		evt.Payload = DepartmentPayload{Name: dept.Name, URL: dept.URL}
	}
	return evt
}
