package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAssignmentCreated   EventType = "assignment_created"
	EventAssignmentCompleted EventType = "assignment_completed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID           string      `json:"id"`
	Type         EventType   `json:"type"`
	AssignmentID string      `json:"assignment_id"`
	Timestamp    time.Time   `json:"timestamp"`
	Payload      interface{} `json:"payload"`
}

// AssignmentCreatedPayload payload.
type AssignmentCreatedPayload struct {
	TaskID        string `json:"task_id"`
	EmployeeID    string `json:"employee_id"`
	WorkloadDelta int    `json:"workload_delta"`
}

// AssignmentCompletedPayload payload.
type AssignmentCompletedPayload struct {
	TaskID              string `json:"task_id"`
	EmployeeID          string `json:"employee_id"`
	CompletionTimeHours int    `json:"completion_time_hours"`
	FeedbackScore       int    `json:"feedback_score"`
}
