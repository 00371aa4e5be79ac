package domain

import "time"

// AssignmentStatus enumerates lifecycle states for assignments.
type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "ACTIVE"
	AssignmentStatusCompleted AssignmentStatus = "COMPLETED"
)

// Assignment records that an employee is (or was) working on a task.
// At most one assignment per task may be active at a time.
type Assignment struct {
	ID                  string
	TaskID              string
	EmployeeID          string
	AssignedDate        time.Time
	CompletedDate       *time.Time
	CompletionTimeHours *int
	FeedbackScore       *int
	WorkloadDelta       int
}

// Active reports whether the assignment has not been completed yet.
func (a *Assignment) Active() bool {
	return a.CompletedDate == nil
}

// Status derives the lifecycle state.
func (a *Assignment) Status() AssignmentStatus {
	if a.Active() {
		return AssignmentStatusActive
	}
	return AssignmentStatusCompleted
}
