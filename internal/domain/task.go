package domain

import "time"

// Task is a unit of work waiting for an assignee.
type Task struct {
	ID             string
	Description    string
	RequiredSkills []string
	Priority       int
	EstimatedTime  int
	Complexity     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkloadDelta converts the task's estimated hours into the weekly-normalized
// load applied to an assignee: ceil(estimatedTime / 7).
func (t *Task) WorkloadDelta() int {
	if t.EstimatedTime <= 0 {
		return 0
	}
	return (t.EstimatedTime + 6) / 7
}
