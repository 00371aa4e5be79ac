package dto

import (
	"time"

	"github.com/deca109/TaskFlow.ai/internal/domain"
)

// AssignRequest payload.
type AssignRequest struct {
	TaskID     string `json:"task_id"`
	EmployeeID string `json:"employee_id"`
}

// CompleteAssignmentRequest payload.
type CompleteAssignmentRequest struct {
	CompletedDate       time.Time `json:"completed_date"`
	FeedbackScore       int       `json:"feedback_score"`
	CompletionTimeHours *int      `json:"completion_time_hours,omitempty"`
}

// AssignmentResponse response.
type AssignmentResponse struct {
	ID                  string                  `json:"id"`
	TaskID              string                  `json:"task_id"`
	EmployeeID          string                  `json:"employee_id"`
	Status              domain.AssignmentStatus `json:"status"`
	AssignedDate        time.Time               `json:"assigned_date"`
	CompletedDate       *time.Time              `json:"completed_date,omitempty"`
	CompletionTimeHours *int                    `json:"completion_time_hours,omitempty"`
	FeedbackScore       *int                    `json:"feedback_score,omitempty"`
	WorkloadDelta       int                     `json:"workload_delta"`
}
