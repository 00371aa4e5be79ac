package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/events"
	"github.com/deca109/TaskFlow.ai/internal/repository"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

const (
	minFeedbackScore = 1
	maxFeedbackScore = 5

	// completionTolerance is how far a supplied completion-time may drift
	// from the value derived from the completed date before it is recomputed.
	completionTolerance = 1
)

// CompletionInput carries the outcome data closing out an assignment.
type CompletionInput struct {
	CompletedDate       time.Time
	FeedbackScore       int
	CompletionTimeHours *int
}

// CompletionService finalizes assignments with completion date, derived
// duration and feedback. Completed assignments are terminal.
type CompletionService struct {
	assignments repository.AssignmentRepository
	dispatcher  events.Dispatcher
	store       config.StoreConfig
	logger      *zap.Logger
}

// NewCompletionService constructs the recorder.
func NewCompletionService(assignments repository.AssignmentRepository, dispatcher events.Dispatcher, store config.StoreConfig, logger *zap.Logger) *CompletionService {
	return &CompletionService{assignments: assignments, dispatcher: dispatcher, store: store, logger: logger}
}

// RecordCompletion closes out an active assignment. The completed date is
// the source of truth for duration: an omitted or inconsistent completion
// time is derived as ceil((completedDate − assignedDate) / 1h).
func (s *CompletionService) RecordCompletion(ctx context.Context, assignmentID string, input CompletionInput) (*domain.Assignment, error) {
	if input.FeedbackScore < minFeedbackScore || input.FeedbackScore > maxFeedbackScore {
		return nil, apperrors.NewValidationError("feedback score out of range",
			map[string]any{"feedback_score": input.FeedbackScore, "allowed_range": "[1,5]"})
	}
	if input.CompletedDate.IsZero() {
		return nil, apperrors.NewValidationError("completed date required",
			map[string]any{"completed_date": nil})
	}

	var assignment *domain.Assignment
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		a, err := s.assignments.GetByID(ctx, assignmentID)
		if err != nil {
			return err
		}
		assignment = a
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("assignment", map[string]any{"assignment_id": assignmentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignment.Active() {
		return nil, apperrors.NewAlreadyCompleted(assignmentID)
	}
	if input.CompletedDate.Before(assignment.AssignedDate) {
		return nil, apperrors.NewValidationError("completed date precedes assigned date",
			map[string]any{"completed_date": input.CompletedDate, "assigned_date": assignment.AssignedDate})
	}

	derived := ceilHours(input.CompletedDate.Sub(assignment.AssignedDate))
	hours := derived
	if input.CompletionTimeHours != nil {
		supplied := *input.CompletionTimeHours
		if diff := supplied - derived; supplied >= 0 && diff >= -completionTolerance && diff <= completionTolerance {
			hours = supplied
		}
	}

	completed := input.CompletedDate.UTC()
	feedback := input.FeedbackScore
	assignment.CompletedDate = &completed
	assignment.CompletionTimeHours = &hours
	assignment.FeedbackScore = &feedback

	err = callStore(ctx, s.store, func(ctx context.Context) error {
		return s.assignments.Update(ctx, assignment)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("assignment", map[string]any{"assignment_id": assignmentID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, assignment)

	s.logger.Info("assignment completed",
		zap.String("assignment_id", assignmentID),
		zap.Int("completion_time_hours", hours),
		zap.Int("feedback_score", feedback),
	)
	return assignment, nil
}

func (s *CompletionService) publish(ctx context.Context, assignment *domain.Assignment) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         events.EventAssignmentCompleted,
		AssignmentID: assignment.ID,
		Timestamp:    time.Now(),
		Payload: events.AssignmentCompletedPayload{
			TaskID:              assignment.TaskID,
			EmployeeID:          assignment.EmployeeID,
			CompletionTimeHours: *assignment.CompletionTimeHours,
			FeedbackScore:       *assignment.FeedbackScore,
		},
	})
}

func ceilHours(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Hour - 1) / time.Hour)
}
