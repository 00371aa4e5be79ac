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

// AssignmentService owns the task↔employee assignment ledger. It enforces
// at-most-one-active-assignment-per-task and keeps the workload counter in
// step with ledger mutations.
type AssignmentService struct {
	tasks       repository.TaskRepository
	employees   repository.EmployeeRepository
	assignments repository.AssignmentRepository
	workload    *WorkloadService
	dispatcher  events.Dispatcher
	store       config.StoreConfig
	logger      *zap.Logger
	now         func() time.Time
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	TaskRepo       repository.TaskRepository
	EmployeeRepo   repository.EmployeeRepository
	AssignmentRepo repository.AssignmentRepository
	Workload       *WorkloadService
	Dispatcher     events.Dispatcher
}

// NewAssignmentService creates the ledger service.
func NewAssignmentService(deps AssignmentDependencies, store config.StoreConfig, logger *zap.Logger) *AssignmentService {
	return &AssignmentService{
		tasks:       deps.TaskRepo,
		employees:   deps.EmployeeRepo,
		assignments: deps.AssignmentRepo,
		workload:    deps.Workload,
		dispatcher:  deps.Dispatcher,
		store:       store,
		logger:      logger,
		now:         time.Now,
	}
}

// Assign records that the employee starts working on the task. The ledger
// insert is the exclusivity gate; the workload delta follows, and a failed
// delta rolls the insert back so callers never observe a half-applied pair.
func (s *AssignmentService) Assign(ctx context.Context, taskID, employeeID string) (*domain.Assignment, error) {
	var task *domain.Task
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		t, err := s.tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.MapError(err)
	}

	err = callStore(ctx, s.store, func(ctx context.Context) error {
		_, err := s.employees.GetByID(ctx, employeeID)
		return err
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}

	assignment := &domain.Assignment{
		ID:            uuid.NewString(),
		TaskID:        taskID,
		EmployeeID:    employeeID,
		AssignedDate:  s.now().UTC(),
		WorkloadDelta: task.WorkloadDelta(),
	}

	err = callStore(ctx, s.store, func(ctx context.Context) error {
		return s.assignments.Insert(ctx, assignment)
	})
	if err != nil {
		if errors.Is(err, repository.ErrActiveAssignmentExists) {
			return nil, s.alreadyAssigned(ctx, taskID)
		}
		return nil, apperrors.MapError(err)
	}

	if _, err := s.workload.Adjust(ctx, employeeID, assignment.WorkloadDelta); err != nil {
		s.rollbackInsert(ctx, assignment.ID)
		return nil, err
	}

	s.publish(ctx, events.EventAssignmentCreated, assignment.ID, events.AssignmentCreatedPayload{
		TaskID:        taskID,
		EmployeeID:    employeeID,
		WorkloadDelta: assignment.WorkloadDelta,
	})

	s.logger.Info("task assigned",
		zap.String("task_id", taskID),
		zap.String("employee_id", employeeID),
		zap.Int("workload_delta", assignment.WorkloadDelta),
	)
	return assignment, nil
}

// Get returns a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*domain.Assignment, error) {
	var assignment *domain.Assignment
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		a, err := s.assignments.GetByID(ctx, id)
		if err != nil {
			return err
		}
		assignment = a
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("assignment", map[string]any{"assignment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return assignment, nil
}

// List returns all assignments, active and completed.
func (s *AssignmentService) List(ctx context.Context) ([]domain.Assignment, error) {
	var list []domain.Assignment
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		l, err := s.assignments.List(ctx)
		if err != nil {
			return err
		}
		list = l
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// alreadyAssigned builds the conflict error, naming the assignment that holds
// the task when it can still be read. A racing completion may have freed the
// task by now, so a missing active row just leaves the details sparse.
func (s *AssignmentService) alreadyAssigned(ctx context.Context, taskID string) error {
	details := map[string]any{}
	_ = callStore(ctx, s.store, func(ctx context.Context) error {
		active, err := s.assignments.GetActiveByTask(ctx, taskID)
		if err != nil {
			return err
		}
		details["active_assignment_id"] = active.ID
		details["assigned_employee_id"] = active.EmployeeID
		return nil
	})
	return apperrors.NewAlreadyAssigned(taskID, details)
}

// rollbackInsert compensates a ledger insert whose workload delta failed.
func (s *AssignmentService) rollbackInsert(ctx context.Context, assignmentID string) {
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		return s.assignments.Delete(ctx, assignmentID)
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error("failed to roll back assignment insert",
			zap.String("assignment_id", assignmentID), zap.Error(err))
	}
}

func (s *AssignmentService) publish(ctx context.Context, eventType events.EventType, assignmentID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		AssignmentID: assignmentID,
		Timestamp:    s.now(),
		Payload:      payload,
	})
}
