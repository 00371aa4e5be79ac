package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/repository"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

// DirectoryService exposes directory reads and thin passthrough creates so a
// standalone deployment can be seeded. It applies field validation only; no
// assignment business rules live here.
type DirectoryService struct {
	tasks     repository.TaskRepository
	employees repository.EmployeeRepository
	store     config.StoreConfig
	logger    *zap.Logger
}

// NewDirectoryService constructs the service.
func NewDirectoryService(tasks repository.TaskRepository, employees repository.EmployeeRepository, store config.StoreConfig, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{tasks: tasks, employees: employees, store: store, logger: logger}
}

// CreateTask validates and stores a new task.
func (s *DirectoryService) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if strings.TrimSpace(task.ID) == "" {
		return nil, apperrors.NewValidationError("task id required", map[string]any{"id": task.ID})
	}
	if len(task.RequiredSkills) == 0 {
		return nil, apperrors.NewValidationError("required skills must be non-empty", map[string]any{"required_skills": task.RequiredSkills})
	}
	if task.Priority < 1 || task.Priority > 10 {
		return nil, apperrors.NewValidationError("priority out of range", map[string]any{"priority": task.Priority, "allowed_range": "[1,10]"})
	}
	if task.EstimatedTime <= 0 {
		return nil, apperrors.NewValidationError("estimated time must be positive", map[string]any{"estimated_time": task.EstimatedTime})
	}
	if task.Complexity < 1 || task.Complexity > 10 {
		return nil, apperrors.NewValidationError("complexity out of range", map[string]any{"complexity": task.Complexity, "allowed_range": "[1,10]"})
	}

	err := callStore(ctx, s.store, func(ctx context.Context) error {
		return s.tasks.Create(ctx, task)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// CreateEmployee validates and stores a new employee.
func (s *DirectoryService) CreateEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if strings.TrimSpace(employee.ID) == "" {
		return nil, apperrors.NewValidationError("employee id required", map[string]any{"id": employee.ID})
	}
	if strings.TrimSpace(employee.Name) == "" {
		return nil, apperrors.NewValidationError("employee name required", map[string]any{"name": employee.Name})
	}
	if employee.Experience < 0 {
		return nil, apperrors.NewValidationError("experience must be non-negative", map[string]any{"experience": employee.Experience})
	}
	if employee.CurrentWorkload < 0 {
		return nil, apperrors.NewValidationError("workload must be non-negative", map[string]any{"current_workload": employee.CurrentWorkload})
	}
	if employee.PerformanceScore < 0 || employee.PerformanceScore > 5 {
		return nil, apperrors.NewValidationError("performance score out of range", map[string]any{"performance_score": employee.PerformanceScore, "allowed_range": "[0,5]"})
	}

	err := callStore(ctx, s.store, func(ctx context.Context) error {
		return s.employees.Create(ctx, employee)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// GetTask fetches one task.
func (s *DirectoryService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		t, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		task = t
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// ListTasks fetches all tasks.
func (s *DirectoryService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var list []domain.Task
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		l, err := s.tasks.List(ctx)
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

// GetEmployee fetches one employee.
func (s *DirectoryService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	var employee *domain.Employee
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		e, err := s.employees.GetByID(ctx, id)
		if err != nil {
			return err
		}
		employee = e
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// ListEmployees fetches all employees.
func (s *DirectoryService) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var list []domain.Employee
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		l, err := s.employees.List(ctx)
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

// ListSkills returns the distinct skills across all employees, sorted.
func (s *DirectoryService) ListSkills(ctx context.Context) ([]string, error) {
	employees, err := s.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	skills := make([]string, 0)
	for _, e := range employees {
		for _, skill := range e.Skills {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}
	sort.Strings(skills)
	return skills, nil
}
