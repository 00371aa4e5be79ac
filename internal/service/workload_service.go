package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"go.uber.org/zap"

	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/repository"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

const workloadLockStripes = 64

// WorkloadService is the single writer for employee workload counters.
// Adjustments for the same employee are serialized in-process by a striped
// mutex; the store's version check catches writers on other instances.
type WorkloadService struct {
	employees repository.EmployeeRepository
	store     config.StoreConfig
	logger    *zap.Logger
	locks     [workloadLockStripes]sync.Mutex
}

// NewWorkloadService constructs the accountant.
func NewWorkloadService(employees repository.EmployeeRepository, store config.StoreConfig, logger *zap.Logger) *WorkloadService {
	return &WorkloadService{employees: employees, store: store, logger: logger}
}

// Adjust applies currentWorkload = max(0, currentWorkload + delta) and
// returns the new workload. Unknown employees yield NotFound.
func (s *WorkloadService) Adjust(ctx context.Context, employeeID string, delta int) (int, error) {
	lock := &s.locks[stripeFor(employeeID)]
	lock.Lock()
	defer lock.Unlock()

	retries := s.store.ConflictRetries
	if retries < 0 {
		retries = 0
	}

	var newWorkload int
	for attempt := 0; ; attempt++ {
		employee, err := s.getEmployee(ctx, employeeID)
		if err != nil {
			return 0, err
		}

		newWorkload = employee.CurrentWorkload + delta
		if newWorkload < 0 {
			newWorkload = 0
		}

		err = callStore(ctx, s.store, func(ctx context.Context) error {
			return s.employees.UpdateWorkload(ctx, employeeID, newWorkload, employee.Version)
		})
		if err == nil {
			return newWorkload, nil
		}
		if errors.Is(err, repository.ErrVersionConflict) {
			if attempt < retries {
				s.logger.Debug("workload version conflict, retrying",
					zap.String("employee_id", employeeID), zap.Int("attempt", attempt+1))
				continue
			}
			return 0, apperrors.NewConcurrencyConflict("workload update lost the race",
				map[string]any{"employee_id": employeeID})
		}
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return 0, apperrors.MapError(err)
	}
}

func (s *WorkloadService) getEmployee(ctx context.Context, employeeID string) (*repositoryEmployee, error) {
	var employee *repositoryEmployee
	err := callStore(ctx, s.store, func(ctx context.Context) error {
		e, err := s.employees.GetByID(ctx, employeeID)
		if err != nil {
			return err
		}
		employee = &repositoryEmployee{CurrentWorkload: e.CurrentWorkload, Version: e.Version}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"employee_id": employeeID})
		}
		return nil, apperrors.MapError(err)
	}
	return employee, nil
}

// repositoryEmployee carries just the fields the accountant reads.
type repositoryEmployee struct {
	CurrentWorkload int
	Version         int
}

func stripeFor(id string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return h.Sum32() % workloadLockStripes
}
