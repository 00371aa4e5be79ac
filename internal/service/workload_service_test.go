package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/repository"
	"github.com/deca109/TaskFlow.ai/internal/repository/memory"
	"github.com/deca109/TaskFlow.ai/internal/service"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

func TestAdjustAppliesDelta(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", Name: "E1", CurrentWorkload: 3})

	svc := service.NewWorkloadService(store.Employees(), testStoreConfig(), zap.NewNop())

	got, err := svc.Adjust(context.Background(), "e1", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

func TestAdjustFloorsAtZero(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", CurrentWorkload: 2})

	svc := service.NewWorkloadService(store.Employees(), testStoreConfig(), zap.NewNop())

	got, err := svc.Adjust(context.Background(), "e1", -10)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestAdjustUnknownEmployee(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewWorkloadService(store.Employees(), testStoreConfig(), zap.NewNop())

	_, err := svc.Adjust(context.Background(), "ghost", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestAdjustConcurrentDeltasNeverLost(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", CurrentWorkload: 0})

	svc := service.NewWorkloadService(store.Employees(), testStoreConfig(), zap.NewNop())

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.Adjust(context.Background(), "e1", 2)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	employee, err := store.Employees().GetByID(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, workers*2, employee.CurrentWorkload)
}

// conflictingEmployeeRepo fails the first workload write with a version
// conflict to exercise the bounded retry.
type conflictingEmployeeRepo struct {
	repository.EmployeeRepository
	mu       sync.Mutex
	failures int
}

func (r *conflictingEmployeeRepo) UpdateWorkload(ctx context.Context, id string, newWorkload, expectedVersion int) error {
	r.mu.Lock()
	if r.failures > 0 {
		r.failures--
		r.mu.Unlock()
		return repository.ErrVersionConflict
	}
	r.mu.Unlock()
	return r.EmployeeRepository.UpdateWorkload(ctx, id, newWorkload, expectedVersion)
}

func TestAdjustRetriesOnceOnVersionConflict(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", CurrentWorkload: 1})

	repo := &conflictingEmployeeRepo{EmployeeRepository: store.Employees(), failures: 1}
	svc := service.NewWorkloadService(repo, testStoreConfig(), zap.NewNop())

	got, err := svc.Adjust(context.Background(), "e1", 4)
	require.NoError(t, err)
	assert.Equal(t, 5, got)
}

// hangingEmployeeRepo never answers; every read blocks until the per-call
// timeout cancels its context.
type hangingEmployeeRepo struct {
	repository.EmployeeRepository
	mu    sync.Mutex
	calls int
}

func (r *hangingEmployeeRepo) GetByID(ctx context.Context, _ string) (*domain.Employee, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestAdjustMapsTimeoutToStoreUnavailable(t *testing.T) {
	repo := &hangingEmployeeRepo{}
	cfg := config.StoreConfig{TimeoutSeconds: 1, RetryBackoffMS: 1, ConflictRetries: 1}
	svc := service.NewWorkloadService(repo, cfg, zap.NewNop())

	_, err := svc.Adjust(context.Background(), "e1", 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "STORE_UNAVAILABLE"))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, 2, repo.calls, "initial attempt plus one retry")
}

func TestAdjustSurfacesConflictAfterRetryBudget(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", CurrentWorkload: 1})

	repo := &conflictingEmployeeRepo{EmployeeRepository: store.Employees(), failures: 10}
	svc := service.NewWorkloadService(repo, testStoreConfig(), zap.NewNop())

	_, err := svc.Adjust(context.Background(), "e1", 4)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONCURRENCY_CONFLICT"))
}
