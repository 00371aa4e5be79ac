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
	"github.com/deca109/TaskFlow.ai/internal/repository/memory"
	"github.com/deca109/TaskFlow.ai/internal/service"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

func testStoreConfig() config.StoreConfig {
	return config.StoreConfig{TimeoutSeconds: 5, RetryBackoffMS: 1, ConflictRetries: 1}
}

func testScoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		SkillMatchWeight:  0.4,
		WorkloadWeight:    0.3,
		PerformanceWeight: 0.2,
		ExperienceWeight:  0.1,
		MaxPerformance:    5,
	}
}

func newRecommendationService(t *testing.T, store *memory.Store, cache service.RecommendationCache) *service.RecommendationService {
	t.Helper()
	return service.NewRecommendationService(service.RecommendationDependencies{
		TaskRepo:     store.Tasks(),
		EmployeeRepo: store.Employees(),
		Cache:        cache,
	}, testScoringConfig(), testStoreConfig(), zap.NewNop())
}

func seedEmployee(t *testing.T, store *memory.Store, e domain.Employee) {
	t.Helper()
	require.NoError(t, store.Employees().Create(context.Background(), &e))
}

func seedTask(t *testing.T, store *memory.Store, task domain.Task) {
	t.Helper()
	require.NoError(t, store.Tasks().Create(context.Background(), &task))
}

func TestRecommendPrefersFullSkillMatchOverPerformance(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", Name: "E1", Skills: []string{"Python", "SQL"}, Experience: 5, CurrentWorkload: 0, PerformanceScore: 4.0})
	seedEmployee(t, store, domain.Employee{ID: "e2", Name: "E2", Skills: []string{"Python"}, Experience: 5, CurrentWorkload: 10, PerformanceScore: 4.5})
	seedTask(t, store, domain.Task{ID: "t1", RequiredSkills: []string{"Python", "SQL"}, Priority: 5, EstimatedTime: 14, Complexity: 5})

	svc := newRecommendationService(t, store, nil)
	rec, err := svc.Recommend(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, "e1", rec.Best.Employee.ID)
	require.Len(t, rec.Ranked, 2)
	assert.Equal(t, "e1", rec.Ranked[0].Employee.ID)
	assert.Equal(t, "e2", rec.Ranked[1].Employee.ID)
	assert.InDelta(t, 1.0, rec.Ranked[0].SkillMatchRatio, 1e-9)
	assert.InDelta(t, 0.5, rec.Ranked[1].SkillMatchRatio, 1e-9)
	assert.Greater(t, rec.Ranked[0].Score, rec.Ranked[1].Score)
}

func TestRecommendDeterministicForFixedSnapshot(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", Skills: []string{"Go", "SQL"}, Experience: 3, CurrentWorkload: 2, PerformanceScore: 3.5})
	seedEmployee(t, store, domain.Employee{ID: "e2", Skills: []string{"Go"}, Experience: 8, CurrentWorkload: 1, PerformanceScore: 4.2})
	seedEmployee(t, store, domain.Employee{ID: "e3", Skills: []string{"SQL", "Go"}, Experience: 1, CurrentWorkload: 6, PerformanceScore: 2.9})
	seedTask(t, store, domain.Task{ID: "t1", RequiredSkills: []string{"Go", "SQL"}, Priority: 3, EstimatedTime: 7, Complexity: 4})

	svc := newRecommendationService(t, store, nil)
	first, err := svc.Recommend(context.Background(), "t1")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := svc.Recommend(context.Background(), "t1")
		require.NoError(t, err)
		require.Equal(t, first.Best.Employee.ID, again.Best.Employee.ID)
		require.Len(t, again.Ranked, len(first.Ranked))
		for j := range first.Ranked {
			assert.Equal(t, first.Ranked[j].Employee.ID, again.Ranked[j].Employee.ID)
			assert.Equal(t, first.Ranked[j].Score, again.Ranked[j].Score)
		}
	}
}

func TestRecommendUnknownTask(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", Skills: []string{"Go"}})

	svc := newRecommendationService(t, store, nil)
	_, err := svc.Recommend(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestRecommendNoEligibleDistinctFromNotFound(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", Skills: []string{"Rust"}})
	seedTask(t, store, domain.Task{ID: "t1", RequiredSkills: []string{"COBOL"}, Priority: 1, EstimatedTime: 1, Complexity: 1})

	svc := newRecommendationService(t, store, nil)
	_, err := svc.Recommend(context.Background(), "t1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NO_ELIGIBLE"))
	assert.False(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestRankTieBreaks(t *testing.T) {
	// Performance weight zero so equal scores expose the tie-break chain.
	cfg := config.ScoringConfig{SkillMatchWeight: 1}
	task := &domain.Task{ID: "t1", RequiredSkills: []string{"Go"}}
	employees := []domain.Employee{
		{ID: "b", Skills: []string{"Go"}, PerformanceScore: 3},
		{ID: "a", Skills: []string{"Go"}, PerformanceScore: 3},
		{ID: "c", Skills: []string{"Go"}, PerformanceScore: 4},
	}

	ranked := service.Rank(task, employees, cfg)
	require.Len(t, ranked, 3)
	assert.Equal(t, "c", ranked[0].Employee.ID, "higher performance wins the score tie")
	assert.Equal(t, "a", ranked[1].Employee.ID, "lower id wins the full tie")
	assert.Equal(t, "b", ranked[2].Employee.ID)
}

func TestRankDegenerateRangesNormalizeToZero(t *testing.T) {
	cfg := testScoringConfig()
	task := &domain.Task{ID: "t1", RequiredSkills: []string{"Go"}}
	employees := []domain.Employee{
		{ID: "a", Skills: []string{"Go"}, Experience: 4, CurrentWorkload: 3, PerformanceScore: 2},
		{ID: "b", Skills: []string{"Go"}, Experience: 4, CurrentWorkload: 3, PerformanceScore: 2},
	}

	ranked := service.Rank(task, employees, cfg)
	require.Len(t, ranked, 2)
	// Identical populations collapse to skill + workload + performance terms only.
	assert.Equal(t, ranked[0].Score, ranked[1].Score)
	assert.Equal(t, "a", ranked[0].Employee.ID)
}

// recordingCache counts cache traffic for assertions.
type recordingCache struct {
	mu          sync.Mutex
	entries     map[string]*domain.Recommendation
	gets, sets  int
	invalidates int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{entries: map[string]*domain.Recommendation{}}
}

func (c *recordingCache) Get(_ context.Context, taskID string) (*domain.Recommendation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	return c.entries[taskID], nil
}

func (c *recordingCache) Set(_ context.Context, taskID string, rec *domain.Recommendation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.entries[taskID] = rec
	return nil
}

func (c *recordingCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidates++
	c.entries = map[string]*domain.Recommendation{}
	return nil
}

func TestRecommendUsesCache(t *testing.T) {
	store := memory.NewStore()
	seedEmployee(t, store, domain.Employee{ID: "e1", Skills: []string{"Go"}, PerformanceScore: 4})
	seedTask(t, store, domain.Task{ID: "t1", RequiredSkills: []string{"Go"}, Priority: 1, EstimatedTime: 7, Complexity: 1})

	cache := newRecordingCache()
	svc := newRecommendationService(t, store, cache)

	first, err := svc.Recommend(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := svc.Recommend(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets, "second call must be served from cache")
	assert.Equal(t, first.Best.Employee.ID, second.Best.Employee.ID)
}
