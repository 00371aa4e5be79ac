package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/repository"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

// RecommendationCache stores computed recommendations between workload changes.
type RecommendationCache interface {
	Get(ctx context.Context, taskID string) (*domain.Recommendation, error)
	Set(ctx context.Context, taskID string, rec *domain.Recommendation) error
	InvalidateAll(ctx context.Context) error
}

// RecommendationService ranks eligible employees for a task. Scoring is a
// pure function of the directory snapshot: identical data yields an
// identical ranking.
type RecommendationService struct {
	tasks     repository.TaskRepository
	employees repository.EmployeeRepository
	scoring   config.ScoringConfig
	store     config.StoreConfig
	cache     RecommendationCache
	logger    *zap.Logger
}

// RecommendationDependencies bundles collaborators.
type RecommendationDependencies struct {
	TaskRepo     repository.TaskRepository
	EmployeeRepo repository.EmployeeRepository
	Cache        RecommendationCache
}

// NewRecommendationService constructs the scorer.
func NewRecommendationService(deps RecommendationDependencies, scoring config.ScoringConfig, store config.StoreConfig, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		tasks:     deps.TaskRepo,
		employees: deps.EmployeeRepo,
		scoring:   scoring,
		store:     store,
		cache:     deps.Cache,
		logger:    logger,
	}
}

// Recommend returns the ranked candidates for a task. Unknown task yields
// NotFound; a task no employee has any required skill for yields NoEligible.
func (s *RecommendationService) Recommend(ctx context.Context, taskID string) (*domain.Recommendation, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, taskID); err != nil {
			s.logger.Warn("recommendation cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

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

	var employees []domain.Employee
	err = callStore(ctx, s.store, func(ctx context.Context) error {
		list, err := s.employees.List(ctx)
		if err != nil {
			return err
		}
		employees = list
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ranked := Rank(task, employees, s.scoring)
	if len(ranked) == 0 {
		return nil, apperrors.NewNoEligible(taskID)
	}

	rec := &domain.Recommendation{TaskID: taskID, Best: ranked[0], Ranked: ranked}

	if s.cache != nil {
		if err := s.cache.Set(ctx, taskID, rec); err != nil {
			s.logger.Warn("recommendation cache write failed", zap.Error(err))
		}
	}
	return rec, nil
}

// Rank scores every eligible employee for the task and orders the result by
// score descending, then performance descending, then employee id ascending.
func Rank(task *domain.Task, employees []domain.Employee, cfg config.ScoringConfig) []domain.Candidate {
	required := dedupe(task.RequiredSkills)
	if len(required) == 0 {
		return nil
	}

	eligible := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		if e.HasAnySkill(required) {
			eligible = append(eligible, e)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	workloadScale := scaleFor(eligible, cfg.MaxWorkload, func(e domain.Employee) float64 { return float64(e.CurrentWorkload) })
	performanceScale := scaleFor(eligible, cfg.MaxPerformance, func(e domain.Employee) float64 { return e.PerformanceScore })
	experienceScale := scaleFor(eligible, cfg.MaxExperience, func(e domain.Employee) float64 { return float64(e.Experience) })

	candidates := make([]domain.Candidate, 0, len(eligible))
	for _, e := range eligible {
		matchRatio := float64(domain.CountSkillOverlap(e.Skills, required)) / float64(len(required))
		score := cfg.SkillMatchWeight*matchRatio +
			cfg.WorkloadWeight*(1-workloadScale.normalize(float64(e.CurrentWorkload))) +
			cfg.PerformanceWeight*performanceScale.normalize(e.PerformanceScore) +
			cfg.ExperienceWeight*experienceScale.normalize(float64(e.Experience))
		candidates = append(candidates, domain.Candidate{
			Employee:        e,
			Score:           score,
			SkillMatchRatio: matchRatio,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].Employee.PerformanceScore != candidates[j].Employee.PerformanceScore {
			return candidates[i].Employee.PerformanceScore > candidates[j].Employee.PerformanceScore
		}
		return candidates[i].Employee.ID < candidates[j].Employee.ID
	})
	return candidates
}

// linearScale maps raw values onto [0,1]. A fixed upper bound wins over the
// observed population range; a degenerate range normalizes everything to 0.
type linearScale struct {
	min  float64
	span float64
}

func scaleFor(employees []domain.Employee, fixedMax float64, value func(domain.Employee) float64) linearScale {
	if fixedMax > 0 {
		return linearScale{min: 0, span: fixedMax}
	}
	min, max := value(employees[0]), value(employees[0])
	for _, e := range employees[1:] {
		v := value(e)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return linearScale{min: min, span: max - min}
}

func (s linearScale) normalize(v float64) float64 {
	if s.span <= 0 {
		return 0
	}
	n := (v - s.min) / s.span
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
