package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/deca109/TaskFlow.ai/internal/api/http"
	"github.com/deca109/TaskFlow.ai/internal/api/http/handlers"
	"github.com/deca109/TaskFlow.ai/internal/config"
	"github.com/deca109/TaskFlow.ai/internal/events"
	"github.com/deca109/TaskFlow.ai/internal/observability"
	"github.com/deca109/TaskFlow.ai/internal/repository/memory"
	"github.com/deca109/TaskFlow.ai/internal/service"
	"github.com/deca109/TaskFlow.ai/internal/worker"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store := memory.NewStore()
	logger := zap.NewNop()
	storeCfg := config.StoreConfig{TimeoutSeconds: 5, RetryBackoffMS: 1, ConflictRetries: 1}
	scoringCfg := config.ScoringConfig{
		SkillMatchWeight:  0.4,
		WorkloadWeight:    0.3,
		PerformanceWeight: 0.2,
		ExperienceWeight:  0.1,
		MaxPerformance:    5,
	}

	dispatcher := events.NewInMemoryDispatcher()
	workload := service.NewWorkloadService(store.Employees(), storeCfg, logger)
	recommendations := service.NewRecommendationService(service.RecommendationDependencies{
		TaskRepo:     store.Tasks(),
		EmployeeRepo: store.Employees(),
	}, scoringCfg, storeCfg, logger)
	assignments := service.NewAssignmentService(service.AssignmentDependencies{
		TaskRepo:       store.Tasks(),
		EmployeeRepo:   store.Employees(),
		AssignmentRepo: store.Assignments(),
		Workload:       workload,
		Dispatcher:     dispatcher,
	}, storeCfg, logger)
	completions := service.NewCompletionService(store.Assignments(), dispatcher, storeCfg, logger)
	directory := service.NewDirectoryService(store.Tasks(), store.Employees(), storeCfg, logger)

	worker.StartCacheInvalidator(dispatcher, nil, logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler("test", "dev", nil, nil),
		Metrics:         handlers.NewMetricsHandler(metrics),
		Recommendations: handlers.NewRecommendationsHandler(recommendations),
		Assignments:     handlers.NewAssignmentsHandler(assignments, completions),
		Directory:       handlers.NewDirectoryHandler(directory),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func seedDirectory(t *testing.T, app *fiber.App) {
	t.Helper()
	resp, _ := doJSON(t, app, http.MethodPost, "/employees", map[string]any{
		"id": "e1", "name": "Ada", "role": "Engineer",
		"skills": []string{"Python", "SQL"}, "experience": 5,
		"availability": 40, "performance_score": 4.0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/employees", map[string]any{
		"id": "e2", "name": "Grace", "role": "Engineer",
		"skills": []string{"Python"}, "experience": 5,
		"availability": 40, "current_workload": 10, "performance_score": 4.5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"id": "t1", "description": "ETL pipeline",
		"required_skills": []string{"Python", "SQL"},
		"priority":        5, "estimated_time": 14, "complexity": 6,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRecommendEndpoint(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/recommend/t1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	best := data["best"].(map[string]any)
	employee := best["employee"].(map[string]any)
	assert.Equal(t, "e1", employee["id"])
	assert.Len(t, data["ranked"].([]any), 2)
}

func TestRecommendUnknownTaskReturns404(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/recommend/missing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errObj := body["error"].(map[string]any)
	assert.Equal(t, "NOT_FOUND", errObj["code"])
}

func TestRecommendNoEligibleReturns204(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, _ := doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"id": "t2", "required_skills": []string{"COBOL"},
		"priority": 1, "estimated_time": 7, "complexity": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/recommend/t2", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAssignAndConflict(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/assign", map[string]any{
		"task_id": "t1", "employee_id": "e1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ACTIVE", data["status"])
	assert.Equal(t, float64(2), data["workload_delta"], "ceil(14/7)")

	// Workload became server-authoritative.
	resp, body = doJSON(t, app, http.MethodGet, "/employees/e1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["data"].(map[string]any)["current_workload"])

	resp, body = doJSON(t, app, http.MethodPost, "/assign", map[string]any{
		"task_id": "t1", "employee_id": "e2",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_ASSIGNED", body["error"].(map[string]any)["code"])
}

func TestCompleteEndpointValidation(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, body := doJSON(t, app, http.MethodPost, "/assign", map[string]any{
		"task_id": "t1", "employee_id": "e1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assignmentID := body["data"].(map[string]any)["id"].(string)

	resp, body = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/assignments/%s/complete", assignmentID), map[string]any{
			"completed_date": time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
			"feedback_score": 6,
		})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	resp, body = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/assignments/%s/complete", assignmentID), map[string]any{
			"completed_date": time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
			"feedback_score": 4,
		})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "COMPLETED", data["status"])
	assert.NotNil(t, data["completion_time_hours"])
}

func TestAssignmentsListing(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/assignments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])

	resp, _ = doJSON(t, app, http.MethodPost, "/assign", map[string]any{
		"task_id": "t1", "employee_id": "e2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodGet, "/assignments", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"].([]any), 1)
}

func TestSkillsEndpoint(t *testing.T) {
	app := newTestApp(t)
	seedDirectory(t, app)

	resp, body := doJSON(t, app, http.MethodGet, "/skills", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	skills := body["data"].([]any)
	assert.Equal(t, []any{"Python", "SQL"}, skills)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	requests := body["requests"].(map[string]any)
	assert.Equal(t, float64(1), requests["/health/live|GET|200"])
}

func TestCreateTaskValidation(t *testing.T) {
	app := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"id": "bad", "required_skills": []string{}, "priority": 5,
		"estimated_time": 10, "complexity": 5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])

	resp, body = doJSON(t, app, http.MethodPost, "/tasks", map[string]any{
		"id": "bad", "required_skills": []string{"Go"}, "priority": 11,
		"estimated_time": 10, "complexity": 5,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}
