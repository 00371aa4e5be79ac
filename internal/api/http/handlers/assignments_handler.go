package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deca109/TaskFlow.ai/internal/api/dto"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/service"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

// AssignmentsHandler exposes the assignment ledger endpoints.
type AssignmentsHandler struct {
	assignments *service.AssignmentService
	completions *service.CompletionService
}

// NewAssignmentsHandler constructs the handler.
func NewAssignmentsHandler(assignments *service.AssignmentService, completions *service.CompletionService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments, completions: completions}
}

// Assign handles POST /assign.
func (h *AssignmentsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TaskID == "" || req.EmployeeID == "" {
		return apperrors.NewValidationError("task_id and employee_id required", map[string]any{
			"task_id":     req.TaskID,
			"employee_id": req.EmployeeID,
		})
	}

	assignment, err := h.assignments.Assign(c.UserContext(), req.TaskID, req.EmployeeID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": assignmentResponse(assignment)})
}

// Complete handles PUT /assignments/:id/complete.
func (h *AssignmentsHandler) Complete(c *fiber.Ctx) error {
	var req dto.CompleteAssignmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	assignment, err := h.completions.RecordCompletion(c.UserContext(), c.Params("id"), service.CompletionInput{
		CompletedDate:       req.CompletedDate,
		FeedbackScore:       req.FeedbackScore,
		CompletionTimeHours: req.CompletionTimeHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponse(assignment)})
}

// Get handles GET /assignments/:id.
func (h *AssignmentsHandler) Get(c *fiber.Ctx) error {
	assignment, err := h.assignments.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponse(assignment)})
}

// List handles GET /assignments.
func (h *AssignmentsHandler) List(c *fiber.Ctx) error {
	list, err := h.assignments.List(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.AssignmentResponse, 0, len(list))
	for i := range list {
		resp = append(resp, assignmentResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

func assignmentResponse(a *domain.Assignment) dto.AssignmentResponse {
	return dto.AssignmentResponse{
		ID:                  a.ID,
		TaskID:              a.TaskID,
		EmployeeID:          a.EmployeeID,
		Status:              a.Status(),
		AssignedDate:        a.AssignedDate,
		CompletedDate:       a.CompletedDate,
		CompletionTimeHours: a.CompletionTimeHours,
		FeedbackScore:       a.FeedbackScore,
		WorkloadDelta:       a.WorkloadDelta,
	}
}
