package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/deca109/TaskFlow.ai/internal/api/dto"
	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/service"
	apperrors "github.com/deca109/TaskFlow.ai/pkg/util"
)

// DirectoryHandler exposes task/employee directory endpoints.
type DirectoryHandler struct {
	directory *service.DirectoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(directory *service.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory}
}

// CreateTask handles POST /tasks.
func (h *DirectoryHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.directory.CreateTask(c.UserContext(), &domain.Task{
		ID:             req.ID,
		Description:    req.Description,
		RequiredSkills: req.RequiredSkills,
		Priority:       req.Priority,
		EstimatedTime:  req.EstimatedTime,
		Complexity:     req.Complexity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": taskResponse(task)})
}

// GetTask handles GET /tasks/:id.
func (h *DirectoryHandler) GetTask(c *fiber.Ctx) error {
	task, err := h.directory.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponse(task)})
}

// ListTasks handles GET /tasks.
func (h *DirectoryHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := h.directory.ListTasks(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		resp = append(resp, taskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CreateEmployee handles POST /employees.
func (h *DirectoryHandler) CreateEmployee(c *fiber.Ctx) error {
	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	employee, err := h.directory.CreateEmployee(c.UserContext(), &domain.Employee{
		ID:               req.ID,
		Name:             req.Name,
		Role:             req.Role,
		Skills:           req.Skills,
		Experience:       req.Experience,
		Availability:     req.Availability,
		CurrentWorkload:  req.CurrentWorkload,
		PerformanceScore: req.PerformanceScore,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employeeResponse(employee)})
}

// GetEmployee handles GET /employees/:id.
func (h *DirectoryHandler) GetEmployee(c *fiber.Ctx) error {
	employee, err := h.directory.GetEmployee(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employeeResponse(employee)})
}

// ListEmployees handles GET /employees.
func (h *DirectoryHandler) ListEmployees(c *fiber.Ctx) error {
	employees, err := h.directory.ListEmployees(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		resp = append(resp, employeeResponse(&employees[i]))
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListSkills handles GET /skills.
func (h *DirectoryHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.directory.ListSkills(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": skills})
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:             task.ID,
		Description:    task.Description,
		RequiredSkills: task.RequiredSkills,
		Priority:       task.Priority,
		EstimatedTime:  task.EstimatedTime,
		Complexity:     task.Complexity,
	}
}

func employeeResponse(employee *domain.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:               employee.ID,
		Name:             employee.Name,
		Role:             employee.Role,
		Skills:           employee.Skills,
		Experience:       employee.Experience,
		Availability:     employee.Availability,
		CurrentWorkload:  employee.CurrentWorkload,
		PerformanceScore: employee.PerformanceScore,
	}
}
