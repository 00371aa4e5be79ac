// Package memory provides an in-memory Directory Store used by tests and by
// DSN-less development deployments. It honors the same contracts as the
// postgres repositories: active-assignment uniqueness is checked under the
// write lock, and workload updates enforce the optimistic version token.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/deca109/TaskFlow.ai/internal/domain"
	"github.com/deca109/TaskFlow.ai/internal/repository"
)

// Store holds all directory data behind a single RWMutex.
type Store struct {
	mu          sync.RWMutex
	tasks       map[string]domain.Task
	employees   map[string]domain.Employee
	assignments map[string]domain.Assignment
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		tasks:       make(map[string]domain.Task),
		employees:   make(map[string]domain.Employee),
		assignments: make(map[string]domain.Assignment),
	}
}

// Tasks exposes the store as a TaskRepository.
func (s *Store) Tasks() repository.TaskRepository { return (*taskStore)(s) }

// Employees exposes the store as an EmployeeRepository.
func (s *Store) Employees() repository.EmployeeRepository { return (*employeeStore)(s) }

// Assignments exposes the store as an AssignmentRepository.
func (s *Store) Assignments() repository.AssignmentRepository { return (*assignmentStore)(s) }

type taskStore Store

func (s *taskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (s *taskStore) GetByID(_ context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneTask(task)
	return &out, nil
}

func (s *taskStore) List(_ context.Context) ([]domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		result = append(result, cloneTask(task))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type employeeStore Store

func (s *employeeStore) Create(_ context.Context, employee *domain.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	employee.CreatedAt = now
	employee.UpdatedAt = now
	employee.Version = 1
	s.employees[employee.ID] = cloneEmployee(*employee)
	return nil
}

func (s *employeeStore) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	employee, ok := s.employees[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneEmployee(employee)
	return &out, nil
}

func (s *employeeStore) List(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		result = append(result, cloneEmployee(employee))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *employeeStore) UpdateWorkload(_ context.Context, id string, newWorkload, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	employee, ok := s.employees[id]
	if !ok {
		return repository.ErrNotFound
	}
	if employee.Version != expectedVersion {
		return repository.ErrVersionConflict
	}
	employee.CurrentWorkload = newWorkload
	employee.Version++
	employee.UpdatedAt = time.Now()
	s.employees[id] = employee
	return nil
}

type assignmentStore Store

func (s *assignmentStore) Insert(_ context.Context, assignment *domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.TaskID == assignment.TaskID && existing.Active() {
			return repository.ErrActiveAssignmentExists
		}
	}
	s.assignments[assignment.ID] = cloneAssignment(*assignment)
	return nil
}

func (s *assignmentStore) Update(_ context.Context, assignment *domain.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[assignment.ID]; !ok {
		return repository.ErrNotFound
	}
	s.assignments[assignment.ID] = cloneAssignment(*assignment)
	return nil
}

func (s *assignmentStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.assignments, id)
	return nil
}

func (s *assignmentStore) GetByID(_ context.Context, id string) (*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	assignment, ok := s.assignments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneAssignment(assignment)
	return &out, nil
}

func (s *assignmentStore) GetActiveByTask(_ context.Context, taskID string) (*domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, assignment := range s.assignments {
		if assignment.TaskID == taskID && assignment.Active() {
			out := cloneAssignment(assignment)
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *assignmentStore) List(_ context.Context) ([]domain.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Assignment, 0, len(s.assignments))
	for _, assignment := range s.assignments {
		result = append(result, cloneAssignment(assignment))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AssignedDate.Equal(result[j].AssignedDate) {
			return result[i].ID < result[j].ID
		}
		return result[i].AssignedDate.After(result[j].AssignedDate)
	})
	return result, nil
}

func cloneTask(t domain.Task) domain.Task {
	t.RequiredSkills = append([]string(nil), t.RequiredSkills...)
	return t
}

func cloneEmployee(e domain.Employee) domain.Employee {
	e.Skills = append([]string(nil), e.Skills...)
	return e
}

func cloneAssignment(a domain.Assignment) domain.Assignment {
	if a.CompletedDate != nil {
		d := *a.CompletedDate
		a.CompletedDate = &d
	}
	if a.CompletionTimeHours != nil {
		h := *a.CompletionTimeHours
		a.CompletionTimeHours = &h
	}
	if a.FeedbackScore != nil {
		f := *a.FeedbackScore
		a.FeedbackScore = &f
	}
	return a
}
