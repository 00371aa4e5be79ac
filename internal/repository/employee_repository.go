package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deca109/TaskFlow.ai/internal/domain"
)

// EmployeeRepository handles persistence for employees. Workload writes go
// through UpdateWorkload, which enforces the optimistic version check.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *domain.Employee) error
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
	UpdateWorkload(ctx context.Context, id string, newWorkload, expectedVersion int) error
}

type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the repository.
func NewEmployeeRepository(pool *pgxpool.Pool) EmployeeRepository {
	return &employeeRepository{pool: pool}
}

func (r *employeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	const query = `
        INSERT INTO employees (id, name, role, skills, experience, availability, current_workload, performance_score)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		employee.ID,
		employee.Name,
		employee.Role,
		employee.Skills,
		employee.Experience,
		employee.Availability,
		employee.CurrentWorkload,
		employee.PerformanceScore,
	).Scan(&employee.Version, &employee.CreatedAt, &employee.UpdatedAt)
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, name, role, skills, experience, availability, current_workload, performance_score, version, created_at, updated_at
        FROM employees WHERE id=$1`

	var employee domain.Employee
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.Name,
		&employee.Role,
		&employee.Skills,
		&employee.Experience,
		&employee.Availability,
		&employee.CurrentWorkload,
		&employee.PerformanceScore,
		&employee.Version,
		&employee.CreatedAt,
		&employee.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `
        SELECT id, name, role, skills, experience, availability, current_workload, performance_score, version, created_at, updated_at
        FROM employees ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.Name,
			&employee.Role,
			&employee.Skills,
			&employee.Experience,
			&employee.Availability,
			&employee.CurrentWorkload,
			&employee.PerformanceScore,
			&employee.Version,
			&employee.CreatedAt,
			&employee.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}

func (r *employeeRepository) UpdateWorkload(ctx context.Context, id string, newWorkload, expectedVersion int) error {
	const query = `
        UPDATE employees
        SET current_workload=$1, version=version+1, updated_at=NOW()
        WHERE id=$2 AND version=$3`

	cmd, err := r.pool.Exec(ctx, query, newWorkload, id, expectedVersion)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means either the employee is gone or the version moved on.
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrVersionConflict
}
