package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deca109/TaskFlow.ai/internal/domain"
)

const uniqueViolationCode = "23505"

// AssignmentRepository encapsulates assignment ledger persistence. Insert is
// the exclusivity gate: the partial unique index on active assignments makes
// check-and-insert atomic at the store.
type AssignmentRepository interface {
	Insert(ctx context.Context, assignment *domain.Assignment) error
	Update(ctx context.Context, assignment *domain.Assignment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Assignment, error)
	GetActiveByTask(ctx context.Context, taskID string) (*domain.Assignment, error)
	List(ctx context.Context) ([]domain.Assignment, error)
}

type assignmentRepository struct {
	pool *pgxpool.Pool
}

// NewAssignmentRepository instantiates the repository.
func NewAssignmentRepository(pool *pgxpool.Pool) AssignmentRepository {
	return &assignmentRepository{pool: pool}
}

func (r *assignmentRepository) Insert(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        INSERT INTO assignments (id, task_id, employee_id, assigned_date, workload_delta)
        VALUES ($1,$2,$3,$4,$5)`

	_, err := r.pool.Exec(ctx, query,
		assignment.ID,
		assignment.TaskID,
		assignment.EmployeeID,
		assignment.AssignedDate,
		assignment.WorkloadDelta,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrActiveAssignmentExists
		}
		return err
	}
	return nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	const query = `
        UPDATE assignments
        SET completed_date=$1, completion_time_hours=$2, feedback_score=$3
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		assignment.CompletedDate,
		assignment.CompletionTimeHours,
		assignment.FeedbackScore,
		assignment.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assignments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id string) (*domain.Assignment, error) {
	const query = `
        SELECT id, task_id, employee_id, assigned_date, completed_date, completion_time_hours, feedback_score, workload_delta
        FROM assignments WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *assignmentRepository) GetActiveByTask(ctx context.Context, taskID string) (*domain.Assignment, error) {
	const query = `
        SELECT id, task_id, employee_id, assigned_date, completed_date, completion_time_hours, feedback_score, workload_delta
        FROM assignments WHERE task_id=$1 AND completed_date IS NULL`
	return r.fetchSingle(ctx, query, taskID)
}

func (r *assignmentRepository) List(ctx context.Context) ([]domain.Assignment, error) {
	const query = `
        SELECT id, task_id, employee_id, assigned_date, completed_date, completion_time_hours, feedback_score, workload_delta
        FROM assignments ORDER BY assigned_date DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Assignment
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(
			&a.ID,
			&a.TaskID,
			&a.EmployeeID,
			&a.AssignedDate,
			&a.CompletedDate,
			&a.CompletionTimeHours,
			&a.FeedbackScore,
			&a.WorkloadDelta,
		); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *assignmentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Assignment, error) {
	var a domain.Assignment
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.TaskID,
		&a.EmployeeID,
		&a.AssignedDate,
		&a.CompletedDate,
		&a.CompletionTimeHours,
		&a.FeedbackScore,
		&a.WorkloadDelta,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}
