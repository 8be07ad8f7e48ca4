package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type SolutionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, solution *model.Solution) error
	FindByID(ctx context.Context, id string) (*model.Solution, error)
	FindByProblemAndSolver(ctx context.Context, problemID, solverID string) (*model.Solution, error)
	// GetForUpdate locks the solution row for the duration of tx so the
	// pending check and the status write are indivisible.
	GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Solution, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status model.SolutionStatus) error
	ListPending(ctx context.Context) ([]model.Solution, error)
	ListByProblem(ctx context.Context, problemID string) ([]model.Solution, error)
	StatusCounts(ctx context.Context, problemID string) (approved, pending int, err error)
	Count(ctx context.Context) (int, error)
	CountPending(ctx context.Context) (int, error)
}

type pgSolutionRepository struct {
	db *sql.DB
}

func NewPgSolutionRepository(db *sql.DB) SolutionRepository {
	return &pgSolutionRepository{db: db}
}

func (r *pgSolutionRepository) Create(ctx context.Context, tx *sql.Tx, s *model.Solution) error {
	query := `INSERT INTO solutions (id, content, problem_id, solver_id, status)
	          VALUES ($1, $2, $3, $4, $5)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, s.ID, s.Content, s.ProblemID, s.SolverID, s.Status)
	} else {
		_, err = r.db.ExecContext(ctx, query, s.ID, s.Content, s.ProblemID, s.SolverID, s.Status)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique (problem_id, solver_id)
			return fmt.Errorf("solution already submitted for this problem: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgSolutionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSolutionRepository) FindByID(ctx context.Context, id string) (*model.Solution, error) {
	query := `SELECT id, content, problem_id, solver_id, status, created_at
	          FROM solutions WHERE id = $1`
	solution := &model.Solution{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&solution.ID, &solution.Content, &solution.ProblemID, &solution.SolverID, &solution.Status, &solution.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSolutionRepository.FindByID: %w", err)
	}
	return solution, nil
}

func (r *pgSolutionRepository) FindByProblemAndSolver(ctx context.Context, problemID, solverID string) (*model.Solution, error) {
	query := `SELECT id, content, problem_id, solver_id, status, created_at
	          FROM solutions WHERE problem_id = $1 AND solver_id = $2`
	solution := &model.Solution{}
	err := r.db.QueryRowContext(ctx, query, problemID, solverID).Scan(
		&solution.ID, &solution.Content, &solution.ProblemID, &solution.SolverID, &solution.Status, &solution.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSolutionRepository.FindByProblemAndSolver: %w", err)
	}
	return solution, nil
}

func (r *pgSolutionRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.Solution, error) {
	query := `SELECT id, content, problem_id, solver_id, status, created_at
	          FROM solutions WHERE id = $1 FOR UPDATE`
	solution := &model.Solution{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&solution.ID, &solution.Content, &solution.ProblemID, &solution.SolverID, &solution.Status, &solution.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSolutionRepository.GetForUpdate: %w", err)
	}
	return solution, nil
}

func (r *pgSolutionRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status model.SolutionStatus) error {
	query := `UPDATE solutions SET status = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("pgSolutionRepository.UpdateStatus: %w", err)
	}
	return nil
}

func (r *pgSolutionRepository) ListPending(ctx context.Context) ([]model.Solution, error) {
	query := `SELECT s.id, s.content, s.problem_id, s.solver_id, s.status, s.created_at,
	                 p.title AS problem_title, u.username AS solver_username
	          FROM solutions s
	          JOIN problems p ON s.problem_id = p.id
	          JOIN users u ON s.solver_id = u.id
	          WHERE s.status = 'pending'
	          ORDER BY s.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgSolutionRepository.ListPending query: %w", err)
	}
	defer rows.Close()

	solutions := []model.Solution{}
	for rows.Next() {
		var s model.Solution
		if err := rows.Scan(&s.ID, &s.Content, &s.ProblemID, &s.SolverID, &s.Status, &s.CreatedAt,
			&s.ProblemTitle, &s.SolverUsername); err != nil {
			return nil, fmt.Errorf("pgSolutionRepository.ListPending scan: %w", err)
		}
		solutions = append(solutions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolutionRepository.ListPending rows.Err: %w", err)
	}
	return solutions, nil
}

func (r *pgSolutionRepository) ListByProblem(ctx context.Context, problemID string) ([]model.Solution, error) {
	query := `SELECT s.id, s.content, s.problem_id, s.solver_id, s.status, s.created_at,
	                 u.username AS solver_username
	          FROM solutions s
	          JOIN users u ON s.solver_id = u.id
	          WHERE s.problem_id = $1
	          ORDER BY s.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, problemID)
	if err != nil {
		return nil, fmt.Errorf("pgSolutionRepository.ListByProblem query: %w", err)
	}
	defer rows.Close()

	solutions := []model.Solution{}
	for rows.Next() {
		var s model.Solution
		if err := rows.Scan(&s.ID, &s.Content, &s.ProblemID, &s.SolverID, &s.Status, &s.CreatedAt,
			&s.SolverUsername); err != nil {
			return nil, fmt.Errorf("pgSolutionRepository.ListByProblem scan: %w", err)
		}
		solutions = append(solutions, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolutionRepository.ListByProblem rows.Err: %w", err)
	}
	return solutions, nil
}

func (r *pgSolutionRepository) StatusCounts(ctx context.Context, problemID string) (int, int, error) {
	query := `SELECT COUNT(*) FILTER (WHERE status = 'approved'),
	                 COUNT(*) FILTER (WHERE status = 'pending')
	          FROM solutions WHERE problem_id = $1`
	var approved, pending int
	if err := r.db.QueryRowContext(ctx, query, problemID).Scan(&approved, &pending); err != nil {
		return 0, 0, fmt.Errorf("pgSolutionRepository.StatusCounts: %w", err)
	}
	return approved, pending, nil
}

func (r *pgSolutionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solutions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSolutionRepository.Count: %w", err)
	}
	return count, nil
}

func (r *pgSolutionRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM solutions WHERE status = 'pending'`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSolutionRepository.CountPending: %w", err)
	}
	return count, nil
}
