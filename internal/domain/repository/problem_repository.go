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

type ProblemRepository interface {
	Create(ctx context.Context, tx *sql.Tx, problem *model.Problem) error
	FindByID(ctx context.Context, id string) (*model.Problem, error)
	ListActive(ctx context.Context) ([]model.Problem, error)
	Count(ctx context.Context) (int, error)
}

type pgProblemRepository struct {
	db *sql.DB
}

func NewPgProblemRepository(db *sql.DB) ProblemRepository {
	return &pgProblemRepository{db: db}
}

func (r *pgProblemRepository) Create(ctx context.Context, tx *sql.Tx, p *model.Problem) error {
	query := `INSERT INTO problems (id, title, slug, description, author_id, reward_amount, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Description, p.AuthorID, p.RewardAmount, p.IsActive)
	} else {
		_, err = r.db.ExecContext(ctx, query, p.ID, p.Title, p.Slug, p.Description, p.AuthorID, p.RewardAmount, p.IsActive)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("problem with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgProblemRepository.Create: %w", err)
	}
	return nil
}

func (r *pgProblemRepository) FindByID(ctx context.Context, id string) (*model.Problem, error) {
	query := `SELECT p.id, p.title, p.slug, p.description, p.author_id, p.reward_amount, p.is_active, p.created_at,
	                 u.username AS author_username
	          FROM problems p
	          LEFT JOIN users u ON p.author_id = u.id
	          WHERE p.id = $1`
	problem := &model.Problem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&problem.ID, &problem.Title, &problem.Slug, &problem.Description, &problem.AuthorID,
		&problem.RewardAmount, &problem.IsActive, &problem.CreatedAt, &problem.AuthorUsername,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgProblemRepository.FindByID: %w", err)
	}
	return problem, nil
}

func (r *pgProblemRepository) ListActive(ctx context.Context) ([]model.Problem, error) {
	query := `SELECT p.id, p.title, p.slug, p.description, p.author_id, p.reward_amount, p.is_active, p.created_at,
	                 u.username AS author_username
	          FROM problems p
	          LEFT JOIN users u ON p.author_id = u.id
	          WHERE p.is_active = TRUE
	          ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListActive query: %w", err)
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		var p model.Problem
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.AuthorID,
			&p.RewardAmount, &p.IsActive, &p.CreatedAt, &p.AuthorUsername); err != nil {
			return nil, fmt.Errorf("pgProblemRepository.ListActive scan: %w", err)
		}
		problems = append(problems, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgProblemRepository.ListActive rows.Err: %w", err)
	}
	return problems, nil
}

func (r *pgProblemRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgProblemRepository.Count: %w", err)
	}
	return count, nil
}
