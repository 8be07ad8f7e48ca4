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

type ValidationRepository interface {
	Create(ctx context.Context, tx *sql.Tx, validation *model.Validation) error
	FindBySolutionID(ctx context.Context, solutionID string) (*model.Validation, error)
}

type pgValidationRepository struct {
	db *sql.DB
}

func NewPgValidationRepository(db *sql.DB) ValidationRepository {
	return &pgValidationRepository{db: db}
}

func (r *pgValidationRepository) Create(ctx context.Context, tx *sql.Tx, v *model.Validation) error {
	query := `INSERT INTO validations (id, solution_id, validator_id, decision, feedback)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, v.ID, v.SolutionID, v.ValidatorID, v.Decision, v.Feedback)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique solution_id
			return fmt.Errorf("solution already has a validation: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgValidationRepository.Create: %w", err)
	}
	return nil
}

func (r *pgValidationRepository) FindBySolutionID(ctx context.Context, solutionID string) (*model.Validation, error) {
	query := `SELECT id, solution_id, validator_id, decision, feedback, created_at
	          FROM validations WHERE solution_id = $1`
	validation := &model.Validation{}
	err := r.db.QueryRowContext(ctx, query, solutionID).Scan(
		&validation.ID, &validation.SolutionID, &validation.ValidatorID, &validation.Decision, &validation.Feedback, &validation.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgValidationRepository.FindBySolutionID: %w", err)
	}
	return validation, nil
}
