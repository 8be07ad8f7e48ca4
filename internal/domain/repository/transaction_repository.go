package repository

import (
	"context"
	"database/sql"
	"fmt"

	"poi_network/internal/domain/model"

	"github.com/shopspring/decimal"
)

// TransactionRepository is append-only: entries are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, tx *sql.Tx, transaction *model.Transaction) error
	ListByUser(ctx context.Context, userID string) ([]model.Transaction, error)
	// SumAmountsForUser supports the reconciliation invariant: the sum of a
	// user's ledger amounts must equal the live balance.
	SumAmountsForUser(ctx context.Context, userID string) (decimal.Decimal, error)
}

type pgTransactionRepository struct {
	db *sql.DB
}

func NewPgTransactionRepository(db *sql.DB) TransactionRepository {
	return &pgTransactionRepository{db: db}
}

func (r *pgTransactionRepository) Create(ctx context.Context, tx *sql.Tx, t *model.Transaction) error {
	query := `INSERT INTO transactions (id, user_id, type, amount, description, problem_id, solution_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, t.ID, t.UserID, t.Type, t.Amount, t.Description, t.ProblemID, t.SolutionID)
	} else {
		_, err = r.db.ExecContext(ctx, query, t.ID, t.UserID, t.Type, t.Amount, t.Description, t.ProblemID, t.SolutionID)
	}
	if err != nil {
		return fmt.Errorf("pgTransactionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgTransactionRepository) ListByUser(ctx context.Context, userID string) ([]model.Transaction, error) {
	query := `SELECT id, user_id, type, amount, description, problem_id, solution_id, created_at
	          FROM transactions WHERE user_id = $1
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgTransactionRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description,
			&t.ProblemID, &t.SolutionID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgTransactionRepository.ListByUser scan: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTransactionRepository.ListByUser rows.Err: %w", err)
	}
	return transactions, nil
}

func (r *pgTransactionRepository) SumAmountsForUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = $1`
	var sum decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("pgTransactionRepository.SumAmountsForUser: %w", err)
	}
	return sum, nil
}
