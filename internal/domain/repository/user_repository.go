package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// ApplyDelta increments balance and reputation at the current persisted
	// value. Deltas are applied SQL-side so concurrent updates compose.
	ApplyDelta(ctx context.Context, tx *sql.Tx, userID string, balanceDelta decimal.Decimal, reputationDelta int) error
	// EscrowDebit conditionally debits the user; fails with
	// ErrInsufficientBalance when the balance cannot cover the amount.
	EscrowDebit(ctx context.Context, tx *sql.Tx, userID string, amount decimal.Decimal) error
	Count(ctx context.Context) (int, error)
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	query := `INSERT INTO users (id, username, hashed_password, token_balance, reputation, is_validator)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, user.ID, user.Username, user.HashedPassword, user.TokenBalance, user.Reputation, user.IsValidator)
	} else {
		_, err = r.db.ExecContext(ctx, query, user.ID, user.Username, user.HashedPassword, user.TokenBalance, user.Reputation, user.IsValidator)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return fmt.Errorf("user with given username already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT id, username, hashed_password, token_balance, reputation, is_validator, created_at
	          FROM users WHERE username = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &user.TokenBalance, &user.Reputation, &user.IsValidator, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByUsername: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, username, hashed_password, token_balance, reputation, is_validator, created_at
	          FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.HashedPassword, &user.TokenBalance, &user.Reputation, &user.IsValidator, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) ApplyDelta(ctx context.Context, tx *sql.Tx, userID string, balanceDelta decimal.Decimal, reputationDelta int) error {
	query := `UPDATE users
	          SET token_balance = token_balance + $1, reputation = reputation + $2
	          WHERE id = $3`
	res, err := tx.ExecContext(ctx, query, balanceDelta, reputationDelta, userID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.ApplyDelta: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.ApplyDelta rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}
	return nil
}

func (r *pgUserRepository) EscrowDebit(ctx context.Context, tx *sql.Tx, userID string, amount decimal.Decimal) error {
	query := `UPDATE users
	          SET token_balance = token_balance - $1
	          WHERE id = $2 AND token_balance >= $1`
	res, err := tx.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.EscrowDebit: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.EscrowDebit rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrInsufficientBalance
	}
	return nil
}

func (r *pgUserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgUserRepository.Count: %w", err)
	}
	return count, nil
}
