package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"
)

func newLedgerService(t *testing.T) (*LedgerService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewLedgerService(
		repository.NewPgTransactionRepository(db),
		repository.NewPgUserRepository(db),
	)
	return svc, mock
}

func transactionColumns() []string {
	return []string{"id", "user_id", "type", "amount", "description", "problem_id", "solution_id", "created_at"}
}

func TestListUserTransactions_NewestFirst(t *testing.T) {
	svc, mock := newLedgerService(t)
	ctx := context.Background()

	newer := time.Now()
	older := newer.Add(-time.Hour)
	problemID := "problem-1"
	solutionID := "solution-1"

	mock.ExpectQuery("FROM transactions WHERE user_id =").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(transactionColumns()).
			AddRow("tx-2", "user-1", "solution_reward", "25", "Solution approved for: Puzzle", problemID, solutionID, newer).
			AddRow("tx-1", "user-1", "signup_bonus", "100", "Signup bonus", nil, nil, older))

	transactions, err := svc.ListUserTransactions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.True(t, transactions[0].CreatedAt.After(transactions[1].CreatedAt))
	assert.Equal(t, model.TxTypeSolutionReward, transactions[0].Type)
	assert.Equal(t, "problem-1", *transactions[0].ProblemID)
	assert.Nil(t, transactions[1].ProblemID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile(t *testing.T) {
	t.Run("LedgerMatchesBalance", func(t *testing.T) {
		svc, mock := newLedgerService(t)

		mock.ExpectQuery("FROM users WHERE id =").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow("user-1", "alice", "hash", "110", 10, true, time.Now()))
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("110"))

		result, err := svc.Reconcile(context.Background(), "user-1")
		require.NoError(t, err)
		assert.True(t, result.Consistent)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DriftIsReported", func(t *testing.T) {
		svc, mock := newLedgerService(t)

		mock.ExpectQuery("FROM users WHERE id =").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow("user-1", "alice", "hash", "110", 10, true, time.Now()))
		mock.ExpectQuery("SELECT COALESCE").
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("95"))

		result, err := svc.Reconcile(context.Background(), "user-1")
		require.NoError(t, err)
		assert.False(t, result.Consistent)
		assert.Equal(t, "95", result.LedgerTotal.String())
		assert.Equal(t, "110", result.LiveBalance.String())
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
