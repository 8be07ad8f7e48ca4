package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"
)

func newProblemService(t *testing.T) (*ProblemService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewProblemService(
		repository.NewPgProblemRepository(db),
		repository.NewPgSolutionRepository(db),
		repository.NewPgUserRepository(db),
		repository.NewPgTransactionRepository(db),
		db,
	)
	return svc, mock
}

func TestPostProblem_EscrowDebitsAuthorAndWritesLedger(t *testing.T) {
	svc, mock := newProblemService(t)
	ctx := context.Background()
	authorID := "author-1"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET token_balance = token_balance -").
		WithArgs("15", authorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO problems").
		WithArgs(sqlmock.AnyArg(), "Hard puzzle", sqlmock.AnyArg(), "Find the pattern", authorID, "15", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(sqlmock.AnyArg(), authorID, "problem_post", "-15", "Posted problem: Hard puzzle", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	problem, err := svc.PostProblem(ctx, authorID, PostProblemRequest{
		Title:        "Hard puzzle",
		Description:  "Find the pattern",
		RewardAmount: "15",
	})
	require.NoError(t, err)
	assert.True(t, problem.RewardAmount.Equal(decimal.RequireFromString("15")))
	assert.True(t, problem.IsActive)
	assert.NotEmpty(t, problem.Slug)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostProblem_InsufficientBalance(t *testing.T) {
	svc, mock := newProblemService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET token_balance = token_balance -").
		WithArgs("500", "poor-author").
		WillReturnResult(sqlmock.NewResult(0, 0)) // Conditional update matched no rows
	mock.ExpectRollback()

	_, err := svc.PostProblem(ctx, "poor-author", PostProblemRequest{
		Title:        "Too rich for me",
		Description:  "desc",
		RewardAmount: "500",
	})
	assert.ErrorIs(t, err, common.ErrInsufficientBalance)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostProblem_RejectsNonPositiveReward(t *testing.T) {
	svc, mock := newProblemService(t)
	ctx := context.Background()

	for _, amount := range []string{"-5", "0"} {
		_, err := svc.PostProblem(ctx, "author-1", PostProblemRequest{
			Title:        "Bad reward",
			Description:  "desc",
			RewardAmount: amount,
		})
		assert.ErrorIs(t, err, common.ErrBadRequest)
	}

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostProblem_DefaultsRewardWhenOmitted(t *testing.T) {
	svc, mock := newProblemService(t)
	ctx := context.Background()
	authorID := "author-1"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET token_balance = token_balance -").
		WithArgs("10", authorID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO problems").
		WithArgs(sqlmock.AnyArg(), "Default reward", sqlmock.AnyArg(), "desc", authorID, "10", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(sqlmock.AnyArg(), authorID, "problem_post", "-10", "Posted problem: Default reward", sqlmock.AnyArg(), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	problem, err := svc.PostProblem(ctx, authorID, PostProblemRequest{
		Title:       "Default reward",
		Description: "desc",
	})
	require.NoError(t, err)
	assert.True(t, problem.RewardAmount.Equal(decimal.RequireFromString("10")))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProblemStatus(t *testing.T) {
	tests := []struct {
		name     string
		approved int
		pending  int
		want     model.ProblemStatus
	}{
		{"solved wins over pending", 1, 2, model.ProblemStatusSolved},
		{"pending means in_review", 0, 1, model.ProblemStatusInReview},
		{"no solutions is open", 0, 0, model.ProblemStatusOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock := newProblemService(t)
			ctx := context.Background()

			mock.ExpectQuery("FROM problems p").
				WithArgs("problem-1").
				WillReturnRows(sqlmock.NewRows(problemColumns()).
					AddRow("problem-1", "Puzzle", "puzzle-abc12345", "desc", "author-1", "10", true, time.Now(), "author"))
			mock.ExpectQuery("FROM solutions WHERE problem_id").
				WithArgs("problem-1").
				WillReturnRows(sqlmock.NewRows([]string{"approved", "pending"}).AddRow(tt.approved, tt.pending))

			report, err := svc.GetProblemStatus(ctx, "problem-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.Status)
			assert.Equal(t, tt.approved, report.ApprovedCount)
			assert.Equal(t, tt.pending, report.PendingCount)

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetProblemStatus_NotFound(t *testing.T) {
	svc, mock := newProblemService(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM problems p").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.GetProblemStatus(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
