package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"
)

func newSolutionService(t *testing.T) (*SolutionService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewSolutionService(
		repository.NewPgSolutionRepository(db),
		repository.NewPgProblemRepository(db),
		repository.NewPgUserRepository(db),
		db,
	)
	return svc, mock
}

func TestSubmitSolution_CreatesPending(t *testing.T) {
	svc, mock := newSolutionService(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM problems p").
		WithArgs("problem-1").
		WillReturnRows(sqlmock.NewRows(problemColumns()).
			AddRow("problem-1", "Puzzle", "puzzle-abc12345", "desc", "author-1", "10", true, time.Now(), "author"))
	mock.ExpectQuery("FROM solutions WHERE problem_id = (.+) AND solver_id =").
		WithArgs("problem-1", "solver-1").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO solutions").
		WithArgs(sqlmock.AnyArg(), "my answer", "problem-1", "solver-1", "pending").
		WillReturnResult(sqlmock.NewResult(0, 1))

	solution, err := svc.SubmitSolution(ctx, "solver-1", SubmitSolutionRequest{
		ProblemID: "problem-1",
		Content:   "my answer",
	})
	require.NoError(t, err)
	assert.Equal(t, model.SolutionStatusPending, solution.Status)
	assert.Equal(t, "solver-1", solution.SolverID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitSolution_DuplicatePerProblemAndSolverConflicts(t *testing.T) {
	svc, mock := newSolutionService(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM problems p").
		WithArgs("problem-1").
		WillReturnRows(sqlmock.NewRows(problemColumns()).
			AddRow("problem-1", "Puzzle", "puzzle-abc12345", "desc", "author-1", "10", true, time.Now(), "author"))
	mock.ExpectQuery("FROM solutions WHERE problem_id = (.+) AND solver_id =").
		WithArgs("problem-1", "solver-1").
		WillReturnRows(sqlmock.NewRows(solutionColumns()).
			AddRow("solution-1", "earlier answer", "problem-1", "solver-1", "pending", time.Now()))

	_, err := svc.SubmitSolution(ctx, "solver-1", SubmitSolutionRequest{
		ProblemID: "problem-1",
		Content:   "second try",
	})
	assert.ErrorIs(t, err, common.ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitSolution_ProblemNotFound(t *testing.T) {
	svc, mock := newSolutionService(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM problems p").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := svc.SubmitSolution(ctx, "solver-1", SubmitSolutionRequest{
		ProblemID: "missing",
		Content:   "my answer",
	})
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingSolutions_RequiresValidator(t *testing.T) {
	svc, mock := newSolutionService(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM users WHERE id =").
		WithArgs("plain-user").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("plain-user", "plain", "hash", "100", 0, false, time.Now()))

	_, err := svc.ListPendingSolutions(ctx, "plain-user")
	assert.ErrorIs(t, err, common.ErrForbidden)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListPendingSolutions_ReturnsQueue(t *testing.T) {
	svc, mock := newSolutionService(t)
	ctx := context.Background()

	mock.ExpectQuery("FROM users WHERE id =").
		WithArgs("validator-1").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow("validator-1", "reviewer", "hash", "100", 50, true, time.Now()))

	mock.ExpectQuery("FROM solutions s").
		WillReturnRows(sqlmock.NewRows([]string{"id", "content", "problem_id", "solver_id", "status", "created_at", "problem_title", "solver_username"}).
			AddRow("solution-1", "answer one", "problem-1", "solver-1", "pending", time.Now(), "Puzzle", "alice").
			AddRow("solution-2", "answer two", "problem-2", "solver-2", "pending", time.Now(), "Riddle", "bob"))

	solutions, err := svc.ListPendingSolutions(ctx, "validator-1")
	require.NoError(t, err)
	require.Len(t, solutions, 2)
	assert.Equal(t, "Puzzle", *solutions[0].ProblemTitle)
	assert.Equal(t, "bob", *solutions[1].SolverUsername)

	require.NoError(t, mock.ExpectationsWereMet())
}
