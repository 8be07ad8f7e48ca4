package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poi_network/internal/common"
	"poi_network/internal/common/security"
	"poi_network/internal/domain/repository"
)

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := NewAuthService(
		repository.NewPgUserRepository(db),
		repository.NewPgTransactionRepository(db),
		db,
	)
	return svc, mock
}

func TestSignup_GrantsStartingBalanceWithLedgerEntry(t *testing.T) {
	svc, mock := newAuthService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "alice", sqlmock.AnyArg(), "100", 0, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "signup_bonus", "100", "Signup bonus", nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, err := svc.Signup(ctx, SignupRequest{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.True(t, resp.User.IsValidator)
	assert.Equal(t, "100", resp.User.TokenBalance.String())
	assert.Empty(t, resp.User.HashedPassword)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_DuplicateUsernameConflicts(t *testing.T) {
	svc, mock := newAuthService(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Password: "hunter22"})
	assert.ErrorIs(t, err, common.ErrConflict)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSignup_RejectsShortPassword(t *testing.T) {
	svc, mock := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Username: "alice", Password: "abc"})
	assert.ErrorIs(t, err, common.ErrValidation)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	hashed, err := security.HashPassword("hunter22")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		svc, mock := newAuthService(t)
		mock.ExpectQuery("FROM users WHERE username =").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow("user-1", "alice", hashed, "100", 0, true, time.Now()))

		resp, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "hunter22"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, mock := newAuthService(t)
		mock.ExpectQuery("FROM users WHERE username =").
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns()).
				AddRow("user-1", "alice", hashed, "100", 0, true, time.Now()))

		_, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "wrong"})
		assert.ErrorIs(t, err, common.ErrUnauthorized)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnknownUserLooksLikeBadCredentials", func(t *testing.T) {
		svc, mock := newAuthService(t)
		mock.ExpectQuery("FROM users WHERE username =").
			WithArgs("nobody").
			WillReturnError(sql.ErrNoRows)

		_, err := svc.Login(context.Background(), LoginRequest{Username: "nobody", Password: "hunter22"})
		assert.ErrorIs(t, err, common.ErrUnauthorized)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
