package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poi_network/internal/common"
	"poi_network/internal/common/security"
	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"
	"poi_network/internal/platform/config"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	db              *sql.DB // For transactions
}

func NewAuthService(userRepo repository.UserRepository, transactionRepo repository.TransactionRepository, db *sql.DB) *AuthService {
	return &AuthService{userRepo: userRepo, transactionRepo: transactionRepo, db: db}
}

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Signup creates the user with the starting balance and records the grant in
// the ledger, so the ledger alone reproduces the live balance.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		HashedPassword: hashedPassword,
		TokenBalance:   config.AppConfig.SignupBalance,
		Reputation:     0,
		IsValidator:    true, // Every user reviews for now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	grant := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Type:        model.TxTypeSignupBonus,
		Amount:      config.AppConfig.SignupBalance,
		Description: "Signup bonus",
	}
	if err := s.transactionRepo.Create(ctx, tx, grant); err != nil {
		return nil, fmt.Errorf("failed to record signup bonus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.IsValidator)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.IsValidator)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// GetProfile returns the caller's own user record.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}
