package service

import (
	"context"
	"database/sql"
	"fmt"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"
	"poi_network/internal/platform/config"
	"poi_network/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
)

type ProblemService struct {
	problemRepo     repository.ProblemRepository
	solutionRepo    repository.SolutionRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	db              *sql.DB // For transactions
}

func NewProblemService(
	problemRepo repository.ProblemRepository,
	solutionRepo repository.SolutionRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	db *sql.DB,
) *ProblemService {
	return &ProblemService{
		problemRepo:     problemRepo,
		solutionRepo:    solutionRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		db:              db,
	}
}

type PostProblemRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"required"`
	RewardAmount string `json:"reward_amount,omitempty"`
}

// PostProblem creates a problem. With escrow enabled the author is debited
// upfront and the debit lands in the ledger as a negative problem_post entry,
// all in one unit of work with the insert.
func (s *ProblemService) PostProblem(ctx context.Context, authorID string, req PostProblemRequest) (*model.Problem, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	reward := config.AppConfig.DefaultProblemReward
	if req.RewardAmount != "" {
		parsed, err := decimal.NewFromString(req.RewardAmount)
		if err != nil {
			return nil, common.Errorf("invalid reward_amount: %w", common.ErrBadRequest)
		}
		reward = parsed
	}
	if reward.Sign() <= 0 {
		return nil, common.Errorf("reward_amount must be positive: %w", common.ErrBadRequest)
	}

	problem := &model.Problem{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Slug:         makeProblemSlug(req.Title),
		Description:  req.Description,
		AuthorID:     authorID,
		RewardAmount: reward,
		IsActive:     true,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if config.AppConfig.EscrowOnPost {
		if err := s.userRepo.EscrowDebit(ctx, tx, authorID, reward); err != nil {
			return nil, err
		}
	}

	if err := s.problemRepo.Create(ctx, tx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}

	if config.AppConfig.EscrowOnPost {
		debit := &model.Transaction{
			ID:          uuid.NewString(),
			UserID:      authorID,
			Type:        model.TxTypeProblemPost,
			Amount:      reward.Neg(),
			Description: "Posted problem: " + problem.Title,
			ProblemID:   &problem.ID,
		}
		if err := s.transactionRepo.Create(ctx, tx, debit); err != nil {
			return nil, fmt.Errorf("failed to record problem escrow: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.WithUserID(authorID).WithField("problem_id", problem.ID).Info("problem posted")
	return problem, nil
}

func (s *ProblemService) ListProblems(ctx context.Context) ([]model.Problem, error) {
	return s.problemRepo.ListActive(ctx)
}

// GetProblemDetails returns a problem together with its solutions.
func (s *ProblemService) GetProblemDetails(ctx context.Context, problemID string) (*model.Problem, error) {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, err
	}
	solutions, err := s.solutionRepo.ListByProblem(ctx, problemID)
	if err != nil {
		return nil, err
	}
	problem.Solutions = solutions
	return problem, nil
}

// GetProblemStatus derives solved/in_review/open from the solution counts.
func (s *ProblemService) GetProblemStatus(ctx context.Context, problemID string) (*model.ProblemStatusReport, error) {
	if _, err := s.problemRepo.FindByID(ctx, problemID); err != nil {
		return nil, err
	}
	approved, pending, err := s.solutionRepo.StatusCounts(ctx, problemID)
	if err != nil {
		return nil, err
	}
	return &model.ProblemStatusReport{
		Status:        model.DeriveProblemStatus(approved, pending),
		ApprovedCount: approved,
		PendingCount:  pending,
	}, nil
}

// Slug collisions are legal across titles; the id suffix keeps them unique.
func makeProblemSlug(title string) string {
	return slug.Make(title) + "-" + uuid.NewString()[:8]
}
