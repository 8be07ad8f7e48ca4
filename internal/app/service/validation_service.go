package service

import (
	"context"
	"database/sql"
	"fmt"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"
	"poi_network/internal/platform/logger"

	"github.com/google/uuid"
)

type ValidationService struct {
	validationRepo  repository.ValidationRepository
	solutionRepo    repository.SolutionRepository
	problemRepo     repository.ProblemRepository
	userRepo        repository.UserRepository
	transactionRepo repository.TransactionRepository
	db              *sql.DB // For transactions
}

func NewValidationService(
	validationRepo repository.ValidationRepository,
	solutionRepo repository.SolutionRepository,
	problemRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	transactionRepo repository.TransactionRepository,
	db *sql.DB,
) *ValidationService {
	return &ValidationService{
		validationRepo:  validationRepo,
		solutionRepo:    solutionRepo,
		problemRepo:     problemRepo,
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		db:              db,
	}
}

type SubmitValidationRequest struct {
	SolutionID string  `json:"solution_id" validate:"required"`
	Decision   string  `json:"decision" validate:"required,oneof=approved rejected"`
	Feedback   *string `json:"feedback,omitempty"`
}

// SubmitValidation drives the solution state machine: pending -> decision,
// exactly once. The pending check, status write, validation insert, and (on
// approval) both balance updates and both ledger entries commit atomically;
// a validator racing on the same solution loses the row lock and gets a
// conflict. Validators cannot review their own solutions.
func (s *ValidationService) SubmitValidation(ctx context.Context, validatorID string, req SubmitValidationRequest) (*model.Validation, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}
	decision := model.ValidationDecision(req.Decision)

	validator, err := s.userRepo.FindByID(ctx, validatorID)
	if err != nil {
		return nil, err
	}
	if !validator.IsValidator {
		return nil, common.Errorf("only validators can validate solutions: %w", common.ErrForbidden)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	solution, err := s.solutionRepo.GetForUpdate(ctx, tx, req.SolutionID)
	if err != nil {
		return nil, err
	}
	if solution.SolverID == validatorID {
		return nil, common.Errorf("validators cannot review their own solution: %w", common.ErrForbidden)
	}
	if solution.Status != model.SolutionStatusPending {
		return nil, common.Errorf("solution has already been validated: %w", common.ErrConflict)
	}

	if err := s.solutionRepo.UpdateStatus(ctx, tx, solution.ID, model.SolutionStatus(decision)); err != nil {
		return nil, err
	}

	validation := &model.Validation{
		ID:          uuid.NewString(),
		SolutionID:  solution.ID,
		ValidatorID: validatorID,
		Decision:    decision,
		Feedback:    req.Feedback,
	}
	if err := s.validationRepo.Create(ctx, tx, validation); err != nil {
		return nil, err
	}

	if decision == model.DecisionApproved {
		if err := s.applyApprovalRewards(ctx, tx, solution, validatorID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	logger.Log.WithUserID(validatorID).WithField("solution_id", solution.ID).
		WithField("decision", decision).Info("solution validated")
	return validation, nil
}

// applyApprovalRewards credits solver and validator and appends the two
// ledger entries, all on the caller's transaction.
func (s *ValidationService) applyApprovalRewards(ctx context.Context, tx *sql.Tx, solution *model.Solution, validatorID string) error {
	// Reward amount is immutable after problem creation, so a plain read is
	// safe alongside the locked solution row.
	problem, err := s.problemRepo.FindByID(ctx, solution.ProblemID)
	if err != nil {
		return fmt.Errorf("failed to load problem for reward: %w", err)
	}

	reward := RewardForApproval(problem.RewardAmount)

	if err := s.userRepo.ApplyDelta(ctx, tx, solution.SolverID, reward.SolverAmount, reward.SolverReputation); err != nil {
		return err
	}
	if err := s.userRepo.ApplyDelta(ctx, tx, validatorID, reward.ValidatorAmount, reward.ValidatorReputation); err != nil {
		return err
	}

	solverCredit := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      solution.SolverID,
		Type:        model.TxTypeSolutionReward,
		Amount:      reward.SolverAmount,
		Description: "Solution approved for: " + problem.Title,
		ProblemID:   &problem.ID,
		SolutionID:  &solution.ID,
	}
	if err := s.transactionRepo.Create(ctx, tx, solverCredit); err != nil {
		return err
	}

	validatorCredit := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      validatorID,
		Type:        model.TxTypeValidationReward,
		Amount:      reward.ValidatorAmount,
		Description: "Validated solution for: " + problem.Title,
		ProblemID:   &problem.ID,
		SolutionID:  &solution.ID,
	}
	return s.transactionRepo.Create(ctx, tx, validatorCredit)
}
