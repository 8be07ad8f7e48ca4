package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"poi_network/internal/common"
	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"

	"github.com/google/uuid"
)

type SolutionService struct {
	solutionRepo repository.SolutionRepository
	problemRepo  repository.ProblemRepository
	userRepo     repository.UserRepository
	db           *sql.DB // For transactions
}

func NewSolutionService(
	solutionRepo repository.SolutionRepository,
	problemRepo repository.ProblemRepository,
	userRepo repository.UserRepository,
	db *sql.DB,
) *SolutionService {
	return &SolutionService{
		solutionRepo: solutionRepo,
		problemRepo:  problemRepo,
		userRepo:     userRepo,
		db:           db,
	}
}

type SubmitSolutionRequest struct {
	ProblemID string `json:"problem_id" validate:"required"`
	Content   string `json:"content" validate:"required"`
}

// SubmitSolution creates a pending solution. At most one solution per
// (problem, solver) pair; the unique index backstops the pre-check.
func (s *SolutionService) SubmitSolution(ctx context.Context, solverID string, req SubmitSolutionRequest) (*model.Solution, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.problemRepo.FindByID(ctx, req.ProblemID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("problem not found: %w", common.ErrNotFound)
		}
		return nil, err
	}

	if _, err := s.solutionRepo.FindByProblemAndSolver(ctx, req.ProblemID, solverID); err == nil {
		return nil, common.Errorf("solution already submitted for this problem: %w", common.ErrConflict)
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	solution := &model.Solution{
		ID:        uuid.NewString(),
		Content:   req.Content,
		ProblemID: req.ProblemID,
		SolverID:  solverID,
		Status:    model.SolutionStatusPending,
	}

	if err := s.solutionRepo.Create(ctx, nil, solution); err != nil {
		return nil, fmt.Errorf("failed to create solution: %w", err)
	}
	return solution, nil
}

// ListPendingSolutions is validator-only reading of the review queue.
func (s *SolutionService) ListPendingSolutions(ctx context.Context, callerID string) ([]model.Solution, error) {
	caller, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsValidator {
		return nil, common.Errorf("only validators can access pending solutions: %w", common.ErrForbidden)
	}
	return s.solutionRepo.ListPending(ctx)
}
