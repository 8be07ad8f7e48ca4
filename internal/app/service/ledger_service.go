package service

import (
	"context"

	"poi_network/internal/domain/model"
	"poi_network/internal/domain/repository"

	"github.com/shopspring/decimal"
)

// LedgerService is the read surface over the append-only transaction log.
type LedgerService struct {
	transactionRepo repository.TransactionRepository
	userRepo        repository.UserRepository
}

func NewLedgerService(transactionRepo repository.TransactionRepository, userRepo repository.UserRepository) *LedgerService {
	return &LedgerService{transactionRepo: transactionRepo, userRepo: userRepo}
}

// ListUserTransactions returns the caller's own entries, newest first.
// Handlers only ever pass the authenticated user's id, which is what keeps
// one user out of another user's ledger.
func (s *LedgerService) ListUserTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	return s.transactionRepo.ListByUser(ctx, userID)
}

type ReconcileResult struct {
	LedgerTotal decimal.Decimal `json:"ledger_total"`
	LiveBalance decimal.Decimal `json:"live_balance"`
	Consistent  bool            `json:"consistent"`
}

// Reconcile checks the invariant that a user's ledger sums to their live
// balance. Every balance mutation writes a ledger entry, so a mismatch means
// a partial write escaped a transaction somewhere.
func (s *LedgerService) Reconcile(ctx context.Context, userID string) (*ReconcileResult, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.transactionRepo.SumAmountsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ReconcileResult{
		LedgerTotal: total,
		LiveBalance: user.TokenBalance,
		Consistent:  total.Equal(user.TokenBalance),
	}, nil
}
