package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxTypeSignupBonus      TransactionType = "signup_bonus"
	TxTypeProblemPost      TransactionType = "problem_post"
	TxTypeSolutionReward   TransactionType = "solution_reward"
	TxTypeValidationReward TransactionType = "validation_reward"
)

// Transaction is an immutable ledger entry. Problem/solution ids are weak
// back-references, never owning edges.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"` // Signed: debits are negative
	Description string          `json:"description"`
	ProblemID   *string         `json:"problem_id,omitempty"`
	SolutionID  *string         `json:"solution_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
