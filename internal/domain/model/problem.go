package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProblemStatus string

const (
	ProblemStatusOpen     ProblemStatus = "open"
	ProblemStatusInReview ProblemStatus = "in_review"
	ProblemStatusSolved   ProblemStatus = "solved"
)

type Problem struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	AuthorID       string          `json:"author_id"`
	RewardAmount   decimal.Decimal `json:"reward_amount"` // Fixed at creation
	IsActive       bool            `json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	AuthorUsername *string         `json:"author_username,omitempty"` // For display
	Solutions      []Solution      `json:"solutions,omitempty"`
}

// ProblemStatusReport is the derived review state of a problem.
type ProblemStatusReport struct {
	Status        ProblemStatus `json:"status"`
	ApprovedCount int           `json:"approved_solutions"`
	PendingCount  int           `json:"pending_solutions"`
}

// DeriveProblemStatus ranks solved above in_review above open.
func DeriveProblemStatus(approvedCount, pendingCount int) ProblemStatus {
	if approvedCount > 0 {
		return ProblemStatusSolved
	}
	if pendingCount > 0 {
		return ProblemStatusInReview
	}
	return ProblemStatusOpen
}
