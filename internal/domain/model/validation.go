package model

import "time"

type ValidationDecision string

const (
	DecisionApproved ValidationDecision = "approved"
	DecisionRejected ValidationDecision = "rejected"
)

func (d ValidationDecision) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Validation is the single review rendered against a solution.
type Validation struct {
	ID          string             `json:"id"`
	SolutionID  string             `json:"solution_id"`
	ValidatorID string             `json:"validator_id"`
	Decision    ValidationDecision `json:"decision"`
	Feedback    *string            `json:"feedback,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}
