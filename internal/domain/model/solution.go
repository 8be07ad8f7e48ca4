package model

import "time"

type SolutionStatus string

const (
	SolutionStatusPending  SolutionStatus = "pending"
	SolutionStatusApproved SolutionStatus = "approved"
	SolutionStatusRejected SolutionStatus = "rejected"
)

// Terminal reports whether a solution can no longer transition.
func (s SolutionStatus) Terminal() bool {
	return s == SolutionStatusApproved || s == SolutionStatusRejected
}

type Solution struct {
	ID             string         `json:"id"`
	Content        string         `json:"content"`
	ProblemID      string         `json:"problem_id"`
	SolverID       string         `json:"solver_id"`
	Status         SolutionStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	ProblemTitle   *string        `json:"problem_title,omitempty"`   // For display
	SolverUsername *string        `json:"solver_username,omitempty"` // For display
}
