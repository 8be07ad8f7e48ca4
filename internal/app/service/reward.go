package service

import "github.com/shopspring/decimal"

const (
	solverReputationBonus    = 10
	validatorReputationBonus = 5
)

// validatorRewardRate is the validator's cut of the problem reward.
var validatorRewardRate = decimal.RequireFromString("0.05")

// RewardBreakdown is the pair of deltas an approval produces. Computation is
// pure; application happens inside the validation transaction.
type RewardBreakdown struct {
	SolverAmount        decimal.Decimal
	SolverReputation    int
	ValidatorAmount     decimal.Decimal
	ValidatorReputation int
}

func RewardForApproval(rewardAmount decimal.Decimal) RewardBreakdown {
	return RewardBreakdown{
		SolverAmount:        rewardAmount,
		SolverReputation:    solverReputationBonus,
		ValidatorAmount:     rewardAmount.Mul(validatorRewardRate),
		ValidatorReputation: validatorReputationBonus,
	}
}
