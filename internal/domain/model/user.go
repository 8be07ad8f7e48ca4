package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID             string          `json:"id"`
	Username       string          `json:"username"`
	HashedPassword string          `json:"-"` // Not exposed
	TokenBalance   decimal.Decimal `json:"token_balance"`
	Reputation     int             `json:"reputation"`
	IsValidator    bool            `json:"is_validator"`
	CreatedAt      time.Time       `json:"created_at"`
}
