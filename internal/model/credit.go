package model

import "time"

// CreditBalance is the per-user minute ledger row.
// The balance is never negative: debits that would drive it below zero
// are rejected at the store, not clamped.
type CreditBalance struct {
	UserID         string    `json:"user_id"`
	BalanceMinutes int64     `json:"balance_minutes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
