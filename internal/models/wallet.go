package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds cached balances. The ledger stays authoritative.
type Wallet struct {
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	BalanceFiat    decimal.Decimal `json:"balance_fiat" db:"balance_fiat"`
	BalanceTickets decimal.Decimal `json:"balance_tickets" db:"balance_tickets"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

type UserLimits struct {
	MaxBalanceUSDT       decimal.Decimal `json:"max_balance_usdt" db:"max_balance_usdt"`
	MaxTransactionUSDT   decimal.Decimal `json:"max_transaction_usdt" db:"max_transaction_usdt"`
	DailyWithdrawalLimit decimal.Decimal `json:"daily_withdrawal_limit" db:"daily_withdrawal_limit"`
	DailyTransferLimit   decimal.Decimal `json:"daily_transfer_limit" db:"daily_transfer_limit"`
	IsVerified           bool            `json:"is_verified" db:"is_verified"`
}

// LimitUsage is the amount consumed since the start of the current UTC day.
type LimitUsage struct {
	TransferredOut decimal.Decimal `json:"transferred_out"`
	TransferredIn  decimal.Decimal `json:"transferred_in"`
	Withdrawn      decimal.Decimal `json:"withdrawn"`
}

type LimitsView struct {
	Limits              UserLimits      `json:"limits"`
	Usage               LimitUsage      `json:"usage"`
	RemainingTransfer   decimal.Decimal `json:"remaining_transfer"`
	RemainingWithdrawal decimal.Decimal `json:"remaining_withdrawal"`
}

type BalanceBreakdown struct {
	Currency           Currency        `json:"currency"`
	Balance            decimal.Decimal `json:"balance"`
	PendingWithdrawals decimal.Decimal `json:"pending_withdrawals"`
	HeldEscrow         decimal.Decimal `json:"held_escrow"`
	Available          decimal.Decimal `json:"available"`
}

type BalanceSummary struct {
	UserID   uuid.UUID          `json:"user_id"`
	Balances []BalanceBreakdown `json:"balances"`
	Wallet   Wallet             `json:"wallet"`
}

type ReconcileResult struct {
	UserID       uuid.UUID       `json:"user_id"`
	CachedFiat   decimal.Decimal `json:"cached_fiat"`
	LedgerFiat   decimal.Decimal `json:"ledger_fiat"`
	CachedTicket decimal.Decimal `json:"cached_tickets"`
	LedgerTicket decimal.Decimal `json:"ledger_tickets"`
	Repaired     bool            `json:"repaired"`
}

func (r ReconcileResult) Drifted() bool {
	return !r.CachedFiat.Equal(r.LedgerFiat) || !r.CachedTicket.Equal(r.LedgerTicket)
}
