package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type WithdrawalStatus string

const (
	WithdrawalPending    WithdrawalStatus = "pending"
	WithdrawalProcessing WithdrawalStatus = "processing"
	WithdrawalApproved   WithdrawalStatus = "approved"
	WithdrawalRejected   WithdrawalStatus = "rejected"
	WithdrawalCompleted  WithdrawalStatus = "completed"
)

var withdrawalTransitions = map[WithdrawalStatus][]WithdrawalStatus{
	WithdrawalPending:    {WithdrawalProcessing, WithdrawalApproved, WithdrawalRejected},
	WithdrawalProcessing: {WithdrawalApproved, WithdrawalRejected},
	WithdrawalApproved:   {WithdrawalCompleted},
}

func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalCompleted || s == WithdrawalRejected
}

// Holds reports whether the withdrawal still reserves funds from the available balance.
func (s WithdrawalStatus) Holds() bool {
	return s == WithdrawalPending || s == WithdrawalProcessing
}

func (s WithdrawalStatus) CanTransition(to WithdrawalStatus) bool {
	for _, next := range withdrawalTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

type Withdrawal struct {
	ID               uuid.UUID        `json:"id" db:"id"`
	UserID           uuid.UUID        `json:"user_id" db:"user_id"`
	Amount           decimal.Decimal  `json:"amount" db:"amount"`
	Currency         Currency         `json:"currency" db:"currency"`
	ToAddress        string           `json:"to_address" db:"to_address"`
	Status           WithdrawalStatus `json:"status" db:"status"`
	IdempotencyKey   string           `json:"-" db:"idempotency_key"`
	ApproverID       *uuid.UUID       `json:"approver_id,omitempty" db:"approver_id"`
	SecondApproverID *uuid.UUID       `json:"second_approver_id,omitempty" db:"second_approver_id"`
	RejectionReason  string           `json:"rejection_reason,omitempty" db:"rejection_reason"`
	LedgerEntryID    *uuid.UUID       `json:"ledger_entry_id,omitempty" db:"ledger_entry_id"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty" db:"completed_at"`
}

type WithdrawalRequest struct {
	UserID         uuid.UUID       `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	ToAddress      string          `json:"to_address"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type ApprovalCommand struct {
	WithdrawalID     uuid.UUID
	ApproverID       uuid.UUID
	SecondApproverID *uuid.UUID
	Threshold        decimal.Decimal
}
