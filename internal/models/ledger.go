package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Currency string

const (
	CurrencyUSDT    Currency = "USDT"
	CurrencyTickets Currency = "TICKETS"
)

type EntryType string

const (
	EntryDeposit        EntryType = "deposit"
	EntryWithdrawal     EntryType = "withdrawal"
	EntryTransferDebit  EntryType = "transfer_debit"
	EntryTransferCredit EntryType = "transfer_credit"
)

type EntryStatus string

const (
	EntryPending  EntryStatus = "pending"
	EntryPosted   EntryStatus = "posted"
	EntryReversed EntryStatus = "reversed"
)

// LedgerEntry amounts are signed: credits positive, debits negative.
type LedgerEntry struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	UserID     uuid.UUID       `json:"user_id" db:"user_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Currency   Currency        `json:"currency" db:"currency"`
	Type       EntryType       `json:"type" db:"type"`
	Reference  string          `json:"reference" db:"reference"`
	Status     EntryStatus     `json:"status" db:"status"`
	ReversalOf *uuid.UUID      `json:"reversal_of,omitempty" db:"reversal_of"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

type Transfer struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	FromUser       uuid.UUID       `json:"from_user" db:"from_user"`
	ToUser         uuid.UUID       `json:"to_user" db:"to_user"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	Currency       Currency        `json:"currency" db:"currency"`
	IdempotencyKey string          `json:"-" db:"idempotency_key"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

type TransferRequest struct {
	FromUser       uuid.UUID       `json:"-"`
	ToUser         uuid.UUID       `json:"to_user"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       Currency        `json:"currency"`
	IdempotencyKey string          `json:"reference"`
}

// TransferCommand is a validated TransferRequest ready for the ledger transaction.
type TransferCommand struct {
	TransferRequest
	// Bypass skips balance and limit checks for admin senders.
	Bypass bool
}

type TransferResult struct {
	TransferID  uuid.UUID       `json:"transfer_id"`
	Duplicate   bool            `json:"duplicate"`
	Bypassed    bool            `json:"-"`
	FromBalance decimal.Decimal `json:"from_balance"`
	ToBalance   decimal.Decimal `json:"to_balance"`
}

type AuditEntry struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	ActorID     uuid.UUID         `json:"actor_id" db:"actor_id"`
	Action      string            `json:"action" db:"action"`
	SubjectKind string            `json:"subject_kind" db:"subject_kind"`
	SubjectID   string            `json:"subject_id" db:"subject_id"`
	Note        string            `json:"note" db:"note"`
	Metadata    map[string]string `json:"metadata,omitempty" db:"metadata"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
}
