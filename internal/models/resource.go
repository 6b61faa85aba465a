package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ResourceKind string

const (
	ResourceGiveaway   ResourceKind = "giveaway"
	ResourceRaffle     ResourceKind = "raffle"
	ResourceFundraiser ResourceKind = "fundraiser"
)

func (k ResourceKind) Valid() bool {
	switch k {
	case ResourceGiveaway, ResourceRaffle, ResourceFundraiser:
		return true
	}
	return false
}

type ResourceStatus string

const (
	ResourceDraft     ResourceStatus = "draft"
	ResourcePending   ResourceStatus = "pending"
	ResourceActive    ResourceStatus = "active"
	ResourceCompleted ResourceStatus = "completed"
	ResourceCancelled ResourceStatus = "cancelled"
)

func (s ResourceStatus) Activatable() bool {
	return s == ResourceDraft || s == ResourcePending
}

func (s ResourceStatus) Terminal() bool {
	return s == ResourceCompleted || s == ResourceCancelled
}

type Resource struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Kind          ResourceKind    `json:"kind" db:"kind"`
	CreatorID     uuid.UUID       `json:"creator_id" db:"creator_id"`
	Title         string          `json:"title" db:"title"`
	PrizeAmount   decimal.Decimal `json:"prize_amount" db:"prize_amount"`
	Currency      Currency        `json:"currency" db:"currency"`
	Status        ResourceStatus  `json:"status" db:"status"`
	EscrowAmount  decimal.Decimal `json:"escrow_amount" db:"escrow_amount"`
	AdminAuthored bool            `json:"admin_authored" db:"admin_authored"`
	TempWinnerID  *uuid.UUID      `json:"temp_winner_id,omitempty" db:"temp_winner_id"`
	WinnerID      *uuid.UUID      `json:"winner_id,omitempty" db:"winner_id"`
	Version       int64           `json:"version" db:"version"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type HoldStatus string

const (
	HoldNone      HoldStatus = "none"
	HoldHeld      HoldStatus = "held"
	HoldReleased  HoldStatus = "released"
	HoldCancelled HoldStatus = "cancelled"
)

type EscrowHold struct {
	ID         uuid.UUID       `json:"id" db:"id"`
	ResourceID uuid.UUID       `json:"resource_id" db:"resource_id"`
	CreatorID  uuid.UUID       `json:"creator_id" db:"creator_id"`
	Amount     decimal.Decimal `json:"amount" db:"amount"`
	Currency   Currency        `json:"currency" db:"currency"`
	Status     HoldStatus      `json:"status" db:"status"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"`
}

// EscrowResult.Payout is what actually moved to the winner on completion.
type EscrowResult struct {
	Resource   Resource        `json:"resource"`
	HoldStatus HoldStatus      `json:"hold_status"`
	Bypassed   bool            `json:"bypassed"`
	Payout     decimal.Decimal `json:"payout"`
	TransferID *uuid.UUID      `json:"transfer_id,omitempty"`
}

type RegisterResourceRequest struct {
	Kind        ResourceKind    `json:"kind"`
	CreatorID   uuid.UUID       `json:"-"`
	Title       string          `json:"title"`
	PrizeAmount decimal.Decimal `json:"prize_amount"`
	Currency    Currency        `json:"currency"`
}

// ActivationCommand carries both admin flags: ActorIsAdmin authorizes the
// call, CreatorIsAdmin decides whether the hold may be skipped.
type ActivationCommand struct {
	ResourceID     uuid.UUID
	ActorID        uuid.UUID
	RequiredAmount decimal.Decimal
	ActorIsAdmin   bool
	CreatorIsAdmin bool
}

type CompletionCommand struct {
	ResourceID     uuid.UUID
	ActorID        uuid.UUID
	WinnerID       *uuid.UUID
	ActorIsAdmin   bool
	CreatorIsAdmin bool
}

type CancelCommand struct {
	ResourceID   uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
	// Target is ResourceCancelled for cancellation, ResourceDraft for an admin unpublish.
	Target ResourceStatus
	Reason string
}
