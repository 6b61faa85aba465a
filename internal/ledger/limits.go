package ledger

import (
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferParty is one side of a transfer as seen inside the locking transaction.
type TransferParty struct {
	Limits    models.UserLimits
	Usage     models.LimitUsage
	Balance   decimal.Decimal
	Available decimal.Decimal
}

// Policy carries the service-wide caps that apply on top of per-user limits.
type Policy struct {
	UnverifiedMaxTransaction decimal.Decimal
	LargeWithdrawalThreshold decimal.Decimal
}

func (p Policy) maxTransaction(l models.UserLimits) decimal.Decimal {
	if !l.IsVerified && p.UnverifiedMaxTransaction.IsPositive() && p.UnverifiedMaxTransaction.LessThan(l.MaxTransactionUSDT) {
		return p.UnverifiedMaxTransaction
	}
	return l.MaxTransactionUSDT
}

// CheckTransfer applies balance and limit rules. Callers skip it entirely for admin bypass.
func (p Policy) CheckTransfer(amount decimal.Decimal, currency models.Currency, from, to TransferParty) error {
	if from.Available.LessThan(amount) {
		return apperrors.ErrInsufficientBalance
	}
	if amount.GreaterThan(p.maxTransaction(from.Limits)) {
		return fmt.Errorf("%w: sender max transaction", apperrors.ErrLimitExceeded)
	}
	if amount.GreaterThan(p.maxTransaction(to.Limits)) {
		return fmt.Errorf("%w: recipient max transaction", apperrors.ErrLimitExceeded)
	}
	if from.Usage.TransferredOut.Add(amount).GreaterThan(from.Limits.DailyTransferLimit) {
		return fmt.Errorf("%w: sender daily transfer limit", apperrors.ErrLimitExceeded)
	}
	if to.Usage.TransferredIn.Add(amount).GreaterThan(to.Limits.DailyTransferLimit) {
		return fmt.Errorf("%w: recipient daily transfer limit", apperrors.ErrLimitExceeded)
	}
	if currency == models.CurrencyUSDT && to.Balance.Add(amount).GreaterThan(to.Limits.MaxBalanceUSDT) {
		return fmt.Errorf("%w: recipient max balance", apperrors.ErrLimitExceeded)
	}
	return nil
}

func (p Policy) CheckWithdrawal(amount decimal.Decimal, party TransferParty) error {
	if amount.GreaterThan(p.maxTransaction(party.Limits)) {
		return fmt.Errorf("%w: max transaction", apperrors.ErrLimitExceeded)
	}
	if party.Usage.Withdrawn.Add(amount).GreaterThan(party.Limits.DailyWithdrawalLimit) {
		return fmt.Errorf("%w: daily withdrawal limit", apperrors.ErrLimitExceeded)
	}
	if party.Available.LessThan(amount) {
		return apperrors.ErrInsufficientBalance
	}
	return nil
}

func (p Policy) RequiresSecondApproval(amount decimal.Decimal) bool {
	return amount.GreaterThan(p.LargeWithdrawalThreshold)
}

// ValidateApprovers enforces the owner exclusion and the two-person rule.
// Admin status of both approvers is checked by the caller.
func (p Policy) ValidateApprovers(w models.Withdrawal, approver uuid.UUID, second *uuid.UUID) error {
	if approver == w.UserID {
		return fmt.Errorf("%w: owner cannot approve own withdrawal", apperrors.ErrUnauthorized)
	}
	if !p.RequiresSecondApproval(w.Amount) {
		return nil
	}
	if second == nil || *second == uuid.Nil || *second == approver {
		return apperrors.ErrSecondApprovalRequired
	}
	if *second == w.UserID {
		return fmt.Errorf("%w: owner cannot approve own withdrawal", apperrors.ErrUnauthorized)
	}
	return nil
}

// Remaining returns limit minus used, floored at zero.
func Remaining(limit, used decimal.Decimal) decimal.Decimal {
	r := limit.Sub(used)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

func LimitsView(l models.UserLimits, u models.LimitUsage) models.LimitsView {
	return models.LimitsView{
		Limits:              l,
		Usage:               u,
		RemainingTransfer:   Remaining(l.DailyTransferLimit, u.TransferredOut),
		RemainingWithdrawal: Remaining(l.DailyWithdrawalLimit, u.Withdrawn),
	}
}
