package ledger

import (
	"strings"

	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sum folds posted entries of one currency into a balance.
func Sum(entries []models.LedgerEntry, currency models.Currency) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Status != models.EntryPosted || e.Currency != currency {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}

func Available(balance, pendingWithdrawals, heldEscrow decimal.Decimal) decimal.Decimal {
	return balance.Sub(pendingWithdrawals).Sub(heldEscrow)
}

func Breakdown(currency models.Currency, balance, pending, held decimal.Decimal) models.BalanceBreakdown {
	return models.BalanceBreakdown{
		Currency:           currency,
		Balance:            balance,
		PendingWithdrawals: pending,
		HeldEscrow:         held,
		Available:          Available(balance, pending, held),
	}
}

// TransferPair builds the debit and credit legs of a transfer. They always sum to zero.
func TransferPair(t models.Transfer, reference string) (debit, credit models.LedgerEntry) {
	debit = models.LedgerEntry{
		ID:        uuid.New(),
		UserID:    t.FromUser,
		Amount:    t.Amount.Neg(),
		Currency:  t.Currency,
		Type:      models.EntryTransferDebit,
		Reference: reference,
		Status:    models.EntryPosted,
	}
	credit = models.LedgerEntry{
		ID:        uuid.New(),
		UserID:    t.ToUser,
		Amount:    t.Amount,
		Currency:  t.Currency,
		Type:      models.EntryTransferCredit,
		Reference: reference,
		Status:    models.EntryPosted,
	}
	return debit, credit
}

// Reversal negates a posted entry. Pending entries are voided rather than reversed.
func Reversal(e models.LedgerEntry, reference string) models.LedgerEntry {
	id := e.ID
	return models.LedgerEntry{
		ID:         uuid.New(),
		UserID:     e.UserID,
		Amount:     e.Amount.Neg(),
		Currency:   e.Currency,
		Type:       reversalType(e.Type),
		Reference:  reference,
		Status:     models.EntryPosted,
		ReversalOf: &id,
	}
}

func reversalType(t models.EntryType) models.EntryType {
	switch t {
	case models.EntryDeposit:
		return models.EntryWithdrawal
	case models.EntryWithdrawal:
		return models.EntryDeposit
	case models.EntryTransferDebit:
		return models.EntryTransferCredit
	default:
		return models.EntryTransferDebit
	}
}

const (
	transferPrefix   = "transfer:"
	withdrawalPrefix = "withdrawal:"
	escrowPrefix     = "escrow:"
	reversalPrefix   = "reversal:"
)

func TransferReference(id uuid.UUID) string   { return transferPrefix + id.String() }
func WithdrawalReference(id uuid.UUID) string { return withdrawalPrefix + id.String() }
func EscrowReference(id uuid.UUID) string     { return escrowPrefix + id.String() }
func ReversalReference(id uuid.UUID) string   { return reversalPrefix + id.String() }

// ReservedKey reports whether key lives in the namespace the ledger writes
// for its own transfers and entries. Client keys must stay outside it.
func ReservedKey(key string) bool {
	for _, p := range []string{transferPrefix, withdrawalPrefix, escrowPrefix, reversalPrefix} {
		if strings.HasPrefix(strings.ToLower(key), p) {
			return true
		}
	}
	return false
}
