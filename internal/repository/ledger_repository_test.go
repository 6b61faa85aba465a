package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transferCmd(from, to uuid.UUID, amount, key string) models.TransferCommand {
	return models.TransferCommand{TransferRequest: models.TransferRequest{
		FromUser:       from,
		ToUser:         to,
		Amount:         dec(amount),
		Currency:       models.CurrencyUSDT,
		IdempotencyKey: key,
	}}
}

func TestLedgerRepo_Transfer(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	wallets := NewWalletRepository(db, testSettings())
	a, b := uuid.New(), uuid.New()
	fund(t, r, a, "100.00")

	res, err := r.ExecuteTransfer(ctx, transferCmd(a, b, "30.00", "t1"))
	require.NoError(t, err)
	assert.False(t, res.Duplicate)
	assert.True(t, dec("70").Equal(res.FromBalance))
	assert.True(t, dec("30").Equal(res.ToBalance))

	entries, err := r.ListEntries(ctx, b, models.EntryTransferCredit, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.TransferReference(res.TransferID), entries[0].Reference)

	wa, err := wallets.GetWallet(ctx, a)
	require.NoError(t, err)
	assert.True(t, dec("70").Equal(wa.BalanceFiat))
}

func TestLedgerRepo_Transfer_IdempotentRetry(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	a, b := uuid.New(), uuid.New()
	fund(t, r, a, "100.00")
	before := ledgerRows(t, db)

	first, err := r.ExecuteTransfer(ctx, transferCmd(a, b, "10.00", "k1"))
	require.NoError(t, err)
	second, err := r.ExecuteTransfer(ctx, transferCmd(a, b, "10.00", "k1"))
	require.NoError(t, err)

	assert.Equal(t, first.TransferID, second.TransferID)
	assert.True(t, second.Duplicate)
	assert.Equal(t, before+2, ledgerRows(t, db))

	_, err = r.ExecuteTransfer(ctx, transferCmd(a, b, "11.00", "k1"))
	assert.ErrorIs(t, err, apperrors.ErrIdempotencyConflict)
}

func TestLedgerRepo_Transfer_KeysScopedPerSender(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	fund(t, r, a, "100.00")
	fund(t, r, b, "100.00")

	first, err := r.ExecuteTransfer(ctx, transferCmd(a, c, "10.00", "order-1"))
	require.NoError(t, err)
	second, err := r.ExecuteTransfer(ctx, transferCmd(b, c, "25.00", "order-1"))
	require.NoError(t, err)

	assert.NotEqual(t, first.TransferID, second.TransferID)
	assert.False(t, second.Duplicate)
	assert.True(t, dec("35").Equal(second.ToBalance))
}

func TestEscrowRepo_Complete_PayoutIgnoresClientKeys(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	lr := NewLedgerRepository(db, testSettings())
	er := NewEscrowRepository(db, testSettings())
	creator, winner, other := uuid.New(), uuid.New(), uuid.New()
	fund(t, lr, creator, "100.00")
	fund(t, lr, other, "100.00")

	res, err := er.CreateResource(ctx, models.Resource{
		Kind: models.ResourceGiveaway, CreatorID: creator, Title: "t", PrizeAmount: dec("40.00"), Currency: models.CurrencyUSDT,
	})
	require.NoError(t, err)
	_, err = lr.ExecuteTransfer(ctx, transferCmd(other, winner, "1.00", ledger.EscrowReference(res.ID)))
	require.NoError(t, err)

	_, err = er.Activate(ctx, models.ActivationCommand{ResourceID: res.ID, ActorID: creator})
	require.NoError(t, err)
	done, err := er.Complete(ctx, models.CompletionCommand{ResourceID: res.ID, ActorID: creator, WinnerID: &winner})
	require.NoError(t, err)
	assert.True(t, dec("40").Equal(done.Payout))

	bal, err := lr.GetBalance(ctx, winner, models.CurrencyUSDT)
	require.NoError(t, err)
	assert.True(t, dec("41").Equal(bal))
}

func TestLedgerRepo_Transfer_InsufficientLeavesNoRows(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	a, b := uuid.New(), uuid.New()
	fund(t, r, a, "5.00")
	before := ledgerRows(t, db)

	_, err := r.ExecuteTransfer(ctx, transferCmd(a, b, "10.00", "k2"))
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.Equal(t, before, ledgerRows(t, db))
}

func TestLedgerRepo_Transfer_Concurrent(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	a, b := uuid.New(), uuid.New()
	fund(t, r, a, "100.00")

	var wg sync.WaitGroup
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := uuid.NewString()
			for attempt := 0; attempt < 20; attempt++ {
				_, err := r.ExecuteTransfer(ctx, transferCmd(a, b, "10.00", key))
				if !errors.Is(err, apperrors.ErrConcurrencyConflict) {
					return
				}
			}
		}()
	}
	wg.Wait()

	balA, err := r.GetBalance(ctx, a, models.CurrencyUSDT)
	require.NoError(t, err)
	balB, err := r.GetBalance(ctx, b, models.CurrencyUSDT)
	require.NoError(t, err)

	assert.False(t, balA.IsNegative())
	assert.True(t, dec("100").Equal(balA.Add(balB)))
}

func TestLedgerRepo_Reverse(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	user, admin := uuid.New(), uuid.New()

	dep, err := r.PostDeposit(ctx, user, dec("40.00"), models.CurrencyUSDT, "dep-1")
	require.NoError(t, err)

	rev, err := r.Reverse(ctx, dep.ID, admin, "chargeback")
	require.NoError(t, err)
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, dep.ID, *rev.ReversalOf)

	again, err := r.Reverse(ctx, dep.ID, admin, "chargeback")
	require.NoError(t, err)
	assert.Equal(t, rev.ID, again.ID)

	bal, err := r.GetBalance(ctx, user, models.CurrencyUSDT)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())
}

func TestLedgerRepo_Reverse_TransferLegReversesBoth(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	a, b, admin := uuid.New(), uuid.New(), uuid.New()
	fund(t, r, a, "100.00")

	_, err := r.ExecuteTransfer(ctx, transferCmd(a, b, "30.00", "t-rev"))
	require.NoError(t, err)
	credits, err := r.ListEntries(ctx, b, models.EntryTransferCredit, 10)
	require.NoError(t, err)
	require.Len(t, credits, 1)

	rev, err := r.Reverse(ctx, credits[0].ID, admin, "disputed transfer")
	require.NoError(t, err)
	require.NotNil(t, rev.ReversalOf)
	assert.Equal(t, credits[0].ID, *rev.ReversalOf)

	balA, err := r.GetBalance(ctx, a, models.CurrencyUSDT)
	require.NoError(t, err)
	balB, err := r.GetBalance(ctx, b, models.CurrencyUSDT)
	require.NoError(t, err)
	assert.True(t, dec("100").Equal(balA))
	assert.True(t, balB.IsZero())

	debits, err := r.ListEntries(ctx, a, models.EntryTransferDebit, 10)
	require.NoError(t, err)
	require.Len(t, debits, 1)
	again, err := r.Reverse(ctx, debits[0].ID, admin, "disputed transfer")
	require.NoError(t, err)
	require.NotNil(t, again.ReversalOf)
	assert.Equal(t, debits[0].ID, *again.ReversalOf)

	var reversals int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM ledger WHERE reversal_of IS NOT NULL`).Scan(&reversals))
	assert.Equal(t, 2, reversals)
}

func TestLedgerRepo_PostDeduction(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()
	r := NewLedgerRepository(db, testSettings())
	user := uuid.New()
	fund(t, r, user, "20.00")

	_, err := r.PostDeduction(ctx, user, dec("25.00"), models.CurrencyUSDT, "fee-1")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)

	e, err := r.PostDeduction(ctx, user, dec("5.00"), models.CurrencyUSDT, "fee-1")
	require.NoError(t, err)
	assert.True(t, dec("-5").Equal(e.Amount))

	b, err := r.GetBreakdown(ctx, user, models.CurrencyUSDT)
	require.NoError(t, err)
	assert.True(t, dec("15").Equal(b.Available))
}
