package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/a2sh3r/onagui-ledger/internal/apperrors"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=escrow_repository.go -destination=../mocks/repository_mocks/escrow_repository_mock.go -package=repository_mocks

type EscrowRepository interface {
	CreateResource(ctx context.Context, res models.Resource) (models.Resource, error)
	GetResource(ctx context.Context, id uuid.UUID) (models.Resource, error)
	GetHold(ctx context.Context, resourceID uuid.UUID) (models.EscrowHold, error)
	Activate(ctx context.Context, cmd models.ActivationCommand) (models.EscrowResult, error)
	Complete(ctx context.Context, cmd models.CompletionCommand) (models.EscrowResult, error)
	Cancel(ctx context.Context, cmd models.CancelCommand) (models.EscrowResult, error)
	HasWinnerFunction(ctx context.Context) (bool, error)
	PickWinnerCanonical(ctx context.Context, resourceID uuid.UUID, winnerID *uuid.UUID, version int64) (models.Resource, error)
	PickWinnerDirect(ctx context.Context, resourceID uuid.UUID, winnerID *uuid.UUID, version int64, actorID uuid.UUID, note string) (models.Resource, error)
}

type escrowRepo struct {
	db       *sql.DB
	settings Settings
}

func NewEscrowRepository(db *sql.DB, settings Settings) EscrowRepository {
	return &escrowRepo{db: db, settings: settings}
}

const resourceColumns = `id, kind, creator_id, title, prize_amount, currency, status, escrow_amount,
	admin_authored, temp_winner_id, winner_id, version, created_at, updated_at`

func scanResource(row interface{ Scan(dest ...any) error }) (models.Resource, error) {
	var r models.Resource
	err := row.Scan(&r.ID, &r.Kind, &r.CreatorID, &r.Title, &r.PrizeAmount, &r.Currency, &r.Status, &r.EscrowAmount,
		&r.AdminAuthored, &r.TempWinnerID, &r.WinnerID, &r.Version, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

const holdColumns = `id, resource_id, creator_id, amount, currency, status, created_at, updated_at`

func scanHold(row interface{ Scan(dest ...any) error }) (models.EscrowHold, error) {
	var h models.EscrowHold
	err := row.Scan(&h.ID, &h.ResourceID, &h.CreatorID, &h.Amount, &h.Currency, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *escrowRepo) CreateResource(ctx context.Context, res models.Resource) (models.Resource, error) {
	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	out, err := scanResource(r.db.QueryRowContext(ctx, `
		INSERT INTO resources (id, kind, creator_id, title, prize_amount, currency, status, admin_authored)
		VALUES ($1, $2, $3, $4, $5, $6, 'draft', $7)
		RETURNING `+resourceColumns,
		res.ID, res.Kind, res.CreatorID, res.Title, res.PrizeAmount, res.Currency, res.AdminAuthored))
	if err != nil {
		return models.Resource{}, fmt.Errorf("create resource: %w", err)
	}
	return out, nil
}

func (r *escrowRepo) GetResource(ctx context.Context, id uuid.UUID) (models.Resource, error) {
	return getResource(ctx, r.db, id, false)
}

func getResource(ctx context.Context, q querier, id uuid.UUID, forUpdate bool) (models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	res, err := scanResource(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("get resource: %w", err)
	}
	return res, nil
}

func (r *escrowRepo) GetHold(ctx context.Context, resourceID uuid.UUID) (models.EscrowHold, error) {
	return getHold(ctx, r.db, resourceID, false)
}

func getHold(ctx context.Context, q querier, resourceID uuid.UUID, forUpdate bool) (models.EscrowHold, error) {
	query := `SELECT ` + holdColumns + ` FROM escrow_holds WHERE resource_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	h, err := scanHold(q.QueryRowContext(ctx, query, resourceID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.EscrowHold{ResourceID: resourceID, Status: models.HoldNone}, apperrors.ErrNotFound
	}
	if err != nil {
		return models.EscrowHold{}, fmt.Errorf("get hold: %w", err)
	}
	return h, nil
}

func holdStatus(ctx context.Context, q querier, resourceID uuid.UUID) (models.HoldStatus, error) {
	h, err := getHold(ctx, q, resourceID, false)
	if errors.Is(err, apperrors.ErrNotFound) {
		return models.HoldNone, nil
	}
	if err != nil {
		return "", err
	}
	return h.Status, nil
}

// updateResource bumps the version only if nobody else has.
func updateResource(ctx context.Context, q querier, res models.Resource) (models.Resource, error) {
	out, err := scanResource(q.QueryRowContext(ctx, `
		UPDATE resources
		SET status = $3, escrow_amount = $4, temp_winner_id = $5, winner_id = $6,
		    version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING `+resourceColumns,
		res.ID, res.Version, res.Status, res.EscrowAmount, res.TempWinnerID, res.WinnerID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, fmt.Errorf("%w: resource %s version moved", apperrors.ErrConcurrencyConflict, res.ID)
	}
	if err != nil {
		return models.Resource{}, fmt.Errorf("update resource: %w", err)
	}
	return out, nil
}

func canManage(res models.Resource, actorID uuid.UUID, actorIsAdmin bool) bool {
	return actorIsAdmin || res.CreatorID == actorID
}

// bypassesEscrow depends on who created the resource, never on who publishes it.
func bypassesEscrow(res models.Resource, creatorIsAdmin bool) bool {
	return creatorIsAdmin || res.AdminAuthored
}

func wasBypassed(ctx context.Context, q querier, resourceID uuid.UUID) (bool, error) {
	var ok bool
	err := q.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM audit_log WHERE action = 'escrow.bypass' AND subject_id = $1)
	`, resourceID.String()).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("read bypass audit: %w", err)
	}
	return ok, nil
}

func (r *escrowRepo) Activate(ctx context.Context, cmd models.ActivationCommand) (models.EscrowResult, error) {
	var out models.EscrowResult
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		res, err := getResource(ctx, tx, cmd.ResourceID, true)
		if err != nil {
			return err
		}
		if !canManage(res, cmd.ActorID, cmd.ActorIsAdmin) {
			return apperrors.ErrUnauthorized
		}
		if res.Status == models.ResourceActive {
			out.Resource = res
			if out.HoldStatus, err = holdStatus(ctx, tx, res.ID); err != nil {
				return err
			}
			if out.HoldStatus == models.HoldNone {
				out.Bypassed, err = wasBypassed(ctx, tx, res.ID)
			}
			return err
		}
		if !res.Status.Activatable() {
			return fmt.Errorf("%w: cannot activate from %s", apperrors.ErrInvalidResourceState, res.Status)
		}

		required := cmd.RequiredAmount
		if required.IsZero() {
			required = res.PrizeAmount
		}

		if bypassesEscrow(res, cmd.CreatorIsAdmin) {
			res.Status = models.ResourceActive
			res.EscrowAmount = decimal.Zero
			if out.Resource, err = updateResource(ctx, tx, res); err != nil {
				return err
			}
			out.Bypassed = true
			if out.HoldStatus, err = holdStatus(ctx, tx, res.ID); err != nil {
				return err
			}
			return insertAudit(ctx, tx, models.AuditEntry{
				ActorID:     cmd.ActorID,
				Action:      "escrow.bypass",
				SubjectKind: string(res.Kind),
				SubjectID:   res.ID.String(),
				Note:        "escrow bypassed",
				Metadata: map[string]string{
					"required_amount": required.StringFixed(ledger.Scale),
					"currency":        string(res.Currency),
					"admin_authored":  fmt.Sprintf("%t", res.AdminAuthored),
				},
			})
		}

		if required.LessThan(res.PrizeAmount) {
			return fmt.Errorf("%w: hold %s below prize %s", apperrors.ErrInvalidAmount,
				required.StringFixed(ledger.Scale), res.PrizeAmount.StringFixed(ledger.Scale))
		}
		if required.IsPositive() {
			if err := ensureWallet(ctx, tx, res.CreatorID, r.settings.Defaults); err != nil {
				return err
			}
			if err := lockWallets(ctx, tx, res.CreatorID); err != nil {
				return err
			}
			b, err := breakdown(ctx, tx, res.CreatorID, res.Currency)
			if err != nil {
				return err
			}
			if b.Available.LessThan(required) {
				return apperrors.ErrInsufficientEscrowFunds
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO escrow_holds (id, resource_id, creator_id, amount, currency, status)
				VALUES ($1, $2, $3, $4, $5, 'held')
				ON CONFLICT (resource_id) DO UPDATE
				SET creator_id = EXCLUDED.creator_id, amount = EXCLUDED.amount, currency = EXCLUDED.currency,
				    status = 'held', updated_at = now()
			`, uuid.New(), res.ID, res.CreatorID, required, res.Currency); err != nil {
				return fmt.Errorf("insert hold: %w", err)
			}
			out.HoldStatus = models.HoldHeld
		} else {
			out.HoldStatus = models.HoldNone
		}

		res.Status = models.ResourceActive
		res.EscrowAmount = required
		out.Resource, err = updateResource(ctx, tx, res)
		return err
	})
	if err != nil {
		return models.EscrowResult{}, err
	}
	return out, nil
}

func (r *escrowRepo) Complete(ctx context.Context, cmd models.CompletionCommand) (models.EscrowResult, error) {
	var out models.EscrowResult
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		res, err := getResource(ctx, tx, cmd.ResourceID, true)
		if err != nil {
			return err
		}
		if !canManage(res, cmd.ActorID, cmd.ActorIsAdmin) {
			return apperrors.ErrUnauthorized
		}
		if res.Status == models.ResourceCompleted {
			out.Resource = res
			if out.HoldStatus, err = holdStatus(ctx, tx, res.ID); err != nil {
				return err
			}
			return completedPayout(ctx, tx, res, &out)
		}
		if res.Status != models.ResourceActive {
			return fmt.Errorf("%w: cannot complete from %s", apperrors.ErrInvalidResourceState, res.Status)
		}

		winner := cmd.WinnerID
		if winner == nil {
			winner = res.TempWinnerID
		}
		if winner == nil || *winner == uuid.Nil {
			return fmt.Errorf("%w: no winner selected", apperrors.ErrInvalidRequest)
		}

		hold, err := getHold(ctx, tx, res.ID, true)
		hasHold := err == nil && hold.Status == models.HoldHeld
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}

		payout := res.PrizeAmount
		if hasHold {
			payout = decimal.Min(hold.Amount, res.PrizeAmount)
		} else if payout.IsPositive() && !bypassesEscrow(res, cmd.CreatorIsAdmin) {
			return fmt.Errorf("%w: prize not escrowed", apperrors.ErrInsufficientEscrowFunds)
		}

		if *winner != res.CreatorID && payout.IsPositive() {
			for _, id := range []uuid.UUID{res.CreatorID, *winner} {
				if err := ensureWallet(ctx, tx, id, r.settings.Defaults); err != nil {
					return err
				}
			}
			if err := lockWallets(ctx, tx, res.CreatorID, *winner); err != nil {
				return err
			}
			t := models.Transfer{
				ID:             uuid.New(),
				FromUser:       res.CreatorID,
				ToUser:         *winner,
				Amount:         payout,
				Currency:       res.Currency,
				IdempotencyKey: ledger.EscrowReference(res.ID),
			}
			if err := insertTransfer(ctx, tx, &t, ledger.EscrowReference(res.ID)); err != nil {
				return err
			}
			out.TransferID = &t.ID
			out.Payout = payout
			if !hasHold {
				if err := insertAudit(ctx, tx, models.AuditEntry{
					ActorID:     cmd.ActorID,
					Action:      "escrow.bypass_payout",
					SubjectKind: string(res.Kind),
					SubjectID:   res.ID.String(),
					Note:        "admin bypass payout without escrow",
					Metadata: map[string]string{
						"winner_id": winner.String(),
						"amount":    payout.StringFixed(ledger.Scale),
						"currency":  string(res.Currency),
					},
				}); err != nil {
					return err
				}
			}
		}

		out.HoldStatus = models.HoldNone
		if hasHold {
			if _, err := tx.ExecContext(ctx, `
				UPDATE escrow_holds SET status = 'released', updated_at = now() WHERE id = $1
			`, hold.ID); err != nil {
				return fmt.Errorf("release hold: %w", err)
			}
			out.HoldStatus = models.HoldReleased
		}

		res.Status = models.ResourceCompleted
		res.WinnerID = winner
		if out.Resource, err = updateResource(ctx, tx, res); err != nil {
			return err
		}

		if err := refreshWalletCache(ctx, tx, res.CreatorID); err != nil {
			return err
		}
		return refreshWalletCache(ctx, tx, *winner)
	})
	if err != nil {
		return models.EscrowResult{}, err
	}
	return out, nil
}

func completedPayout(ctx context.Context, q querier, res models.Resource, out *models.EscrowResult) error {
	var id uuid.UUID
	var amount decimal.Decimal
	err := q.QueryRowContext(ctx, `
		SELECT id, amount FROM transfers WHERE from_user = $1 AND idempotency_key = $2
	`, res.CreatorID, ledger.EscrowReference(res.ID)).Scan(&id, &amount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read payout: %w", err)
	}
	out.TransferID = &id
	out.Payout = amount
	return nil
}

// Cancel moves a resource to cmd.Target and returns any held funds to the
// creator's available balance. Target draft is the admin unpublish path.
func (r *escrowRepo) Cancel(ctx context.Context, cmd models.CancelCommand) (models.EscrowResult, error) {
	var out models.EscrowResult
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		res, err := getResource(ctx, tx, cmd.ResourceID, true)
		if err != nil {
			return err
		}
		if !canManage(res, cmd.ActorID, cmd.ActorIsAdmin) {
			return apperrors.ErrUnauthorized
		}
		if res.Status == cmd.Target {
			out.Resource = res
			out.HoldStatus, err = holdStatus(ctx, tx, res.ID)
			return err
		}

		switch cmd.Target {
		case models.ResourceDraft:
			if !cmd.ActorIsAdmin {
				return apperrors.ErrUnauthorized
			}
			if res.Status != models.ResourceActive && res.Status != models.ResourcePending {
				return fmt.Errorf("%w: cannot unpublish from %s", apperrors.ErrInvalidResourceState, res.Status)
			}
		case models.ResourceCancelled:
			if res.Status.Terminal() {
				return fmt.Errorf("%w: cannot cancel from %s", apperrors.ErrInvalidResourceState, res.Status)
			}
		default:
			return fmt.Errorf("%w: unsupported target %s", apperrors.ErrInvalidRequest, cmd.Target)
		}

		if out.HoldStatus, err = holdStatus(ctx, tx, res.ID); err != nil {
			return err
		}
		if out.HoldStatus == models.HoldHeld {
			if _, err := tx.ExecContext(ctx, `
				UPDATE escrow_holds SET status = 'cancelled', updated_at = now() WHERE resource_id = $1
			`, res.ID); err != nil {
				return fmt.Errorf("cancel hold: %w", err)
			}
			out.HoldStatus = models.HoldCancelled
		}

		res.Status = cmd.Target
		res.EscrowAmount = decimal.Zero
		res.TempWinnerID = nil
		if out.Resource, err = updateResource(ctx, tx, res); err != nil {
			return err
		}

		if cmd.Target == models.ResourceDraft || res.CreatorID != cmd.ActorID {
			return insertAudit(ctx, tx, models.AuditEntry{
				ActorID:     cmd.ActorID,
				Action:      "resource.status_override",
				SubjectKind: string(res.Kind),
				SubjectID:   res.ID.String(),
				Note:        cmd.Reason,
				Metadata:    map[string]string{"status": string(cmd.Target)},
			})
		}
		return nil
	})
	if err != nil {
		return models.EscrowResult{}, err
	}
	return out, nil
}

func (r *escrowRepo) HasWinnerFunction(ctx context.Context) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
		SELECT to_regprocedure('pick_resource_winner(uuid,uuid,bigint)') IS NOT NULL
	`).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("look up winner function: %w", err)
	}
	return ok, nil
}

func (r *escrowRepo) PickWinnerCanonical(ctx context.Context, resourceID uuid.UUID, winnerID *uuid.UUID, version int64) (models.Resource, error) {
	var out models.Resource
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		var next sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT pick_resource_winner($1, $2, $3)`, resourceID, winnerID, version).Scan(&next); err != nil {
			return fmt.Errorf("pick_resource_winner: %w", err)
		}
		var err error
		if out, err = getResource(ctx, tx, resourceID, false); err != nil {
			return err
		}
		if !next.Valid {
			return pickFailure(out)
		}
		return nil
	})
	if err != nil {
		return models.Resource{}, err
	}
	return out, nil
}

func (r *escrowRepo) PickWinnerDirect(ctx context.Context, resourceID uuid.UUID, winnerID *uuid.UUID, version int64, actorID uuid.UUID, note string) (models.Resource, error) {
	var out models.Resource
	err := inTx(ctx, r.db, writeTx, func(tx *sql.Tx) error {
		var err error
		out, err = scanResource(tx.QueryRowContext(ctx, `
			UPDATE resources SET temp_winner_id = $2, version = version + 1, updated_at = now()
			WHERE id = $1 AND status = 'active' AND version = $3
			RETURNING `+resourceColumns, resourceID, winnerID, version))
		if errors.Is(err, sql.ErrNoRows) {
			cur, err := getResource(ctx, tx, resourceID, false)
			if err != nil {
				return err
			}
			return pickFailure(cur)
		}
		if err != nil {
			return fmt.Errorf("pick winner: %w", err)
		}
		meta := map[string]string{}
		if winnerID != nil {
			meta["winner_id"] = winnerID.String()
		}
		return insertAudit(ctx, tx, models.AuditEntry{
			ActorID:     actorID,
			Action:      "resource.pick_winner",
			SubjectKind: string(out.Kind),
			SubjectID:   out.ID.String(),
			Note:        note,
			Metadata:    meta,
		})
	})
	if err != nil {
		return models.Resource{}, err
	}
	return out, nil
}

func pickFailure(cur models.Resource) error {
	if cur.Status != models.ResourceActive {
		return fmt.Errorf("%w: resource is %s", apperrors.ErrInvalidResourceState, cur.Status)
	}
	return fmt.Errorf("%w: resource version moved", apperrors.ErrConcurrencyConflict)
}
