package handlers

import (
	"net/http"

	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type processTransactionRequest struct {
	WithdrawalID     uuid.UUID  `json:"withdrawal_id"`
	Action           string     `json:"action"`
	Passphrase       string     `json:"passphrase"`
	SecondApproverID *uuid.UUID `json:"second_approver_id"`
	Reason           string     `json:"reason"`
}

type giveawayStatusRequest struct {
	ResourceID uuid.UUID `json:"resource_id"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason"`
}

type giveawayWinnerRequest struct {
	ResourceID uuid.UUID  `json:"resource_id"`
	WinnerID   *uuid.UUID `json:"winner_id"`
}

type reverseRequest struct {
	EntryID uuid.UUID `json:"entry_id"`
	Reason  string    `json:"reason"`
}

type reconcileRequest struct {
	Repair bool `json:"repair"`
}

// RequireAdmin rejects callers the admin resolver does not recognise.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !h.admins.IsAdmin(r.Context(), userID) {
			writeMessage(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) ProcessTransaction(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req processTransactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.WithdrawalID == uuid.Nil {
		writeMessage(w, http.StatusBadRequest, "withdrawal_id is required")
		return
	}
	if err := h.passphrase.Verify(req.Passphrase); err != nil {
		writeError(w, "process transaction", err)
		return
	}

	var (
		wd  models.Withdrawal
		err error
	)
	switch req.Action {
	case "approve":
		wd, err = h.withdrawalService.Approve(r.Context(), req.WithdrawalID, adminID, req.SecondApproverID)
	case "reject":
		wd, err = h.withdrawalService.Reject(r.Context(), req.WithdrawalID, adminID, req.Reason)
	case "review":
		wd, err = h.withdrawalService.StartReview(r.Context(), req.WithdrawalID, adminID)
	default:
		writeMessage(w, http.StatusBadRequest, "action must be approve, reject or review")
		return
	}
	if err != nil {
		writeError(w, "process transaction", err)
		return
	}

	switch {
	case req.Action == "approve" && wd.Status == models.WithdrawalCompleted:
		h.publish(r.Context(), notify.EventWithdrawalCompleted, wd.UserID.String(), wd)
	case req.Action == "reject" && wd.Status == models.WithdrawalRejected:
		h.publish(r.Context(), notify.EventWithdrawalRejected, wd.UserID.String(), wd)
	}
	writeJSON(w, http.StatusOK, wd)
}

func (h *Handler) ListPendingWithdrawals(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.withdrawalService.ListPending(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, "list pending withdrawals", err)
		return
	}
	writeJSON(w, http.StatusOK, withdrawals)
}

// SetGiveawayStatus publishes (active), unpublishes (draft) or cancels. Publishing
// skips escrow only for resources an admin created.
func (h *Handler) SetGiveawayStatus(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req giveawayStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ResourceID == uuid.Nil {
		writeMessage(w, http.StatusBadRequest, "resource_id is required")
		return
	}

	var (
		res models.EscrowResult
		err error
	)
	switch models.ResourceStatus(req.Status) {
	case models.ResourceActive:
		res, err = h.escrowService.Activate(r.Context(), req.ResourceID, adminID, decimal.Zero)
	case models.ResourceDraft:
		res, err = h.escrowService.Unpublish(r.Context(), req.ResourceID, adminID, req.Reason)
	case models.ResourceCancelled:
		res, err = h.escrowService.Cancel(r.Context(), req.ResourceID, adminID, req.Reason)
	default:
		writeMessage(w, http.StatusBadRequest, "status must be active, draft or cancelled")
		return
	}
	if err != nil {
		writeError(w, "set giveaway status", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PickWinner(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req giveawayWinnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ResourceID == uuid.Nil || req.WinnerID == nil {
		writeMessage(w, http.StatusBadRequest, "resource_id and winner_id are required")
		return
	}

	res, err := h.escrowService.DrawWinner(r.Context(), req.ResourceID, adminID, *req.WinnerID)
	if err != nil {
		writeError(w, "pick winner", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) RepickWinner(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req giveawayWinnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ResourceID == uuid.Nil {
		writeMessage(w, http.StatusBadRequest, "resource_id is required")
		return
	}

	res, err := h.escrowService.Repick(r.Context(), req.ResourceID, adminID)
	if err != nil {
		writeError(w, "repick winner", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) CompleteGiveaway(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req giveawayWinnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ResourceID == uuid.Nil {
		writeMessage(w, http.StatusBadRequest, "resource_id is required")
		return
	}
	h.complete(w, r, req.ResourceID, adminID, req.WinnerID)
}

func (h *Handler) ReverseEntry(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserID(r.Context())

	var req reverseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.walletService.Reverse(r.Context(), req.EntryID, adminID, req.Reason)
	if err != nil {
		writeError(w, "reverse entry", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	report, err := h.walletService.ReconcileAll(r.Context(), req.Repair)
	if err != nil {
		writeError(w, "reconcile", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
