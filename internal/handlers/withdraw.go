package handlers

import (
	"net/http"

	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
)

func (h *Handler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.WithdrawalRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = userID
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get(middleware.IdempotencyKeyHeader)
	}

	wd, dup, err := h.withdrawalService.Request(r.Context(), req)
	if err != nil {
		writeError(w, "withdraw", err)
		return
	}
	if dup {
		writeJSON(w, http.StatusOK, wd)
		return
	}

	h.publish(r.Context(), notify.EventWithdrawalRequested, userID.String(), wd)
	writeJSON(w, http.StatusAccepted, wd)
}

func (h *Handler) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	withdrawals, err := h.withdrawalService.List(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeError(w, "list withdrawals", err)
		return
	}
	if len(withdrawals) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, withdrawals)
}
