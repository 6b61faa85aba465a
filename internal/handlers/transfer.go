package handlers

import (
	"net/http"

	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
)

func (h *Handler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.FromUser = userID
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get(middleware.IdempotencyKeyHeader)
	}

	res, err := h.transferService.Transfer(r.Context(), req)
	if err != nil {
		writeError(w, "transfer", err)
		return
	}

	if !res.Duplicate {
		h.publish(r.Context(), notify.EventTransferCompleted, userID.String(), map[string]any{
			"transfer_id": res.TransferID,
			"from_user":   userID,
			"to_user":     req.ToUser,
			"amount":      req.Amount,
			"currency":    req.Currency,
		})
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	transfers, err := h.transferService.ListTransfers(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeError(w, "list transfers", err)
		return
	}
	if len(transfers) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, transfers)
}
