package handlers

import (
	"net/http"

	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/models"
)

// GetBalance returns every currency breakdown, or one when ?currency= is set.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if _, err := h.walletService.EnsureWallet(r.Context(), userID); err != nil {
		writeError(w, "ensure wallet", err)
		return
	}

	if currency := r.URL.Query().Get("currency"); currency != "" {
		b, err := h.balanceService.Breakdown(r.Context(), userID, models.Currency(currency))
		if err != nil {
			writeError(w, "get balance", err)
			return
		}
		writeJSON(w, http.StatusOK, b)
		return
	}

	summary, err := h.balanceService.Summary(r.Context(), userID)
	if err != nil {
		writeError(w, "get balance", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) GetLimits(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.walletService.Limits(r.Context(), userID, models.Currency(r.URL.Query().Get("currency")))
	if err != nil {
		writeError(w, "get limits", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) GetDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	deposits, err := h.walletService.ListDeposits(r.Context(), userID, queryLimit(r))
	if err != nil {
		writeError(w, "list deposits", err)
		return
	}
	if len(deposits) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, deposits)
}
