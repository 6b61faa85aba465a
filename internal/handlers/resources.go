package handlers

import (
	"net/http"

	"github.com/a2sh3r/onagui-ledger/internal/middleware"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type activateRequest struct {
	RequiredAmount decimal.Decimal `json:"required_amount"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

type completeRequest struct {
	WinnerID *uuid.UUID `json:"winner_id"`
}

func resourceID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid resource id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) CreateResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req models.RegisterResourceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.CreatorID = userID

	res, err := h.escrowService.Register(r.Context(), req)
	if err != nil {
		writeError(w, "register resource", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handler) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := resourceID(w, r)
	if !ok {
		return
	}
	res, err := h.escrowService.Get(r.Context(), id)
	if err != nil {
		writeError(w, "get resource", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ActivateResource reserves the prize from the creator's wallet. Without a
// required_amount the resource prize is used.
func (h *Handler) ActivateResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	var req activateRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.escrowService.Activate(r.Context(), id, userID, req.RequiredAmount)
	if err != nil {
		writeError(w, "activate resource", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) CancelResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	var req cancelRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.escrowService.Cancel(r.Context(), id, userID, req.Reason)
	if err != nil {
		writeError(w, "cancel resource", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) CompleteResource(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := resourceID(w, r)
	if !ok {
		return
	}

	var req completeRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	h.complete(w, r, id, userID, req.WinnerID)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request, id, actorID uuid.UUID, winnerID *uuid.UUID) {
	res, err := h.escrowService.Complete(r.Context(), id, actorID, winnerID)
	if err != nil {
		writeError(w, "complete resource", err)
		return
	}

	creator := res.Resource.CreatorID.String()
	if res.HoldStatus == models.HoldReleased {
		h.publish(r.Context(), notify.EventEscrowReleased, creator, res)
	}
	if res.Resource.WinnerID != nil {
		h.publish(r.Context(), notify.EventWinnerFinalized, res.Resource.WinnerID.String(), map[string]any{
			"resource_id": res.Resource.ID,
			"kind":        res.Resource.Kind,
			"title":       res.Resource.Title,
			"prize":       res.Payout,
			"currency":    res.Resource.Currency,
		})
	}
	writeJSON(w, http.StatusOK, res)
}
