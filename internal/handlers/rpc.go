package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// rpcParams carries the parameter names the frontend and edge functions
// already send to the database RPCs.
type rpcParams struct {
	PUserID         uuid.UUID       `json:"p_user_id"`
	UserUUID        uuid.UUID       `json:"user_uuid"`
	PCurrency       models.Currency `json:"p_currency"`
	PFromUser       uuid.UUID       `json:"p_from_user"`
	PToUser         uuid.UUID       `json:"p_to_user"`
	PAmount         decimal.Decimal `json:"p_amount"`
	PReference      string          `json:"p_reference"`
	PToAddress      string          `json:"p_to_address"`
	AmountToAdd     decimal.Decimal `json:"amount_to_add"`
	AmountToDeduct  decimal.Decimal `json:"amount_to_deduct"`
	Reference       string          `json:"reference"`
	POperation      string          `json:"p_operation"`
	PLimit          int             `json:"p_limit"`
	PWindowMinutes  int             `json:"p_window_minutes"`
	PIdempotencyKey string          `json:"p_idempotency_key"`
	PRequestData    json.RawMessage `json:"p_request_data"`
	PResponseData   json.RawMessage `json:"p_response_data"`
	PStatusCode     int             `json:"p_status_code"`
}

func (p rpcParams) user() uuid.UUID {
	if p.PUserID != uuid.Nil {
		return p.PUserID
	}
	return p.UserUUID
}

type idempotencyResult struct {
	IsDuplicate  bool            `json:"is_duplicate"`
	InFlight     bool            `json:"in_flight"`
	StatusCode   int             `json:"status_code,omitempty"`
	ResponseData json.RawMessage `json:"response_data,omitempty"`
}

type rpcFunc func(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams)

var rpcFuncs = map[string]rpcFunc{
	"get_user_balance":              rpcGetUserBalance,
	"get_available_balance":         rpcGetAvailableBalance,
	"ensure_user_wallet":            rpcEnsureWallet,
	"process_transfer":              rpcProcessTransfer,
	"add_funds_to_wallet_fiat":      rpcAddFunds,
	"deduct_funds_from_wallet_fiat": rpcDeductFunds,
	"is_admin_user":                 rpcIsAdmin,
	"validate_transfer_request":     rpcValidateTransfer,
	"validate_withdrawal_request":   rpcValidateWithdrawal,
	"check_rate_limit":              rpcCheckRateLimit,
	"check_idempotency":             rpcCheckIdempotency,
	"store_idempotency_response":    rpcStoreIdempotency,
}

// RPC dispatches POST /rpc/{name} calls from trusted server-side callers.
func (h *Handler) RPC(w http.ResponseWriter, r *http.Request) {
	fn, ok := rpcFuncs[chi.URLParam(r, "name")]
	if !ok {
		writeMessage(w, http.StatusNotFound, "unknown function")
		return
	}
	var p rpcParams
	if r.ContentLength != 0 && !decodeJSON(w, r, &p) {
		return
	}
	fn(h, w, r, p)
}

func rpcGetUserBalance(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	if _, err := h.walletService.EnsureWallet(r.Context(), p.user()); err != nil {
		writeError(w, "rpc get_user_balance", err)
		return
	}
	balance, err := h.balanceService.GetBalance(r.Context(), p.user(), p.PCurrency)
	if err != nil {
		writeError(w, "rpc get_user_balance", err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func rpcGetAvailableBalance(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	available, err := h.balanceService.GetAvailableBalance(r.Context(), p.user(), p.PCurrency)
	if err != nil {
		writeError(w, "rpc get_available_balance", err)
		return
	}
	writeJSON(w, http.StatusOK, available)
}

func rpcEnsureWallet(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	wallet, err := h.walletService.EnsureWallet(r.Context(), p.user())
	if err != nil {
		writeError(w, "rpc ensure_user_wallet", err)
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func rpcProcessTransfer(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	res, err := h.transferService.Transfer(r.Context(), models.TransferRequest{
		FromUser:       p.PFromUser,
		ToUser:         p.PToUser,
		Amount:         p.PAmount,
		Currency:       p.PCurrency,
		IdempotencyKey: p.PReference,
	})
	if err != nil {
		writeError(w, "rpc process_transfer", err)
		return
	}
	writeJSON(w, http.StatusOK, res.TransferID)
}

func rpcAddFunds(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	entry, err := h.walletService.AddFunds(r.Context(), p.user(), p.AmountToAdd, p.PCurrency, p.Reference)
	if err != nil {
		writeError(w, "rpc add_funds_to_wallet_fiat", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func rpcDeductFunds(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	entry, err := h.walletService.DeductFunds(r.Context(), p.user(), p.AmountToDeduct, p.PCurrency, p.Reference)
	if err != nil {
		writeError(w, "rpc deduct_funds_from_wallet_fiat", err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func rpcIsAdmin(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	writeJSON(w, http.StatusOK, h.admins.IsAdmin(service.WithAdminCache(r.Context()), p.user()))
}

// validation RPCs answer false for rule violations and fail only on
// infrastructure errors.
func writeValidation(w http.ResponseWriter, op string, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, true)
		return
	}
	if status, _ := errorStatus(err); status >= http.StatusInternalServerError {
		writeError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, false)
}

func rpcValidateTransfer(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	err := h.transferService.ValidateTransfer(r.Context(), models.TransferRequest{
		FromUser: p.PFromUser,
		ToUser:   p.PToUser,
		Amount:   p.PAmount,
		Currency: p.PCurrency,
	})
	writeValidation(w, "rpc validate_transfer_request", err)
}

func rpcValidateWithdrawal(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	err := h.withdrawalService.ValidateWithdrawal(r.Context(), models.WithdrawalRequest{
		UserID:    p.user(),
		Amount:    p.PAmount,
		Currency:  p.PCurrency,
		ToAddress: p.PToAddress,
	})
	writeValidation(w, "rpc validate_withdrawal_request", err)
}

func rpcCheckRateLimit(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	if p.user() == uuid.Nil || p.POperation == "" {
		writeMessage(w, http.StatusBadRequest, "p_user_id and p_operation are required")
		return
	}
	ok, _ := h.guardService.CheckRateLimit(r.Context(), p.user(), p.POperation, p.PLimit, time.Duration(p.PWindowMinutes)*time.Minute)
	writeJSON(w, http.StatusOK, ok)
}

func rpcCheckIdempotency(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	check, err := h.guardService.CheckIdempotency(r.Context(), p.PIdempotencyKey, p.POperation, service.HashRequest(p.PRequestData))
	if err != nil {
		writeError(w, "rpc check_idempotency", err)
		return
	}
	out := idempotencyResult{IsDuplicate: check.IsDuplicate, InFlight: check.InFlight}
	if check.IsDuplicate && check.Record != nil {
		out.StatusCode = check.Record.ResponseCode
		if json.Valid(check.Record.ResponseBody) {
			out.ResponseData = check.Record.ResponseBody
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func rpcStoreIdempotency(h *Handler, w http.ResponseWriter, r *http.Request, p rpcParams) {
	code := p.PStatusCode
	if code == 0 {
		code = http.StatusOK
	}
	if err := h.guardService.StoreResponse(r.Context(), p.PIdempotencyKey, code, p.PResponseData); err != nil {
		writeError(w, "rpc store_idempotency_response", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
