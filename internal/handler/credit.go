package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/minutely/minutely/internal/handler/dto"
	"github.com/minutely/minutely/internal/service"
)

// CreditHandler handles balance consumption and inspection.
type CreditHandler struct {
	svc    *service.CreditService
	logger *slog.Logger
}

// NewCreditHandler creates a new CreditHandler.
func NewCreditHandler(svc *service.CreditService, logger *slog.Logger) *CreditHandler {
	return &CreditHandler{
		svc:    svc,
		logger: logger,
	}
}

// Consume handles POST /api/v1/credits/consume.
func (h *CreditHandler) Consume(w http.ResponseWriter, r *http.Request) {
	var req dto.ConsumeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	remaining, err := h.svc.ConsumeMinutes(r.Context(), req.Email, req.Minutes)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("minutes_consumed",
		"minutes", req.Minutes,
		"remaining_minutes", remaining,
	)

	writeJSON(w, http.StatusOK, dto.ConsumeResponse{
		Status:           "minutes used",
		RemainingMinutes: remaining,
	})
}

// Balance handles GET /api/v1/credits/balance?email=...
func (h *CreditHandler) Balance(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	balance, err := h.svc.Balance(r.Context(), email)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		Email:          email,
		BalanceMinutes: balance,
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *CreditHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientBalance):
		writeError(w, http.StatusBadRequest, "INSUFFICIENT_BALANCE", "Insufficient balance")
	case errors.Is(err, service.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Email and a positive minute count are required")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
