package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/minutely/minutely/internal/handler/dto"
	"github.com/minutely/minutely/internal/service"
)

// CheckoutHandler handles checkout session creation.
type CheckoutHandler struct {
	svc    *service.CreditService
	logger *slog.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc *service.CreditService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/checkout-sessions.
func (h *CheckoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCheckoutRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	url, err := h.svc.CreateCheckout(r.Context(), req.Minutes)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("checkout_created",
		"minutes", req.Minutes,
	)

	writeJSON(w, http.StatusOK, dto.CheckoutResponse{URL: url})
}

// handleServiceError maps service errors to HTTP responses.
func (h *CheckoutHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPackage):
		writeError(w, http.StatusBadRequest, "INVALID_PACKAGE", "Invalid package")
	case errors.Is(err, service.ErrProvider):
		h.logger.Error("provider_error", "error", err)
		writeError(w, http.StatusBadGateway, "PROVIDER_ERROR", err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
