package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/minutely/minutely/internal/handler/dto"
	"github.com/minutely/minutely/internal/payment"
	"github.com/minutely/minutely/internal/service"
)

// SignatureHeader is the provider's webhook signature header.
const SignatureHeader = "Stripe-Signature"

// EventVerifier authenticates and decodes raw webhook payloads.
type EventVerifier interface {
	VerifyAndDecode(rawBody []byte, signatureHeader string) (*payment.Event, error)
}

// WebhookHandler consumes provider payment notifications.
type WebhookHandler struct {
	verifier EventVerifier
	svc      *service.CreditService
	logger   *slog.Logger
	maxBody  int64
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(verifier EventVerifier, svc *service.CreditService, logger *slog.Logger, maxBody int64) *WebhookHandler {
	return &WebhookHandler{
		verifier: verifier,
		svc:      svc,
		logger:   logger,
		maxBody:  maxBody,
	}
}

// Handle processes POST /webhooks/stripe.
//
// Signature verification is the authentication mechanism for this endpoint;
// nothing in the payload is trusted before it succeeds. Redelivered events
// are acknowledged as success so the provider stops retrying.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Unable to read request body")
		return
	}

	event, err := h.verifier.VerifyAndDecode(rawBody, r.Header.Get(SignatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrInvalidSignature):
			h.logger.Warn("webhook_signature_rejected", "error", err)
			writeError(w, http.StatusBadRequest, "INVALID_SIGNATURE", "Webhook signature verification failed")
		default:
			h.logger.Warn("webhook_malformed_event", "error", err)
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "Malformed event payload")
		}
		return
	}

	result, err := h.svc.ProcessEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			h.logger.Warn("webhook_rejected", "event_id", event.ID, "error", err)
			writeError(w, http.StatusBadRequest, "INVALID_BODY", "Malformed event payload")
			return
		}
		// 5xx so the provider redelivers; the idempotency key makes that safe.
		h.logger.Error("webhook_processing_failed", "event_id", event.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		return
	}

	switch result.Status {
	case service.WebhookStatusUnhandled:
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: "unhandled event"})
	case service.WebhookStatusDuplicate:
		h.logger.Info("webhook_duplicate_delivery", "event_id", event.ID)
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: "success"})
	default:
		h.logger.Info("webhook_credited",
			"event_id", event.ID,
			"balance_minutes", result.BalanceMinutes,
		)
		writeJSON(w, http.StatusOK, dto.WebhookResponse{Status: "success"})
	}
}
