// Package payment provides the Stripe provider adapter: checkout session
// creation and verification of inbound webhook events.
package payment

import "errors"

// Sentinel errors for provider operations.
var (
	// ErrInvalidSignature is returned when webhook signature verification fails.
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrMalformedEvent is returned when a verified event payload cannot be decoded.
	ErrMalformedEvent = errors.New("malformed event payload")
)

// EventKindCheckoutCompleted is the provider event kind that triggers a credit.
const EventKindCheckoutCompleted = "checkout.session.completed"

// Event is a provider webhook notification normalized for the service layer.
// CustomerEmail and AmountTotal are populated only for completed checkouts.
type Event struct {
	ID            string
	Kind          string
	SessionID     string
	CustomerEmail string
	AmountTotal   int64 // smallest currency unit (cents)
}

// IsCheckoutCompleted reports whether the event should trigger a credit.
func (e *Event) IsCheckoutCompleted() bool {
	return e.Kind == EventKindCheckoutCompleted
}
