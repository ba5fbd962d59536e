package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Verifier authenticates and decodes inbound Stripe webhook payloads.
// The signing secret is shared only between this service and Stripe.
type Verifier struct {
	secret string
}

// NewVerifier creates a Verifier with the given webhook signing secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// VerifyAndDecode authenticates rawBody against the Stripe-Signature header
// and returns the normalized event. ErrInvalidSignature is returned when the
// signature does not match; no payload content is trusted in that case.
//
// Events other than completed checkouts are returned with only ID and Kind
// set; the caller decides whether to act on them.
func (v *Verifier) VerifyAndDecode(rawBody []byte, signatureHeader string) (*Event, error) {
	stripeEvent, err := webhook.ConstructEvent(rawBody, signatureHeader, v.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	event := &Event{
		ID:   stripeEvent.ID,
		Kind: string(stripeEvent.Type),
	}

	if !event.IsCheckoutCompleted() {
		return event, nil
	}

	if stripeEvent.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data object", ErrMalformedEvent, stripeEvent.ID)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(stripeEvent.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	event.SessionID = session.ID
	event.AmountTotal = session.AmountTotal
	event.CustomerEmail = session.CustomerEmail
	if event.CustomerEmail == "" && session.CustomerDetails != nil {
		event.CustomerEmail = session.CustomerDetails.Email
	}

	if event.CustomerEmail == "" {
		return nil, fmt.Errorf("%w: completed session %s has no customer email", ErrMalformedEvent, session.ID)
	}

	return event, nil
}
