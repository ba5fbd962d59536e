package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// Config holds the Stripe client configuration.
type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
}

// Client creates hosted checkout sessions against the Stripe API.
type Client struct {
	successURL string
	cancelURL  string
}

// NewClient configures the Stripe SDK and returns a Client.
func NewClient(cfg Config) *Client {
	stripe.Key = cfg.SecretKey
	return &Client{
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
	}
}

// CreateCheckoutSession requests a one-time-payment hosted checkout for the
// given price reference and returns the redirect URL. No local state is
// written; the provider records the pending session.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	return s.URL, nil
}
