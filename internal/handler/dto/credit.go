// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// CreateCheckoutRequest represents the request body for creating a checkout session.
type CreateCheckoutRequest struct {
	Minutes int `json:"minutes"`
}

// CheckoutResponse carries the provider-hosted checkout URL.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// WebhookResponse reports the outcome of a webhook delivery.
type WebhookResponse struct {
	Status string `json:"status"`
}

// ConsumeRequest represents the request body for consuming minutes.
type ConsumeRequest struct {
	Email   string `json:"email"`
	Minutes int64  `json:"minutes"`
}

// ConsumeResponse reports a successful debit and the remaining balance.
type ConsumeResponse struct {
	Status           string `json:"status"`
	RemainingMinutes int64  `json:"remaining_minutes"`
}

// BalanceResponse reports the current balance for a user.
type BalanceResponse struct {
	Email          string `json:"email"`
	BalanceMinutes int64  `json:"balance_minutes"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
