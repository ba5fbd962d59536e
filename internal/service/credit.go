// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/minutely/minutely/internal/metrics"
	"github.com/minutely/minutely/internal/model"
	"github.com/minutely/minutely/internal/payment"
	"github.com/minutely/minutely/internal/repository"
)

// Service errors.
var (
	ErrInvalidPackage      = errors.New("invalid package")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrProvider            = errors.New("payment provider error")
)

// centsPerMinute is the fixed amount-to-minutes conversion policy:
// one currency unit buys one minute. Package pricing must stay in sync.
const centsPerMinute = 100

// Webhook processing outcomes.
const (
	WebhookStatusSuccess   = "success"
	WebhookStatusDuplicate = "duplicate"
	WebhookStatusUnhandled = "unhandled"
)

// Store is the persistence surface the credit service depends on.
type Store interface {
	GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetBalance(ctx context.Context, userID string) (int64, error)
	ConsumeMinutes(ctx context.Context, userID string, minutes int64) (int64, error)
	HasEvent(ctx context.Context, eventID string) (bool, error)
	CreditForEvent(ctx context.Context, event *model.PaymentEvent) (int64, error)
}

// CheckoutProvider creates hosted payment sessions.
type CheckoutProvider interface {
	CreateCheckoutSession(ctx context.Context, priceID string) (string, error)
}

// EventDeduper is an optional fast-path filter for already-seen event ids.
// The database unique constraint remains the authoritative check.
type EventDeduper interface {
	MarkEventSeen(ctx context.Context, eventID string) (bool, error)
	ForgetEvent(ctx context.Context, eventID string) error
}

// CreditService handles checkout creation, webhook crediting, and consumption.
type CreditService struct {
	store    Store
	provider CheckoutProvider
	deduper  EventDeduper
	catalog  model.Catalog
	metrics  metrics.Recorder
}

// NewCreditService creates a new CreditService. deduper may be nil.
func NewCreditService(store Store, provider CheckoutProvider, deduper EventDeduper, catalog model.Catalog, recorder metrics.Recorder) *CreditService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CreditService{
		store:    store,
		provider: provider,
		deduper:  deduper,
		catalog:  catalog,
		metrics:  recorder,
	}
}

// Catalog returns the package catalog.
func (s *CreditService) Catalog() model.Catalog {
	return s.catalog
}

// CreateCheckout resolves the requested package to a price reference and
// requests a hosted checkout session. No ledger mutation happens here; the
// credit lands later via the completion webhook.
func (s *CreditService) CreateCheckout(ctx context.Context, minutes int) (string, error) {
	offer, ok := s.catalog.Lookup(minutes)
	if !ok {
		s.metrics.IncCheckoutRejected("invalid_package")
		return "", fmt.Errorf("%w: %d minutes", ErrInvalidPackage, minutes)
	}

	url, err := s.provider.CreateCheckoutSession(ctx, offer.PriceID)
	if err != nil {
		s.metrics.IncCheckoutRejected("provider_error")
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	s.metrics.IncCheckoutCreated(minutes)
	return url, nil
}

// WebhookResult reports the outcome of processing a verified webhook event.
type WebhookResult struct {
	Status         string
	BalanceMinutes int64
}

// ProcessEvent credits a verified completed-checkout event to the customer's
// ledger. Other event kinds are acknowledged without side effects. Redelivery
// of an already-processed event id is a no-op success, so the provider's
// retry schedule can never double-credit.
func (s *CreditService) ProcessEvent(ctx context.Context, event *payment.Event) (*WebhookResult, error) {
	if !event.IsCheckoutCompleted() {
		s.metrics.IncWebhookProcessed("unhandled")
		return &WebhookResult{Status: WebhookStatusUnhandled}, nil
	}

	if event.AmountTotal < 0 {
		s.metrics.IncWebhookProcessed("rejected")
		return nil, fmt.Errorf("%w: negative amount %d", ErrInvalidRequest, event.AmountTotal)
	}
	minutesPurchased := event.AmountTotal / centsPerMinute

	// Fast-path dedup. The cache key is set before the credit lands, so a
	// hit alone does not prove the event was processed; acknowledging on it
	// would let the provider stop redelivering an uncredited event. A hit is
	// answered as a duplicate only once the ledger confirms the event id.
	// Cache errors fail open for the same reason.
	if s.deduper != nil {
		if isNew, err := s.deduper.MarkEventSeen(ctx, event.ID); err == nil && !isNew {
			if recorded, err := s.store.HasEvent(ctx, event.ID); err == nil && recorded {
				s.metrics.IncWebhookProcessed("duplicate")
				return &WebhookResult{Status: WebhookStatusDuplicate}, nil
			}
		}
	}

	user, err := s.store.GetOrCreateUser(ctx, &model.User{
		ID:    ulid.Make().String(),
		Email: event.CustomerEmail,
	})
	if err != nil {
		s.forgetEvent(ctx, event.ID)
		s.metrics.IncWebhookProcessed("failed")
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	balance, err := s.store.CreditForEvent(ctx, &model.PaymentEvent{
		EventID:        event.ID,
		EventType:      event.Kind,
		UserID:         user.ID,
		MinutesGranted: minutesPurchased,
		ProcessedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEvent) {
			s.metrics.IncWebhookProcessed("duplicate")
			return &WebhookResult{Status: WebhookStatusDuplicate}, nil
		}
		// Let the provider's redelivery retry this event.
		s.forgetEvent(ctx, event.ID)
		s.metrics.IncWebhookProcessed("failed")
		return nil, fmt.Errorf("credit event: %w", err)
	}

	s.metrics.IncWebhookProcessed("success")
	s.metrics.AddMinutesCredited(minutesPurchased)

	return &WebhookResult{Status: WebhookStatusSuccess, BalanceMinutes: balance}, nil
}

// ConsumeMinutes debits minutes from the user's balance and returns what
// remains. A user without a ledger row has balance zero.
func (s *CreditService) ConsumeMinutes(ctx context.Context, email string, minutes int64) (int64, error) {
	if email == "" {
		s.metrics.IncConsumption("invalid")
		return 0, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}
	if minutes <= 0 {
		s.metrics.IncConsumption("invalid")
		return 0, fmt.Errorf("%w: minutes must be a positive integer", ErrInvalidRequest)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Unknown user means balance zero.
			s.metrics.IncConsumption("insufficient")
			return 0, ErrInsufficientBalance
		}
		s.metrics.IncConsumption("failed")
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	remaining, err := s.store.ConsumeMinutes(ctx, user.ID, minutes)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			s.metrics.IncConsumption("insufficient")
			return 0, ErrInsufficientBalance
		}
		s.metrics.IncConsumption("failed")
		return 0, fmt.Errorf("consume minutes: %w", err)
	}

	s.metrics.IncConsumption("success")
	s.metrics.AddMinutesConsumed(minutes)
	return remaining, nil
}

// Balance returns the current minute balance for the given email.
// Unknown users have balance zero.
func (s *CreditService) Balance(ctx context.Context, email string) (int64, error) {
	if email == "" {
		return 0, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("lookup user: %w", err)
	}

	return s.store.GetBalance(ctx, user.ID)
}

func (s *CreditService) forgetEvent(ctx context.Context, eventID string) {
	if s.deduper == nil {
		return
	}
	_ = s.deduper.ForgetEvent(ctx, eventID)
}
