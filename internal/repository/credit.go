package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minutely/minutely/internal/model"
)

// Common errors for credit ledger operations.
var (
	// ErrInsufficientBalance is returned when a debit would drive the balance negative.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrDuplicateEvent is returned when a provider event id was already processed.
	ErrDuplicateEvent = errors.New("payment event already processed")
)

// GetBalance returns the current minute balance for a user.
// A user without a ledger row has a balance of zero.
func (r *Repository) GetBalance(ctx context.Context, userID string) (int64, error) {
	query := `
		SELECT balance_minutes
		FROM credits
		WHERE user_id = $1
	`

	var balance int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	return balance, nil
}

// AddMinutes credits minutes to a user's balance and returns the new balance.
// The upsert is a single atomic statement so concurrent credits never lose updates.
func (r *Repository) AddMinutes(ctx context.Context, userID string, minutes int64) (int64, error) {
	return addMinutes(ctx, r.pool, userID, minutes)
}

// ConsumeMinutes debits minutes from a user's balance and returns the remaining balance.
// The balance check and the subtraction are one conditional UPDATE, so two
// concurrent debits can never both pass a stale check and drive the balance negative.
// A missing ledger row is treated as a zero balance.
func (r *Repository) ConsumeMinutes(ctx context.Context, userID string, minutes int64) (int64, error) {
	query := `
		UPDATE credits
		SET balance_minutes = balance_minutes - $2, updated_at = $3
		WHERE user_id = $1 AND balance_minutes >= $2
		RETURNING balance_minutes
	`

	var remaining int64
	err := r.pool.QueryRow(ctx, query, userID, minutes, time.Now().UTC()).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrInsufficientBalance
		}
		return 0, fmt.Errorf("failed to consume minutes: %w", err)
	}

	return remaining, nil
}

// HasEvent reports whether a provider event id has already been recorded.
func (r *Repository) HasEvent(ctx context.Context, eventID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM payment_events WHERE event_id = $1
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, eventID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check payment event: %w", err)
	}

	return exists, nil
}

// CreditForEvent records a provider event id and credits the associated minutes
// in a single transaction. If the event id was already recorded the credit is
// skipped and ErrDuplicateEvent is returned with no mutation.
func (r *Repository) CreditForEvent(ctx context.Context, event *model.PaymentEvent) (int64, error) {
	var newBalance int64

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		insert := `
			INSERT INTO payment_events (event_id, event_type, user_id, minutes_granted, processed_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (event_id) DO NOTHING
		`

		tag, err := tx.Exec(ctx, insert,
			event.EventID,
			event.EventType,
			event.UserID,
			event.MinutesGranted,
			event.ProcessedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to record payment event: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return ErrDuplicateEvent
		}

		newBalance, err = addMinutes(ctx, tx, event.UserID, event.MinutesGranted)
		return err
	})

	if err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			return 0, ErrDuplicateEvent
		}
		return 0, err
	}

	return newBalance, nil
}

// querier is the subset of pgx operations shared by pools and transactions.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func addMinutes(ctx context.Context, q querier, userID string, minutes int64) (int64, error) {
	query := `
		INSERT INTO credits (user_id, balance_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET balance_minutes = credits.balance_minutes + EXCLUDED.balance_minutes,
		    updated_at = EXCLUDED.updated_at
		RETURNING balance_minutes
	`

	var balance int64
	err := q.QueryRow(ctx, query, userID, minutes, time.Now().UTC()).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to add minutes: %w", err)
	}

	return balance, nil
}
