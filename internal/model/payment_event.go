package model

import "time"

// PaymentEvent records a processed provider event id.
// The provider retries webhook delivery on its own schedule, so the same
// completed-session event can arrive more than once; inserting the event id
// under a unique constraint is what makes crediting idempotent.
type PaymentEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	UserID         string    `json:"user_id"`
	MinutesGranted int64     `json:"minutes_granted"`
	ProcessedAt    time.Time `json:"processed_at"`
}
