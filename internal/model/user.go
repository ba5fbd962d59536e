// Package model defines domain entities for the application.
package model

import "time"

// User represents a minimal user entity resolved by email.
// Account management is owned by an external identity system;
// this service only needs a stable internal id per email.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}
