package testutil

import (
	"context"
	"sync"

	"github.com/minutely/minutely/internal/model"
	"github.com/minutely/minutely/internal/repository"
)

// MemStore is an in-memory, thread-safe stand-in for the Postgres repository.
// It mirrors the repository's atomicity semantics under a single mutex and
// returns the repository's sentinel errors.
type MemStore struct {
	mu           sync.Mutex
	usersByEmail map[string]*model.User
	balances     map[string]int64
	events       map[string]struct{}
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		usersByEmail: make(map[string]*model.User),
		balances:     make(map[string]int64),
		events:       make(map[string]struct{}),
	}
}

// GetOrCreateUser returns the user for the email, creating it if absent.
func (m *MemStore) GetOrCreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.usersByEmail[user.Email]; ok {
		return existing, nil
	}
	copied := *user
	m.usersByEmail[user.Email] = &copied
	return &copied, nil
}

// GetUserByEmail returns the user or repository.ErrUserNotFound.
func (m *MemStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

// GetBalance returns the balance, zero for users without a ledger row.
func (m *MemStore) GetBalance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

// ConsumeMinutes performs the check-and-subtract atomically under the lock.
func (m *MemStore) ConsumeMinutes(ctx context.Context, userID string, minutes int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	balance := m.balances[userID]
	if balance < minutes {
		return 0, repository.ErrInsufficientBalance
	}
	m.balances[userID] = balance - minutes
	return m.balances[userID], nil
}

// HasEvent reports whether the event id has been recorded.
func (m *MemStore) HasEvent(ctx context.Context, eventID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, seen := m.events[eventID]
	return seen, nil
}

// CreditForEvent records the event id and credits minutes, or returns
// repository.ErrDuplicateEvent for an already-seen id.
func (m *MemStore) CreditForEvent(ctx context.Context, event *model.PaymentEvent) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, seen := m.events[event.EventID]; seen {
		return 0, repository.ErrDuplicateEvent
	}
	m.events[event.EventID] = struct{}{}
	m.balances[event.UserID] += event.MinutesGranted
	return m.balances[event.UserID], nil
}

// SetBalance seeds a balance directly, creating the user if needed.
func (m *MemStore) SetBalance(email string, minutes int64) *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByEmail[email]
	if !ok {
		user = &model.User{ID: "user-" + email, Email: email}
		m.usersByEmail[email] = user
	}
	m.balances[user.ID] = minutes
	return user
}
