// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/minutely/minutely/internal/model"
	"github.com/minutely/minutely/migrations"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 740031

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates all tables from the embedded migrations.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	downs, ups, err := migrationPairs()
	if err != nil {
		return err
	}

	// Down migrations in reverse order so foreign keys drop cleanly.
	for i := len(downs) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, downs[i]); err != nil {
			return err
		}
	}

	for _, name := range ups {
		if err := applyMigration(ctx, pool, name); err != nil {
			return err
		}
	}

	return nil
}

func migrationPairs() (downs, ups []string, err error) {
	entries, err := fs.ReadDir(migrations.Files, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("read migrations: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".down.sql"):
			downs = append(downs, name)
		case strings.HasSuffix(name, ".up.sql"):
			ups = append(ups, name)
		}
	}

	sort.Strings(downs)
	sort.Strings(ups)
	return downs, ups, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, name string) error {
	sqlBytes, err := fs.ReadFile(migrations.Files, name)
	if err != nil {
		return fmt.Errorf("read migration %s: %w", name, err)
	}
	if _, err := pool.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", name, err)
	}
	return nil
}

// UniqueEmail generates a unique email address for test isolation.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, strings.ToLower(ulid.Make().String()))
}

// NewTestUser builds a user with a fresh ULID id and the given email.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	return &model.User{
		ID:        ulid.Make().String(),
		Email:     email,
		CreatedAt: time.Now().UTC(),
	}
}
