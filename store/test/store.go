// Package test provides a testing store backed by a real database driver,
// so driver SQL is exercised against an actual database rather than a mock.
package test

import (
	"context"
	"os"
	"testing"

	"github.com/hrygo/venturemind/internal/profile"
	"github.com/hrygo/venturemind/store"
	"github.com/hrygo/venturemind/store/db"
)

// getDriverFromEnv returns the driver under test. SQLite is the default;
// set DRIVER=postgres (with POSTGRES_TEST_DSN) to run against PostgreSQL.
func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

func getTestingProfile(t *testing.T) *profile.Profile {
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:   "dev",
		Data:   t.TempDir(),
		Driver: driver,
	}
	if driver == "postgres" {
		dsn := os.Getenv("POSTGRES_TEST_DSN")
		if dsn == "" {
			t.Skip("POSTGRES_TEST_DSN is not set")
		}
		p.DSN = dsn
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("failed to validate testing profile: %v", err)
	}
	return p
}

// NewTestingStore creates a store over a fresh database and migrates it.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	p := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(p)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(dbDriver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate testing database: %v", err)
	}

	t.Cleanup(func() {
		_ = ts.Close()
	})
	return ts
}
