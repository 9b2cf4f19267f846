// ABOUTME: Tests for SQLite store initialization and schema migrations.
// ABOUTME: Verifies table creation, idempotent reopen, and row counts.

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test_rigdesk.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fixedClock(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	s := setupTestDB(t)

	tables := []string{"customers", "technicians", "miners", "work_orders", "invoices", "payments", "request_logs", "schema_migrations"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestNewStore_ReopenDoesNotRerunMigrations(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer s.Close()

	var count, version int
	if err := s.db.QueryRow("SELECT COUNT(*), MAX(version) FROM schema_migrations").Scan(&count, &version); err != nil {
		t.Fatalf("query migrations: %v", err)
	}
	if count != CurrentSchemaVersion || version != CurrentSchemaVersion {
		t.Errorf("migrations = %d rows at v%d, want %d rows at v%d", count, version, CurrentSchemaVersion, CurrentSchemaVersion)
	}
}

func TestStore_Counts(t *testing.T) {
	s := setupTestDB(t)
	ctx := context.Background()

	if _, err := s.Customers().Create(ctx, Customer{Name: "Ada", Email: "ada@example.com", Status: "ACTIVE"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	counts, err := s.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts() error = %v", err)
	}
	if counts["customers"] != 1 {
		t.Errorf("customers = %d, want 1", counts["customers"])
	}
	if counts["work-orders"] != 0 {
		t.Errorf("work-orders = %d, want 0", counts["work-orders"])
	}
}
