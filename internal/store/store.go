// ABOUTME: Core SQLite store for the rigdesk server.
// ABOUTME: Handles database initialization, migrations, and connection management.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Migration version constants
const (
	MigrationV1 = 1 // Shop schema: customers, technicians, miners, work orders, invoices, payments
	MigrationV2 = 2 // Request log table
	MigrationV3 = 3 // Lookup indexes for foreign keys and request log filters
)

// CurrentSchemaVersion is the target version for the database schema
const CurrentSchemaVersion = MigrationV3

type Store struct {
	db     *sql.DB
	logger *SQLLogger
	now    func() time.Time
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithSQLLogger enables statement logging through l.
func WithSQLLogger(l *SQLLogger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the time source used for timestamps and document numbers.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(dbPath string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &Store{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// Counts returns the number of rows in each shop table, keyed by entity name.
func (s *Store) Counts(ctx context.Context) (map[string]int, error) {
	tables := map[string]string{
		"customers":   "customers",
		"technicians": "technicians",
		"miners":      "miners",
		"work-orders": "work_orders",
		"invoices":    "invoices",
		"payments":    "payments",
	}
	counts := make(map[string]int, len(tables))
	for entity, table := range tables {
		var n int
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[entity] = n
	}
	return counts, nil
}

// migrate runs all pending migrations
func (s *Store) migrate() error {
	if err := s.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := s.getCurrentMigrationVersion()
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if currentVersion < CurrentSchemaVersion {
		log.Printf("Database schema version: %d, target version: %d", currentVersion, CurrentSchemaVersion)
	}

	steps := []struct {
		version     int
		description string
		apply       func() error
	}{
		{MigrationV1, "Create shop tables", s.migrateV1},
		{MigrationV2, "Create request_logs table", s.migrateV2},
		{MigrationV3, "Add lookup indexes", s.migrateV3},
	}

	for _, step := range steps {
		if currentVersion >= step.version {
			continue
		}
		if err := step.apply(); err != nil {
			return fmt.Errorf("migration v%d failed: %w", step.version, err)
		}
		if err := s.recordMigration(step.version, step.description); err != nil {
			return err
		}
		log.Printf("Applied migration v%d: %s", step.version, step.description)
	}

	return nil
}

func (s *Store) createMigrationsTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			description TEXT
		)
	`)
	return err
}

func (s *Store) getCurrentMigrationVersion() (int, error) {
	var version int
	err := s.db.QueryRow(`
		SELECT COALESCE(MAX(version), 0) FROM schema_migrations
	`).Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func (s *Store) recordMigration(version int, description string) error {
	_, err := s.db.Exec(`
		INSERT INTO schema_migrations (version, description)
		VALUES (?, ?)
	`, version, description)
	return err
}

func (s *Store) migrateV1() error {
	schema := `
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS technicians (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		specialty TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		hourly_rate REAL NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS miners (
		id TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		model TEXT NOT NULL,
		manufacturer TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL UNIQUE,
		hashrate REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'RECEIVED',
		notes TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS work_orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		miner_id TEXT REFERENCES miners(id),
		technician_id TEXT REFERENCES technicians(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'PENDING',
		priority TEXT NOT NULL DEFAULT 'MEDIUM',
		estimated_cost REAL NOT NULL DEFAULT 0,
		due_date TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL REFERENCES customers(id),
		work_order_id TEXT REFERENCES work_orders(id),
		amount REAL NOT NULL DEFAULT 0,
		tax REAL NOT NULL DEFAULT 0,
		total REAL NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'DRAFT',
		due_date TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		invoice_id TEXT NOT NULL REFERENCES invoices(id),
		amount REAL NOT NULL DEFAULT 0,
		method TEXT NOT NULL DEFAULT 'CASH',
		status TEXT NOT NULL DEFAULT 'PENDING',
		reference TEXT NOT NULL UNIQUE,
		paid_at TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) migrateV2() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS request_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		entity TEXT DEFAULT '',
		method TEXT NOT NULL,
		path TEXT NOT NULL,
		status_code INTEGER,
		duration_ms INTEGER,
		operator TEXT,
		ip_address TEXT,
		user_agent TEXT,
		request_body TEXT,
		response_body TEXT,
		error TEXT
	)`)
	return err
}

func (s *Store) migrateV3() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_miners_customer ON miners(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_work_orders_customer ON work_orders(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders(status)",
		"CREATE INDEX IF NOT EXISTS idx_invoices_customer ON invoices(customer_id)",
		"CREATE INDEX IF NOT EXISTS idx_payments_invoice ON payments(invoice_id)",
		"CREATE INDEX IF NOT EXISTS idx_request_logs_timestamp ON request_logs(timestamp DESC)",
		"CREATE INDEX IF NOT EXISTS idx_request_logs_entity_method_status ON request_logs(entity, method, status_code)",
	}

	for _, indexSQL := range indexes {
		if _, err := s.db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
