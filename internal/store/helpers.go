// ABOUTME: SQL helper functions shared by the entity repositories.
// ABOUTME: Wraps execution with debug logging and maps driver errors to store sentinels.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a lookup by id or unique key matches no row.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a unique or foreign key constraint.
	ErrConflict = errors.New("conflict")
)

type scanner interface {
	Scan(dest ...any) error
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.LogError(query, args, time.Since(start), err)
		return nil, mapError(err)
	}
	s.logger.LogExec(query, args, time.Since(start), res)
	return res, nil
}

func queryAll[T any](ctx context.Context, s *Store, scan func(scanner) (T, error), query string, args ...any) ([]T, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.LogError(query, args, time.Since(start), err)
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.logger.LogQuery(query, args, time.Since(start), len(items))
	return items, nil
}

func queryOne[T any](ctx context.Context, s *Store, scan func(scanner) (T, error), query string, args ...any) (T, error) {
	start := time.Now()
	item, err := scan(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		s.logger.LogQuery(query, args, time.Since(start), 0)
		return item, ErrNotFound
	}
	if err != nil {
		s.logger.LogError(query, args, time.Since(start), err)
		return item, err
	}
	s.logger.LogQuery(query, args, time.Since(start), 1)
	return item, nil
}

// requireAffected turns a zero-row UPDATE or DELETE into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// mapError converts SQLite constraint violations into ErrConflict while keeping the driver message.
func mapError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %s", ErrConflict, sqliteErr.Error())
	}
	return err
}

// nullable stores empty optional references as NULL so foreign keys are not checked.
func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// nextNumber returns the next document number for today, e.g. WO-20261017-004.
func (s *Store) nextNumber(ctx context.Context, table, column, prefix string) (string, error) {
	base := prefix + "-" + s.now().Format("20060102") + "-"

	// The suffix is compared as a number so 1000 follows 999.
	var last sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(CAST(substr("+column+", ?) AS INTEGER)) FROM "+table+" WHERE "+column+` LIKE ? ESCAPE '\'`,
		len(base)+1, escapeSQLLike(base)+"%",
	).Scan(&last)
	if err != nil {
		return "", err
	}

	seq := 1
	if last.Valid {
		seq = int(last.Int64) + 1
	}
	return fmt.Sprintf("%s%03d", base, seq), nil
}

// escapeSQLLike escapes SQL LIKE pattern special characters.
// The backslash must be escaped first to avoid double-escaping.
func escapeSQLLike(pattern string) string {
	pattern = strings.ReplaceAll(pattern, "\\", "\\\\")
	pattern = strings.ReplaceAll(pattern, "%", "\\%")
	pattern = strings.ReplaceAll(pattern, "_", "\\_")
	return pattern
}
