// ABOUTME: Debug logging for SQL statements executed by the store.
// ABOUTME: Prints timing, affected row counts, and bound arguments when enabled.

package store

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// SQLLogger prints executed statements in a "[SQL] [ms] [rows:n]" format.
// A nil *SQLLogger is valid and logs nothing.
type SQLLogger struct {
	enabled bool
	mu      sync.RWMutex
}

func NewSQLLogger(enabled bool) *SQLLogger {
	return &SQLLogger{enabled: enabled}
}

func (l *SQLLogger) IsEnabled() bool {
	if l == nil {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabled
}

func (l *SQLLogger) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

// LogQuery logs a SELECT with the number of rows it produced
func (l *SQLLogger) LogQuery(query string, args []any, duration time.Duration, rowCount int) {
	if !l.IsEnabled() {
		return
	}
	log.Printf("[SQL] [%.2fms] [rows:%d] %s %s", millis(duration), rowCount, formatQuery(query), formatArgs(args))
}

// LogExec logs an INSERT/UPDATE/DELETE with its affected row count
func (l *SQLLogger) LogExec(query string, args []any, duration time.Duration, result sql.Result) {
	if !l.IsEnabled() {
		return
	}

	rowsAffected := int64(-1)
	if result != nil {
		if affected, err := result.RowsAffected(); err == nil {
			rowsAffected = affected
		}
	}

	if rowsAffected >= 0 {
		log.Printf("[SQL] [%.2fms] [rows:%d] %s %s", millis(duration), rowsAffected, formatQuery(query), formatArgs(args))
		return
	}
	log.Printf("[SQL] [%.2fms] %s %s", millis(duration), formatQuery(query), formatArgs(args))
}

func (l *SQLLogger) LogError(query string, args []any, duration time.Duration, err error) {
	if !l.IsEnabled() {
		return
	}
	log.Printf("[SQL] [%.2fms] [ERROR] %s %s - %v", millis(duration), formatQuery(query), formatArgs(args), err)
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// formatQuery collapses whitespace so multi-line statements log on one line
func formatQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return ""
	}

	formatted := make([]string, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			formatted = append(formatted, fmt.Sprintf("%q", v))
		case nil:
			formatted = append(formatted, "NULL")
		default:
			formatted = append(formatted, fmt.Sprintf("%v", v))
		}
	}
	return fmt.Sprintf("[Args: [%s]]", strings.Join(formatted, ", "))
}
