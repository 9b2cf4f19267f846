// ABOUTME: Request log storage operations.
// ABOUTME: Handles inserting and querying HTTP request logs for the admin log page.

package store

import (
	"context"
	"strconv"
	"time"
)

// RequestLog represents an HTTP request log entry
type RequestLog struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Entity       string    `json:"entity"`
	Method       string    `json:"method"`
	Path         string    `json:"path"`
	StatusCode   int       `json:"statusCode"`
	DurationMs   int       `json:"durationMs"`
	Operator     string    `json:"operator"`
	IPAddress    string    `json:"ipAddress"`
	UserAgent    string    `json:"userAgent"`
	Error        string    `json:"error"`
	RequestBody  string    `json:"requestBody"`
	ResponseBody string    `json:"responseBody"`
}

// GetID renders the numeric id as a string so logs fit the generic list controller.
func (l RequestLog) GetID() string { return strconv.FormatInt(l.ID, 10) }

// LogRequest inserts a request log entry
func (s *Store) LogRequest(log *RequestLog) error {
	_, err := s.db.Exec(`
		INSERT INTO request_logs (entity, method, path, status_code, duration_ms, operator, ip_address, user_agent, error, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, log.Entity, log.Method, log.Path, log.StatusCode, log.DurationMs, log.Operator, log.IPAddress, log.UserAgent, log.Error, log.RequestBody, log.ResponseBody)
	return err
}

// RequestLogQuery represents filters for request logs
type RequestLogQuery struct {
	Limit      int
	Offset     int
	Entity     string
	Method     string
	PathPrefix string
	StatusCode int
	Operator   string
}

// RequestLogStats represents aggregate statistics
type RequestLogStats struct {
	TotalRequests   int `json:"totalRequests"`
	TodayRequests   int `json:"todayRequests"`
	ErrorRequests   int `json:"errorRequests"`
	AvgDurationMs   int `json:"avgDurationMs"`
	UniqueEndpoints int `json:"uniqueEndpoints"`
}

func scanRequestLog(sc scanner) (RequestLog, error) {
	var l RequestLog
	err := sc.Scan(&l.ID, &l.Timestamp, &l.Entity, &l.Method, &l.Path, &l.StatusCode,
		&l.DurationMs, &l.Operator, &l.IPAddress, &l.UserAgent, &l.Error,
		&l.RequestBody, &l.ResponseBody)
	return l, err
}

// GetRequestLogs retrieves request logs with filtering, newest first
func (s *Store) GetRequestLogs(ctx context.Context, q *RequestLogQuery) ([]RequestLog, error) {
	query := `SELECT id, timestamp, COALESCE(entity, ''), method, path, COALESCE(status_code, 0), COALESCE(duration_ms, 0),
	          COALESCE(operator, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(error, ''),
	          COALESCE(request_body, ''), COALESCE(response_body, '')
	          FROM request_logs WHERE 1=1`
	args := []any{}

	if q.Entity != "" {
		query += " AND entity = ?"
		args = append(args, q.Entity)
	}
	if q.Method != "" {
		query += " AND method = ?"
		args = append(args, q.Method)
	}
	if q.PathPrefix != "" {
		query += ` AND path LIKE ? ESCAPE '\'`
		args = append(args, escapeSQLLike(q.PathPrefix)+"%")
	}
	if q.StatusCode > 0 {
		query += " AND status_code = ?"
		args = append(args, q.StatusCode)
	}
	if q.Operator != "" {
		query += " AND operator = ?"
		args = append(args, q.Operator)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, q.Offset)

	return queryAll(ctx, s, scanRequestLog, query, args...)
}

// GetRequestLogStats returns aggregate statistics
func (s *Store) GetRequestLogStats(ctx context.Context) (*RequestLogStats, error) {
	stats := &RequestLogStats{}
	today := s.now().UTC().Format("2006-01-02")

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN date(timestamp) = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END), 0),
		       CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER),
		       COUNT(DISTINCT path)
		FROM request_logs
	`, today).Scan(&stats.TotalRequests, &stats.TodayRequests, &stats.ErrorRequests, &stats.AvgDurationMs, &stats.UniqueEndpoints)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
