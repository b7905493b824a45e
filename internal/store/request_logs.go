// ABOUTME: Request log storage operations.
// ABOUTME: Handles inserting and querying HTTP request logs.

package store

import (
	"database/sql"
	"time"
)

// RequestLog represents an HTTP request log entry
type RequestLog struct {
	ID           int64
	RequestID    string
	Timestamp    time.Time
	APIName      string
	Method       string
	Path         string
	Query        string
	StatusCode   int
	DurationMs   int
	Client       string
	IPAddress    string
	UserAgent    string
	Error        string
	RequestBody  string
	ResponseBody string
}

// LogRequest inserts a request log entry. A zero Timestamp means now.
func (s *Store) LogRequest(log *RequestLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now()
	}
	_, err := s.db.Exec(s.dialect.rebind(`
		INSERT INTO request_logs (request_id, timestamp, api_name, method, path, query, status_code, duration_ms,
			client, ip_address, user_agent, error, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), log.RequestID, log.Timestamp.UTC(), log.APIName, log.Method, log.Path, log.Query, log.StatusCode, log.DurationMs,
		log.Client, log.IPAddress, log.UserAgent, log.Error, log.RequestBody, log.ResponseBody)
	return err
}

// RequestLogQuery represents filters for request logs
type RequestLogQuery struct {
	Limit      int
	Offset     int
	APIName    string
	Method     string
	PathPrefix string
	StatusCode int
	Client     string
}

// RequestLogStats represents aggregate statistics
type RequestLogStats struct {
	TotalRequests   int
	TodayRequests   int
	ErrorRequests   int
	AvgDurationMs   int
	UniqueEndpoints int
	UniqueClients   int
}

const requestLogColumns = `id, COALESCE(request_id, ''), timestamp, COALESCE(api_name, ''), method, path,
	COALESCE(query, ''), COALESCE(status_code, 0), COALESCE(duration_ms, 0),
	COALESCE(client, ''), COALESCE(ip_address, ''), COALESCE(user_agent, ''), COALESCE(error, ''),
	COALESCE(request_body, ''), COALESCE(response_body, '')`

func scanRequestLogs(rows *sql.Rows) ([]*RequestLog, error) {
	var logs []*RequestLog
	for rows.Next() {
		log := &RequestLog{}
		if err := rows.Scan(&log.ID, &log.RequestID, &log.Timestamp, &log.APIName, &log.Method, &log.Path,
			&log.Query, &log.StatusCode, &log.DurationMs,
			&log.Client, &log.IPAddress, &log.UserAgent, &log.Error,
			&log.RequestBody, &log.ResponseBody); err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

// GetRequestLogs retrieves request logs with filtering
func (s *Store) GetRequestLogs(q *RequestLogQuery) ([]*RequestLog, error) {
	query := `SELECT ` + requestLogColumns + ` FROM request_logs WHERE 1=1`
	args := []any{}

	if q.APIName != "" {
		query += " AND api_name = ?"
		args = append(args, q.APIName)
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
	if q.Client != "" {
		query += " AND client = ?"
		args = append(args, q.Client)
	}

	query += " ORDER BY timestamp DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(s.dialect.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequestLogs(rows)
}

// GetRequestLogStats returns aggregate statistics
func (s *Store) GetRequestLogStats() (*RequestLogStats, error) {
	stats := &RequestLogStats{}

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	queries := []struct {
		sql  string
		args []any
		dest *int
	}{
		{"SELECT COUNT(*) FROM request_logs", nil, &stats.TotalRequests},
		{"SELECT COUNT(*) FROM request_logs WHERE timestamp >= ?", []any{startOfDay}, &stats.TodayRequests},
		{"SELECT COUNT(*) FROM request_logs WHERE status_code >= 400", nil, &stats.ErrorRequests},
		{"SELECT CAST(COALESCE(AVG(duration_ms), 0) AS INTEGER) FROM request_logs", nil, &stats.AvgDurationMs},
		{"SELECT COUNT(DISTINCT path) FROM request_logs", nil, &stats.UniqueEndpoints},
		{"SELECT COUNT(DISTINCT client) FROM request_logs WHERE client != ''", nil, &stats.UniqueClients},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(s.dialect.rebind(q.sql), q.args...).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// GetTopEndpoints returns the most frequently requested endpoints
func (s *Store) GetTopEndpoints(limit int) ([]map[string]any, error) {
	rows, err := s.db.Query(s.dialect.rebind(`
		SELECT path, COUNT(*) as count, AVG(duration_ms) as avg_ms
		FROM request_logs
		GROUP BY path
		ORDER BY count DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var endpoints []map[string]any
	for rows.Next() {
		var path string
		var count int
		var avgMs float64
		if err := rows.Scan(&path, &count, &avgMs); err != nil {
			return nil, err
		}
		endpoints = append(endpoints, map[string]any{
			"path":   path,
			"count":  count,
			"avg_ms": int(avgMs), // Round to int for display
		})
	}
	return endpoints, rows.Err()
}

// GetAPIRequestCount returns the number of requests for an API since a given time
func (s *Store) GetAPIRequestCount(apiName string, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRow(s.dialect.rebind(`
		SELECT COUNT(*)
		FROM request_logs
		WHERE api_name = ? AND timestamp >= ?
	`), apiName, since.UTC()).Scan(&count)
	return count, err
}

// GetAPIErrorRate returns the error rate percentage for an API since a given time
func (s *Store) GetAPIErrorRate(apiName string, since time.Time) (float64, error) {
	var totalCount, errorCount int

	err := s.db.QueryRow(s.dialect.rebind(`
		SELECT COUNT(*)
		FROM request_logs
		WHERE api_name = ? AND timestamp >= ?
	`), apiName, since.UTC()).Scan(&totalCount)
	if err != nil {
		return 0, err
	}

	// No requests means 0% error rate
	if totalCount == 0 {
		return 0, nil
	}

	err = s.db.QueryRow(s.dialect.rebind(`
		SELECT COUNT(*)
		FROM request_logs
		WHERE api_name = ? AND timestamp >= ? AND status_code >= 400
	`), apiName, since.UTC()).Scan(&errorCount)
	if err != nil {
		return 0, err
	}

	return (float64(errorCount) / float64(totalCount)) * 100.0, nil
}

// GetRecentRequests returns the most recent requests for an API
func (s *Store) GetRecentRequests(apiName string, limit int) ([]*RequestLog, error) {
	query := `SELECT ` + requestLogColumns + `
	          FROM request_logs
	          WHERE api_name = ?
	          ORDER BY timestamp DESC
	          LIMIT ?`

	rows, err := s.db.Query(s.dialect.rebind(query), apiName, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRequestLogs(rows)
}
