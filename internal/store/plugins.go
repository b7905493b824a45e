// ABOUTME: Plugin directory store operations.
// ABOUTME: Paginated row reads, counts and inserts against the plugins table.

package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/2389/wpish/internal/phpserial"
	"github.com/google/uuid"
)

// PluginRecord is one row of the plugins table, passed through unchanged.
// Columns keeps the table's column order.
type PluginRecord struct {
	Columns []string
	Values  map[string]any
}

// Get returns the value of a column.
func (r PluginRecord) Get(column string) (any, bool) {
	v, ok := r.Values[column]
	return v, ok
}

// Map returns the row as a plain map.
func (r PluginRecord) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for _, c := range r.Columns {
		m[c] = r.Values[c]
	}
	return m
}

// MarshalJSON encodes the row as an object with keys in column order.
func (r PluginRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	buf.WriteByte('{')
	for i, c := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		trimNewline(&buf)
		buf.WriteByte(':')
		if err := enc.Encode(r.Values[c]); err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		trimNewline(&buf)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// trimNewline drops the newline json.Encoder appends after each value.
func trimNewline(buf *bytes.Buffer) {
	if n := buf.Len(); n > 0 && buf.Bytes()[n-1] == '\n' {
		buf.Truncate(n - 1)
	}
}

// ToStdClass converts the row to the stdClass object the query builder yields.
func (r PluginRecord) ToStdClass() *phpserial.Object {
	obj := phpserial.NewStdClass()
	for _, c := range r.Columns {
		obj.Properties = append(obj.Properties, phpserial.Property{Name: c, Value: r.Values[c]})
	}
	return obj
}

// Plugin is the write model used when seeding the directory.
type Plugin struct {
	ID               string
	Slug             string
	Name             string
	Version          string
	Author           string
	AuthorProfile    string
	Requires         string
	Tested           string
	RequiresPHP      string
	Rating           int
	NumRatings       int
	ActiveInstalls   int64
	Downloaded       int64
	ShortDescription string
	Homepage         string
	DownloadLink     string
	Tags             map[string]string
	Added            string
	LastUpdated      string
}

// ListPlugins returns at most take rows after skipping skip rows, in the
// table's default order. A negative skip reads from the start and a negative
// take yields no rows.
func (s *Store) ListPlugins(ctx context.Context, skip, take int) ([]PluginRecord, error) {
	if skip < 0 {
		skip = 0
	}
	if take < 0 {
		take = 0
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind("SELECT * FROM plugins LIMIT ? OFFSET ?"), take, skip)
	if err != nil {
		return nil, fmt.Errorf("list plugins: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// CountPlugins returns the total number of rows in the plugins table.
func (s *Store) CountPlugins(ctx context.Context) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plugins").Scan(&total); err != nil {
		return 0, fmt.Errorf("count plugins: %w", err)
	}
	return total, nil
}

// GetPlugin looks a row up by id or slug.
func (s *Store) GetPlugin(ctx context.Context, idOrSlug string) (PluginRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind("SELECT * FROM plugins WHERE id = ? OR slug = ? LIMIT 1"), idOrSlug, idOrSlug)
	if err != nil {
		return PluginRecord{}, fmt.Errorf("get plugin: %w", err)
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return PluginRecord{}, err
	}
	if len(records) == 0 {
		return PluginRecord{}, sql.ErrNoRows
	}
	return records[0], nil
}

// CreatePlugin inserts a plugin row, assigning a UUID when ID is empty.
func (s *Store) CreatePlugin(ctx context.Context, p *Plugin) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	tags := p.Tags
	if tags == nil {
		tags = map[string]string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO plugins (id, slug, name, version, author, author_profile, requires, tested, requires_php,
			rating, num_ratings, active_installs, downloaded, short_description, homepage, download_link,
			tags, added, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.Slug, p.Name, p.Version, p.Author, p.AuthorProfile, p.Requires, p.Tested, p.RequiresPHP,
		p.Rating, p.NumRatings, p.ActiveInstalls, p.Downloaded, p.ShortDescription, p.Homepage, p.DownloadLink,
		string(tagsJSON), p.Added, p.LastUpdated)
	if err != nil {
		return fmt.Errorf("insert plugin %s: %w", p.Slug, err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]PluginRecord, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []PluginRecord{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		rec := PluginRecord{Columns: columns, Values: make(map[string]any, len(columns))}
		for i, c := range columns {
			rec.Values[c] = normalizeValue(values[i])
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// normalizeValue maps driver values onto JSON- and serialize-friendly types.
func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		return t.UTC().Format("2006-01-02 15:04:05")
	case int32:
		return int64(t)
	}
	return v
}
