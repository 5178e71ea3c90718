// Package sandbox executes practice queries against a seeded, throwaway
// SQLite database.
//
// Every Sandbox owns one in-memory database holding the HR/Commerce
// practice schema. After seeding, the connection is switched to
// query_only so an attempt can never change the data another attempt sees.
package sandbox

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

//go:embed sql/schema.sql
var schemaSQL string

//go:embed sql/seed.sql
var seedSQL string

// ErrEmptyQuery is returned when Query is called with blank SQL.
var ErrEmptyQuery = errors.New("sandbox: empty query")

// NullText is how SQL NULL is rendered in results.
const NullText = "NULL"

// Result is a fully materialised result set with every value rendered as text.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Sandbox is a seeded in-memory database.
type Sandbox struct {
	db *sql.DB
}

// Open creates a fresh sandbox with the practice schema and seed data.
func Open(ctx context.Context) (*Sandbox, error) {
	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sandbox: %w", err)
	}

	// An in-memory database lives and dies with its connection, so the pool
	// must hold exactly one that never expires.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	steps := []struct {
		name string
		sql  string
	}{
		{name: "schema", sql: schemaSQL},
		{name: "seed", sql: seedSQL},
		{name: "query_only", sql: "PRAGMA query_only = ON;"},
	}

	for _, step := range steps {
		if _, err := db.ExecContext(ctx, step.sql); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sandbox %s: %w", step.name, err)
		}
	}

	return &Sandbox{db: db}, nil
}

// Query runs a single statement and returns its rows rendered as text.
func (s *Sandbox) Query(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &Result{Columns: columns, Rows: [][]string{}}

	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = FormatValue(v)
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// Close releases the in-memory database.
func (s *Sandbox) Close() error {
	return s.db.Close()
}

// FormatValue renders a driver value the way expected rows are written:
// NULL for nil, integral floats without a fraction, dates as YYYY-MM-DD.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case []byte:
		return string(x)
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
