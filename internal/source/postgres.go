package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/posting-planner/internal/dataset"
)

// PostgresReader reads an address table from Postgres. The table must have
// the canonical columns; households may be any type castable to text.
type PostgresReader struct {
	db *sql.DB
}

// NewPostgresReader creates a reader on an open database
func NewPostgresReader(db *sql.DB) *PostgresReader {
	return &PostgresReader{db: db}
}

// ReadTable loads every row of table in physical order
func (r *PostgresReader) ReadTable(ctx context.Context, table string) (*dataset.Table, error) {
	name := "postgres:" + table
	query := fmt.Sprintf(
		`SELECT address, households::text, latitude, longitude FROM %s`,
		quoteTable(table),
	)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dataset.NewLoadError(name, "query failed", err)
	}
	defer rows.Close()

	t := &dataset.Table{Name: name, Columns: append([]string(nil), dataset.Columns...)}
	for rows.Next() {
		var (
			address, households sql.NullString
			lat, lon            sql.NullFloat64
		)
		if err := rows.Scan(&address, &households, &lat, &lon); err != nil {
			return nil, dataset.NewLoadError(name, "scan failed", err)
		}
		t.Rows = append(t.Rows, []any{
			nullString(address),
			nullString(households),
			nullFloat(lat),
			nullFloat(lon),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, dataset.NewLoadError(name, "query failed", err)
	}
	return t, nil
}

// quoteTable quotes a possibly schema-qualified table name
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, ".")
}

func nullString(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}

func nullFloat(f sql.NullFloat64) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}
