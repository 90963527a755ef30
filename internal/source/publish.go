package source

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"github.com/posting-planner/internal/dataset"
)

// PostgresWriter publishes a dataset into a Postgres address table that a
// PostgresReader can later load
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter creates a writer on an open database
func NewPostgresWriter(db *sql.DB) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// createTableSQL returns the DDL of an address table
func createTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	address    TEXT NOT NULL,
	households INTEGER NOT NULL DEFAULT 0,
	latitude   DOUBLE PRECISION,
	longitude  DOUBLE PRECISION
)`, quoteTable(table))
}

// Publish replaces the contents of table with ds in one transaction.
// It returns the number of rows written.
func (w *PostgresWriter) Publish(ctx context.Context, table string, ds *dataset.Dataset) (int, error) {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return 0, fmt.Errorf("failed to create table %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, "TRUNCATE "+quoteTable(table)); err != nil {
		return 0, fmt.Errorf("failed to truncate %s: %w", table, err)
	}

	schema, name := splitTable(table)
	var copySQL string
	if schema == "" {
		copySQL = pq.CopyIn(name, "address", "households", "latitude", "longitude")
	} else {
		copySQL = pq.CopyInSchema(schema, name, "address", "households", "latitude", "longitude")
	}
	stmt, err := tx.PrepareContext(ctx, copySQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare copy: %w", err)
	}

	written := 0
	for _, r := range ds.Records() {
		if _, err := stmt.ExecContext(ctx, r.Address, r.Households, r.Latitude, r.Longitude); err != nil {
			stmt.Close()
			return written, fmt.Errorf("failed to copy row %d: %w", written, err)
		}
		written++
		if written%10000 == 0 {
			log.Printf("Copied %d rows...", written)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return written, fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return written, err
	}

	if err := tx.Commit(); err != nil {
		return written, fmt.Errorf("failed to commit: %w", err)
	}
	return written, nil
}

// splitTable separates an optional schema from a table name
func splitTable(table string) (schema, name string) {
	for i := len(table) - 1; i >= 0; i-- {
		if table[i] == '.' {
			return table[:i], table[i+1:]
		}
	}
	return "", table
}
