// Package catalog provides field metadata for suggestion ranking: a
// sqlite-backed store for cached platform metadata and a static in-memory
// provider for tests and fixed schemas.
package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/leapstack-labs/sqlassist/pkg/suggest"
	"github.com/leapstack-labs/sqlassist/pkg/tableref"
)

//go:embed schema.sql
var schemaSQL string

// Store caches table field metadata in a local sqlite database and serves
// it to the suggestion engine.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new store instance. Call Open before use.
func NewStore() *Store {
	return &Store{}
}

// Open opens the sqlite database at path. Use ":memory:" for an in-memory
// catalog.
func (s *Store) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open catalog database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping catalog database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InitSchema creates the catalog tables if they do not exist.
func (s *Store) InitSchema() error {
	if s.db == nil {
		return fmt.Errorf("catalog not opened")
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	return nil
}

// UpsertTable replaces the cached field list for a table.
func (s *Store) UpsertTable(ctx context.Context, name string, fields []suggest.Field) error {
	if s.db == nil {
		return fmt.Errorf("catalog not opened")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tables (name, updated_at) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at`,
		name, now); err != nil {
		return fmt.Errorf("failed to upsert table %s: %w", name, err)
	}

	var tableID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM tables WHERE name = ?`, name).Scan(&tableID); err != nil {
		return fmt.Errorf("failed to resolve table id for %s: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM fields WHERE table_id = ?`, tableID); err != nil {
		return fmt.Errorf("failed to clear fields for %s: %w", name, err)
	}
	for i, f := range fields {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fields (table_id, ordinal, name, type, is_primary_key, is_nullable, length)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			tableID, i, f.Name, f.Type, f.IsPrimaryKey, f.IsNullable, f.Length); err != nil {
			return fmt.Errorf("failed to insert field %s.%s: %w", name, f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// FieldsForTable looks up cached fields for a reference, trying the
// qualified name first and falling back to the bare name. An unknown table
// yields an empty list, not an error.
func (s *Store) FieldsForTable(ctx context.Context, ref tableref.TableReference) ([]suggest.Field, error) {
	if s.db == nil {
		return nil, fmt.Errorf("catalog not opened")
	}

	fields, err := s.fieldsByName(ctx, ref.QualifiedName)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 && ref.Name != "" && ref.Name != ref.QualifiedName {
		return s.fieldsByName(ctx, ref.Name)
	}
	return fields, nil
}

func (s *Store) fieldsByName(ctx context.Context, name string) ([]suggest.Field, error) {
	if name == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT f.name, f.type, f.is_primary_key, f.is_nullable, f.length
		 FROM fields f
		 JOIN tables t ON t.id = f.table_id
		 WHERE t.name = ?
		 ORDER BY f.ordinal`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query fields for %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	var fields []suggest.Field
	for rows.Next() {
		var f suggest.Field
		if err := rows.Scan(&f.Name, &f.Type, &f.IsPrimaryKey, &f.IsNullable, &f.Length); err != nil {
			return nil, fmt.Errorf("failed to scan field row: %w", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read field rows: %w", err)
	}
	return fields, nil
}
