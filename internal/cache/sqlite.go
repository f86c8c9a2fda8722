package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// physicalTables maps the logical table names from the Store contract to
// their SQLite tables. Lookups against anything else fail fast.
var physicalTables = map[string]string{
	TableEmbeddings: "file_embeddings",
	TableProjects:   "project_embeddings",
}

// SQLiteStore implements Store on a single SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with the settings the cache needs.
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// WAL keeps concurrent readers cheap while the sweep writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens (or creates) the cache database at dbPath and applies
// pending migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func resolveTable(table string) (string, error) {
	physical, ok := physicalTables[table]
	if !ok {
		return "", fmt.Errorf("cache: unknown table %q", table)
	}
	return physical, nil
}

// Get returns the record stored under key, or ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, table, key string) ([]byte, error) {
	physical, err := resolveTable(table)
	if err != nil {
		return nil, err
	}

	var record []byte
	query := fmt.Sprintf("SELECT record FROM %s WHERE key = ?", physical)
	err = s.db.QueryRowContext(ctx, query, key).Scan(&record)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s/%s: %w", table, key, err)
	}
	return record, nil
}

// Put replaces the record under key atomically (whole-row upsert).
func (s *SQLiteStore) Put(ctx context.Context, table, key string, value []byte, writtenAt time.Time) error {
	physical, err := resolveTable(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (key, record, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET record = excluded.record, created_at = excluded.created_at`,
		physical)
	if _, err := s.db.ExecContext(ctx, query, key, value, writtenAt.Unix()); err != nil {
		return fmt.Errorf("cache put %s/%s: %w", table, key, err)
	}
	return nil
}

// Delete removes the record under key. Missing keys are not an error.
func (s *SQLiteStore) Delete(ctx context.Context, table, key string) error {
	physical, err := resolveTable(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", physical)
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("cache delete %s/%s: %w", table, key, err)
	}
	return nil
}

// Clear removes every record in a table.
func (s *SQLiteStore) Clear(ctx context.Context, table string) error {
	physical, err := resolveTable(table)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s", physical)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("cache clear %s: %w", table, err)
	}
	return nil
}

// Count returns the number of records in a table.
func (s *SQLiteStore) Count(ctx context.Context, table string) (int64, error) {
	physical, err := resolveTable(table)
	if err != nil {
		return 0, err
	}

	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", physical)
	if err := s.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("cache count %s: %w", table, err)
	}
	return count, nil
}

// SweepBefore deletes all records written before cutoff.
func (s *SQLiteStore) SweepBefore(ctx context.Context, table string, cutoff time.Time) (int64, error) {
	physical, err := resolveTable(table)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE created_at < ?", physical)
	res, err := s.db.ExecContext(ctx, query, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("cache sweep %s: %w", table, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
