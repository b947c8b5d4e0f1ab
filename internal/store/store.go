package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store owns the daybook database file. All task and diary access goes
// through it; the web layer never touches the file directly.
type Store struct {
	db          *sql.DB
	lockTimeout time.Duration
}

type OpenOptions struct {
	// BusyTimeout is passed to SQLite as a busy_timeout pragma.
	BusyTimeout time.Duration
	// LockTimeout bounds application-level retries on SQLITE_BUSY.
	LockTimeout time.Duration
}

func Open(path string) (*Store, error) {
	return OpenWithOptions(path, OpenOptions{})
}

func OpenWithOptions(path string, opts OpenOptions) (*Store, error) {
	dsn := path
	if opts.BusyTimeout > 0 {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, opts.BusyTimeout.Milliseconds())
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &Store{db: db, lockTimeout: opts.LockTimeout}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SetLockTimeout(d time.Duration) {
	s.lockTimeout = d
}

// EnsureSchema creates the task and diary tables if they are missing and
// upgrades older databases in place. Upgrades are additive only: each
// migration adds one column with a safe default, runs in its own
// transaction, and is skipped when the column already exists. Rows and
// existing column values are never touched.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.execContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	for _, m := range migrations {
		columns, err := s.tableColumns(ctx, m.table)
		if err != nil {
			return fmt.Errorf("inspect %s: %w", m.table, err)
		}
		if columns[m.column] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return fmt.Errorf("add %s.%s: %w", m.table, m.column, err)
		}
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, m.ddl); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.queryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var (
			cid       int
			name      string
			ctype     string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns[name] = true
	}
	return columns, rows.Err()
}
