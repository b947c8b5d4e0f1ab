package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Every write is a short single-row transaction, so a busy database is
// transient. One retry with backoff inside the lock timeout is enough;
// anything past that is surfaced as a storage error.

func isSQLiteBusy(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_BUSY
}

func (s *Store) retryable(ctx context.Context, start time.Time, attempt int, err error) bool {
	if !isSQLiteBusy(err) || attempt >= 1 {
		return false
	}
	if s.lockTimeout <= 0 || ctx.Err() != nil {
		return false
	}
	if time.Since(start) >= s.lockTimeout {
		return false
	}
	time.Sleep(time.Duration(attempt+1) * 40 * time.Millisecond)
	return true
}

func (s *Store) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	for attempt := 0; ; attempt++ {
		res, err := s.db.ExecContext(ctx, query, args...)
		if err == nil || !s.retryable(ctx, start, attempt, err) {
			if err != nil {
				slog.Debug("sql exec failed", "query", query, "attempts", attempt+1, "err", err)
			}
			return res, err
		}
		slog.Debug("sql exec busy", "query", query, "attempt", attempt+1)
	}
}

func (s *Store) queryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	for attempt := 0; ; attempt++ {
		rows, err := s.db.QueryContext(ctx, query, args...)
		if err == nil || !s.retryable(ctx, start, attempt, err) {
			if err != nil {
				slog.Debug("sql query failed", "query", query, "attempts", attempt+1, "err", err)
			}
			return rows, err
		}
		slog.Debug("sql query busy", "query", query, "attempt", attempt+1)
	}
}

func (s *Store) queryRowScan(ctx context.Context, query string, args []any, dest ...any) error {
	start := time.Now()
	for attempt := 0; ; attempt++ {
		err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
		if err == nil || !s.retryable(ctx, start, attempt, err) {
			return err
		}
		slog.Debug("sql query row busy", "query", query, "attempt", attempt+1)
	}
}
