package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Moods a diary entry may carry; the empty string means no mood recorded.
var Moods = []string{"Happy", "Sad", "Excited", "Calm", "Stressed", "Angry", "Grateful", "Tired"}

type Entry struct {
	Date      string // ISO date, unique per entry
	Content   string
	Mood      string
	UpdatedAt string // RFC3339, refreshed on every write
}

// UpsertEntry writes the diary entry for a date. Writing to an existing
// date replaces content and mood in place; entries are never duplicated
// and never deleted.
func (s *Store) UpsertEntry(ctx context.Context, date, content, mood string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return &ValidationError{Field: "date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return &ValidationError{Field: "entry", Reason: "must not be empty"}
	}
	mood = strings.TrimSpace(mood)
	if mood != "" && !validMood(mood) {
		return &ValidationError{Field: "mood", Reason: "is not a known mood"}
	}

	_, err := s.execContext(ctx, `
		INSERT INTO diary(entry_date, content, mood, updated_at)
		VALUES(?, ?, ?, ?)
		ON CONFLICT(entry_date) DO UPDATE SET
			content = excluded.content,
			mood = excluded.mood,
			updated_at = excluded.updated_at
	`, date, content, mood, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save diary entry: %w", err)
	}
	return nil
}

func (s *Store) Entry(ctx context.Context, date string) (Entry, error) {
	var e Entry
	err := s.queryRowScan(ctx, `
		SELECT entry_date, content, mood, updated_at
		FROM diary WHERE entry_date = ?
	`, []any{strings.TrimSpace(date)}, &e.Date, &e.Content, &e.Mood, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("load diary entry: %w", err)
	}
	return e, nil
}

// RecentEntries returns at most n entries, most recent date first.
func (s *Store) RecentEntries(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return []Entry{}, nil
	}
	rows, err := s.queryContext(ctx, `
		SELECT entry_date, content, mood, updated_at
		FROM diary ORDER BY entry_date DESC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("recent diary entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Date, &e.Content, &e.Mood, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("recent diary entries: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// EntryDays lists the dates that have a diary entry, newest first. It
// feeds the diary calendar.
func (s *Store) EntryDays(ctx context.Context, limit int) ([]string, error) {
	rows, err := s.queryContext(ctx, "SELECT entry_date FROM diary ORDER BY entry_date DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("diary days: %w", err)
	}
	defer rows.Close()

	days := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("diary days: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

func validMood(mood string) bool {
	for _, m := range Moods {
		if mood == m {
			return true
		}
	}
	return false
}
