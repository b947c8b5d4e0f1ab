package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"

	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"

	DefaultCategory = "General"

	dateLayout = "2006-01-02"
)

var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

type Task struct {
	ID        int64
	Title     string
	Category  string
	Priority  string
	DueDate   string // ISO date, empty when unset
	Status    string
	CreatedAt string // RFC3339, set once on creation
}

// Overdue is derived, never stored: a pending task whose due date is
// strictly before today. A task due exactly today is not overdue.
func (t Task) Overdue(now time.Time) bool {
	return t.Status == StatusPending && t.DueDate != "" && t.DueDate < now.Format(dateLayout)
}

type NewTask struct {
	Title    string
	Category string
	Priority string
	DueDate  string
}

// TaskUpdate carries a partial update; nil fields are left untouched.
type TaskUpdate struct {
	Title    *string
	Category *string
	Priority *string
	DueDate  *string
	Status   *string
}

type TaskFilter struct {
	Status   string
	Category string
	Search   string
}

type Stats struct {
	Total          int
	Completed      int
	Pending        int
	Overdue        int
	DueToday       int
	CompletionRate float64
}

func (s *Store) CreateTask(ctx context.Context, t NewTask) (int64, error) {
	title, err := validTitle(t.Title)
	if err != nil {
		return 0, err
	}
	priority, err := validPriority(t.Priority)
	if err != nil {
		return 0, err
	}
	dueDate, err := validDueDate(t.DueDate)
	if err != nil {
		return 0, err
	}
	category := strings.TrimSpace(t.Category)
	if category == "" {
		category = DefaultCategory
	}

	res, err := s.execContext(ctx, `
		INSERT INTO tasks(title, category, priority, due_date, status, created_at)
		VALUES(?, ?, ?, ?, ?, ?)
	`, title, category, priority, dueDate, StatusPending, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (s *Store) Task(ctx context.Context, id int64) (Task, error) {
	var t Task
	err := s.queryRowScan(ctx, `
		SELECT id, title, category, priority, due_date, status, created_at
		FROM tasks WHERE id = ?
	`, []any{id}, &t.ID, &t.Title, &t.Category, &t.Priority, &t.DueDate, &t.Status, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("load task: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateTask(ctx context.Context, id int64, u TaskUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	if u.Title != nil {
		title, err := validTitle(*u.Title)
		if err != nil {
			return err
		}
		sets = append(sets, "title = ?")
		args = append(args, title)
	}
	if u.Category != nil {
		category := strings.TrimSpace(*u.Category)
		if category == "" {
			category = DefaultCategory
		}
		sets = append(sets, "category = ?")
		args = append(args, category)
	}
	if u.Priority != nil {
		priority, err := validPriority(*u.Priority)
		if err != nil {
			return err
		}
		sets = append(sets, "priority = ?")
		args = append(args, priority)
	}
	if u.DueDate != nil {
		dueDate, err := validDueDate(*u.DueDate)
		if err != nil {
			return err
		}
		sets = append(sets, "due_date = ?")
		args = append(args, dueDate)
	}
	if u.Status != nil {
		status, err := validStatus(*u.Status)
		if err != nil {
			return err
		}
		sets = append(sets, "status = ?")
		args = append(args, status)
	}
	if len(sets) == 0 {
		_, err := s.Task(ctx, id)
		return err
	}

	args = append(args, id)
	res, err := s.execContext(ctx, "UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask reports ErrNotFound for an unknown id rather than deleting
// silently.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.execContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleTask flips a task between Pending and Completed and returns the
// new status. The read and write run in one transaction.
func (s *Store) ToggleTask(ctx context.Context, id int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("toggle task: %w", err)
	}
	var status string
	err = tx.QueryRowContext(ctx, "SELECT status FROM tasks WHERE id = ?", id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		_ = tx.Rollback()
		return "", ErrNotFound
	}
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("toggle task: %w", err)
	}
	next := StatusCompleted
	if status == StatusCompleted {
		next = StatusPending
	}
	if _, err := tx.ExecContext(ctx, "UPDATE tasks SET status = ? WHERE id = ?", next, id); err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("toggle task: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("toggle task: %w", err)
	}
	return next, nil
}

// ListTasks returns tasks newest-first. Search matches title and category
// substrings case-insensitively; empty filter fields match everything.
func (s *Store) ListTasks(ctx context.Context, f TaskFilter) ([]Task, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, f.Status)
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		where = append(where, "(instr(lower(title), lower(?)) > 0 OR instr(lower(category), lower(?)) > 0)")
		args = append(args, search, search)
	}

	query := "SELECT id, title, category, priority, due_date, status, created_at FROM tasks"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := s.queryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Category, &t.Priority, &t.DueDate, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// TaskStats computes aggregates against now at call time; overdue counts
// are never cached.
func (s *Store) TaskStats(ctx context.Context, now time.Time) (Stats, error) {
	today := now.Format(dateLayout)
	var st Stats
	err := s.queryRowScan(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? AND due_date <> '' AND due_date < ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = ? AND due_date = ? THEN 1 ELSE 0 END), 0)
		FROM tasks
	`, []any{StatusCompleted, StatusPending, today, StatusPending, today},
		&st.Total, &st.Completed, &st.Overdue, &st.DueToday)
	if err != nil {
		return Stats{}, fmt.Errorf("task stats: %w", err)
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = float64(st.Completed) / float64(st.Total) * 100
	}
	return st, nil
}

// Categories lists the distinct category labels in use, for the filter
// dropdown.
func (s *Store) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.queryContext(ctx, "SELECT DISTINCT category FROM tasks WHERE category <> '' ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func validTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return title, nil
}

func validPriority(priority string) (string, error) {
	priority = strings.TrimSpace(priority)
	if priority == "" {
		return PriorityMedium, nil
	}
	for _, p := range Priorities {
		if priority == p {
			return priority, nil
		}
	}
	return "", &ValidationError{Field: "priority", Reason: "must be High, Medium or Low"}
}

func validDueDate(dueDate string) (string, error) {
	dueDate = strings.TrimSpace(dueDate)
	if dueDate == "" {
		return "", nil
	}
	if _, err := time.Parse(dateLayout, dueDate); err != nil {
		return "", &ValidationError{Field: "due date", Reason: "must be a valid YYYY-MM-DD date"}
	}
	return dueDate, nil
}

func validStatus(status string) (string, error) {
	if status == StatusPending || status == StatusCompleted {
		return status, nil
	}
	return "", &ValidationError{Field: "status", Reason: "must be Pending or Completed"}
}
