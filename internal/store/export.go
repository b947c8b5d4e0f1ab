package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportHeader is the fixed CSV column order for task exports.
var ExportHeader = []string{"identifier", "title", "category", "priority", "due_date", "status", "created_at"}

// ExportTasks writes the filtered task set as CSV: a header row, then one
// row per task in list order. encoding/csv applies RFC 4180 quoting, so
// titles containing the delimiter round-trip exactly. Only writer errors
// can fail the export.
func (s *Store) ExportTasks(ctx context.Context, w io.Writer, f TaskFilter) error {
	tasks, err := s.ListTasks(ctx, f)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, t := range tasks {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			t.Title,
			t.Category,
			t.Priority,
			t.DueDate,
			t.Status,
			t.CreatedAt,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
