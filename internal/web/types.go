package web

import (
	"html/template"

	"daybook/internal/store"
)

type ViewData struct {
	Title           string
	ContentTemplate string
	ContentHTML     template.HTML
	Toasts          []Toast

	// Tasks page
	Tasks       []TaskRow
	Stats       store.Stats
	Filter      store.TaskFilter
	Categories  []string
	Priorities  []string
	ExportQuery string
	Today       string
	EditTask    *store.Task

	// Diary page
	EntryDate     string
	EntryIsToday  bool
	HasEntry      bool
	Entry         store.Entry
	EntryHTML     template.HTML
	Moods         []string
	RecentEntries []EntryCard
	Calendar      CalendarMonth
}

type TaskRow struct {
	store.Task
	Overdue  bool
	DueLabel string
}

type EntryCard struct {
	Date    string
	Label   string
	Mood    string
	Snippet string
}
