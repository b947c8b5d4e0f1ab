package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"daybook/internal/store"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	filter := filterFromQuery(r.URL.Query())
	now := time.Now()
	tasks, err := s.store.ListTasks(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	stats, err := s.store.TaskStats(r.Context(), now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	categories, err := s.store.Categories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := ViewData{
		Title:           "Tasks",
		ContentTemplate: "tasks",
		Toasts:          s.toasts.Drain(clientKey(r)),
		Tasks:           taskRows(tasks, now),
		Stats:           stats,
		Filter:          filter,
		Categories:      categories,
		Priorities:      store.Priorities,
		ExportQuery:     exportQuery(filter),
		Today:           now.Format("2006-01-02"),
	}
	s.views.RenderPage(w, data)
}

func (s *Server) handleNewTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	_, err := s.store.CreateTask(r.Context(), store.NewTask{
		Title:    r.Form.Get("title"),
		Category: r.Form.Get("category"),
		Priority: r.Form.Get("priority"),
		DueDate:  r.Form.Get("due_date"),
	})
	if err != nil {
		s.failTask(w, r, err, "/")
		return
	}
	s.addToast(r, "success", "Task added")
	s.notifyChanged("tasks")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleTaskOps(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/tasks/")
	idPart, action, ok := strings.Cut(rest, "/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "toggle":
		s.handleToggleTask(w, r, id)
	case "delete":
		s.handleDeleteTask(w, r, id)
	case "edit":
		s.handleEditTask(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	status, err := s.store.ToggleTask(r.Context(), id)
	if err != nil {
		s.failTask(w, r, err, "/")
		return
	}
	if status == store.StatusCompleted {
		s.addToast(r, "success", "Task completed")
	} else {
		s.addToast(r, "success", "Task reopened")
	}
	s.notifyChanged("tasks")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.store.DeleteTask(r.Context(), id); err != nil {
		s.failTask(w, r, err, "/")
		return
	}
	s.addToast(r, "success", "Task deleted")
	s.notifyChanged("tasks")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleEditTask(w http.ResponseWriter, r *http.Request, id int64) {
	switch r.Method {
	case http.MethodGet:
		task, err := s.store.Task(r.Context(), id)
		if err != nil {
			s.failTask(w, r, err, "/")
			return
		}
		data := ViewData{
			Title:           "Edit task",
			ContentTemplate: "task_edit",
			Toasts:          s.toasts.Drain(clientKey(r)),
			EditTask:        &task,
			Priorities:      store.Priorities,
		}
		s.views.RenderPage(w, data)
	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		update := store.TaskUpdate{
			Title:    formField(r.PostForm, "title"),
			Category: formField(r.PostForm, "category"),
			Priority: formField(r.PostForm, "priority"),
			DueDate:  formField(r.PostForm, "due_date"),
			Status:   formField(r.PostForm, "status"),
		}
		if err := s.store.UpdateTask(r.Context(), id, update); err != nil {
			s.failTask(w, r, err, fmt.Sprintf("/tasks/%d/edit", id))
			return
		}
		s.addToast(r, "success", "Task updated")
		s.notifyChanged("tasks")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	filter := filterFromQuery(r.URL.Query())
	filename := "tasks_" + time.Now().Format("20060102") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := s.store.ExportTasks(r.Context(), w, filter); err != nil {
		// Headers are already sent; the broken download is all the client sees.
		slog.Error("export tasks", "err", err)
	}
}

// failTask maps repository errors onto the UI: validation and not-found
// become toasts with no state change, anything else is a storage failure.
func (s *Server) failTask(w http.ResponseWriter, r *http.Request, err error, redirect string) {
	if store.IsValidation(err) {
		s.addToast(r, "error", err.Error())
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	if errors.Is(err, store.ErrNotFound) {
		s.addToast(r, "error", "Task not found")
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	slog.Error("task operation failed", "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func filterFromQuery(q url.Values) store.TaskFilter {
	return store.TaskFilter{
		Status:   strings.TrimSpace(q.Get("status")),
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("q")),
	}
}

func exportQuery(f store.TaskFilter) string {
	params := url.Values{}
	if f.Status != "" {
		params.Set("status", f.Status)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Search != "" {
		params.Set("q", f.Search)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

func formField(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	v := form.Get(key)
	return &v
}

func taskRows(tasks []store.Task, now time.Time) []TaskRow {
	rows := make([]TaskRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, TaskRow{
			Task:     t,
			Overdue:  t.Overdue(now),
			DueLabel: dueLabel(t, now),
		})
	}
	return rows
}

// dueLabel renders the due date relative to today, e.g. "Overdue by 3
// days" or "Due tomorrow". Completed tasks and tasks without a due date
// get no label.
func dueLabel(t store.Task, now time.Time) string {
	if t.DueDate == "" || t.Status == store.StatusCompleted {
		return ""
	}
	due, err := time.Parse("2006-01-02", t.DueDate)
	if err != nil {
		return ""
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	switch {
	case days < -1:
		return fmt.Sprintf("Overdue by %d days", -days)
	case days == -1:
		return "Overdue by 1 day"
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("Due in %d days", days)
	}
}
