package web

import (
	"context"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"daybook/internal/config"
	"daybook/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "daybook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	srv, err := NewServer(config.Config{RecentEntriesMax: 7}, st)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, st
}

// get and postForm pin a session cookie so toasts stick to one client.
func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "test-session"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "test-session"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHome_RendersTasks(t *testing.T) {
	srv, st := newTestServer(t)
	if _, err := st.CreateTask(context.Background(), store.NewTask{Title: "write the minutes", Category: "Work"}); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	rec := get(t, srv.Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "write the minutes") {
		t.Fatalf("task title missing from page")
	}
	if !strings.Contains(body, "Work") {
		t.Fatalf("category missing from page")
	}
}

func TestHome_UnknownPathIs404(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv.Handler(), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateTask_RedirectsAndPersists(t *testing.T) {
	srv, st := newTestServer(t)

	rec := postForm(t, srv.Handler(), "/tasks", url.Values{
		"title":    {"file taxes"},
		"category": {"Finance"},
		"priority": {"High"},
		"due_date": {"2026-09-15"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	tasks, err := st.ListTasks(context.Background(), store.TaskFilter{})
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "file taxes" || tasks[0].Priority != "High" {
		t.Fatalf("unexpected stored task: %+v", tasks)
	}
}

func TestCreateTask_ValidationToast(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := postForm(t, h, "/tasks", url.Values{"title": {"   "}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}

	rec = get(t, h, "/")
	if !strings.Contains(rec.Body.String(), "title must not be empty") {
		t.Fatalf("validation toast missing from page")
	}
	// Toasts show once.
	rec = get(t, h, "/")
	if strings.Contains(rec.Body.String(), "title must not be empty") {
		t.Fatalf("toast shown twice")
	}
}

func TestToggleTask_Flow(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()
	id, err := st.CreateTask(ctx, store.NewTask{Title: "toggle me"})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}

	rec := postForm(t, srv.Handler(), "/tasks/1/toggle", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	task, err := st.Task(ctx, id)
	if err != nil {
		t.Fatalf("load task: %v", err)
	}
	if task.Status != store.StatusCompleted {
		t.Fatalf("expected Completed, got %q", task.Status)
	}
}

func TestDeleteTask_NotFoundToast(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	rec := postForm(t, h, "/tasks/99/delete", url.Values{})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	rec = get(t, h, "/")
	if !strings.Contains(rec.Body.String(), "Task not found") {
		t.Fatalf("not-found toast missing")
	}
}

func TestTaskOps_BadPaths(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	for _, path := range []string{"/tasks/abc/toggle", "/tasks/1/unknown", "/tasks/1"} {
		rec := postForm(t, h, path, url.Values{})
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
	}
}

func TestEditTask_GetAndPost(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()
	id, err := st.CreateTask(ctx, store.NewTask{Title: "old title", Category: "Work"})
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	h := srv.Handler()

	rec := get(t, h, "/tasks/1/edit")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "old title") {
		t.Fatalf("edit form missing current title")
	}

	rec = postForm(t, h, "/tasks/1/edit", url.Values{
		"title":    {"new title"},
		"category": {"Work"},
		"priority": {"Low"},
		"due_date": {""},
		"status":   {"Pending"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	task, err := st.Task(ctx, id)
	if err != nil {
		t.Fatalf("load task: %v", err)
	}
	if task.Title != "new title" || task.Priority != "Low" {
		t.Fatalf("update not applied: %+v", task)
	}
}

func TestExport_CSVDownload(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()
	if _, err := st.CreateTask(ctx, store.NewTask{Title: "a, quoted title", Category: "Work"}); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	if _, err := st.CreateTask(ctx, store.NewTask{Title: "other", Category: "Home"}); err != nil {
		t.Fatalf("seed task: %v", err)
	}

	rec := get(t, srv.Handler(), "/export?category=Work")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, ".csv") {
		t.Fatalf("unexpected content disposition: %q", cd)
	}

	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 filtered row, got %d", len(records))
	}
	if records[1][1] != "a, quoted title" {
		t.Fatalf("quoted title mangled: %q", records[1][1])
	}
}

func TestAuth_Middleware(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "daybook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if err := st.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	srv, err := NewServer(config.Config{AuthUser: "alice", AuthPass: "secret", RecentEntriesMax: 7}, st)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	h := srv.Handler()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("WWW-Authenticate"), "Basic") {
		t.Fatalf("missing WWW-Authenticate challenge")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong password, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("alice", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with credentials, got %d", rec.Code)
	}
}

func TestNewServer_RejectsHalfConfiguredAuth(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "daybook.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	if _, err := NewServer(config.Config{AuthUser: "alice"}, st); err == nil {
		t.Fatalf("expected error for user without password")
	}
}

func TestSession_CookieAssigned(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName && c.Value != "" && c.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatalf("session cookie not set")
	}
}

func TestDueLabel(t *testing.T) {
	now := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		task store.Task
		want string
	}{
		{"no due date", store.Task{Status: store.StatusPending}, ""},
		{"completed", store.Task{Status: store.StatusCompleted, DueDate: "2026-08-20"}, ""},
		{"overdue days", store.Task{Status: store.StatusPending, DueDate: "2026-08-21"}, "Overdue by 3 days"},
		{"overdue one day", store.Task{Status: store.StatusPending, DueDate: "2026-08-23"}, "Overdue by 1 day"},
		{"due today", store.Task{Status: store.StatusPending, DueDate: "2026-08-24"}, "Due today"},
		{"due tomorrow", store.Task{Status: store.StatusPending, DueDate: "2026-08-25"}, "Due tomorrow"},
		{"due later", store.Task{Status: store.StatusPending, DueDate: "2026-08-30"}, "Due in 6 days"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := dueLabel(tc.task, now); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
