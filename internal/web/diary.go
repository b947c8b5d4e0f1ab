package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"daybook/internal/store"
)

func (s *Server) handleDiary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	now := time.Now()
	today := now.Format("2006-01-02")
	date := strings.TrimSpace(r.URL.Query().Get("d"))
	if date == "" {
		date = today
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	entry, err := s.store.Entry(r.Context(), date)
	hasEntry := err == nil
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	recent, err := s.store.RecentEntries(r.Context(), s.cfg.RecentEntriesMax)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	days, err := s.store.EntryDays(r.Context(), 366)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := ViewData{
		Title:           "Diary",
		ContentTemplate: "diary",
		Toasts:          s.toasts.Drain(clientKey(r)),
		EntryDate:       date,
		EntryIsToday:    date == today,
		HasEntry:        hasEntry,
		Entry:           entry,
		Moods:           store.Moods,
		RecentEntries:   entryCards(recent),
		Calendar:        buildCalendarMonth(now, days, date),
		Today:           today,
	}
	// Past days are read-only and rendered; today is edited raw.
	if hasEntry && date != today {
		htmlStr, err := renderMarkdown(entry.Content)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		data.EntryHTML = template.HTML(htmlStr)
	}
	s.views.RenderPage(w, data)
}

func (s *Server) handleDiarySave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date := strings.TrimSpace(r.Form.Get("date"))
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	unlock := s.locker.Lock("diary/" + date)
	defer unlock()

	err := s.store.UpsertEntry(r.Context(), date, r.Form.Get("content"), r.Form.Get("mood"))
	if err != nil {
		if store.IsValidation(err) {
			s.addToast(r, "error", err.Error())
			http.Redirect(w, r, "/diary", http.StatusSeeOther)
			return
		}
		slog.Error("save diary entry failed", "date", date, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.addToast(r, "success", "Entry saved")
	s.notifyChanged("diary")
	http.Redirect(w, r, "/diary?d="+date, http.StatusSeeOther)
}

func entryCards(entries []store.Entry) []EntryCard {
	cards := make([]EntryCard, 0, len(entries))
	for _, e := range entries {
		label := e.Date
		if day, err := time.Parse("2006-01-02", e.Date); err == nil {
			label = day.Format("January 2, 2006")
		}
		cards = append(cards, EntryCard{
			Date:    e.Date,
			Label:   label,
			Mood:    e.Mood,
			Snippet: snippet(e.Content, 140),
		})
	}
	return cards
}

func snippet(content string, max int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
