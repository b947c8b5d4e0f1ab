package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const toastTTL = 30 * time.Second

type Toast struct {
	ID        string
	Message   string
	Kind      string // "success" or "error"
	CreatedAt time.Time
}

type toastStore struct {
	mu    sync.Mutex
	byKey map[string][]Toast
}

func newToastStore() *toastStore {
	return &toastStore{byKey: make(map[string][]Toast)}
}

func (t *toastStore) Add(key string, toast Toast) {
	if key == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byKey[key] = append(t.byKey[key], toast)
}

// List returns the live toasts for a key and drops expired ones.
func (t *toastStore) List(key string) []Toast {
	if key == "" {
		return nil
	}
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	toasts := t.byKey[key]
	if len(toasts) == 0 {
		return nil
	}
	live := toasts[:0]
	for _, toast := range toasts {
		if now.After(toast.CreatedAt.Add(toastTTL)) {
			continue
		}
		live = append(live, toast)
	}
	if len(live) == 0 {
		delete(t.byKey, key)
		return nil
	}
	t.byKey[key] = live
	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

// Drain returns and clears the toasts for a key; each toast is shown once.
func (t *toastStore) Drain(key string) []Toast {
	toasts := t.List(key)
	if len(toasts) == 0 {
		return nil
	}
	t.mu.Lock()
	delete(t.byKey, key)
	t.mu.Unlock()
	return toasts
}

func (s *Server) addToast(r *http.Request, kind, message string) {
	toast := Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	key := clientKey(r)
	s.toasts.Add(key, toast)
	if payload, err := json.Marshal(map[string]string{"id": toast.ID, "kind": kind, "message": message}); err == nil {
		s.events.send(key, sseEvent{name: "toast", data: string(payload)})
	}
}
