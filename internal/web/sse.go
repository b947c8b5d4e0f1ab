package web

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

type sseEvent struct {
	name string
	data string
}

type sseHub struct {
	mu      sync.Mutex
	clients map[string]map[chan sseEvent]struct{}
}

func newSSEHub() *sseHub {
	return &sseHub{clients: make(map[string]map[chan sseEvent]struct{})}
}

func (h *sseHub) add(key string) chan sseEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan sseEvent, 8)
	if _, ok := h.clients[key]; !ok {
		h.clients[key] = make(map[chan sseEvent]struct{})
	}
	h.clients[key][ch] = struct{}{}
	return ch
}

func (h *sseHub) remove(key string, ch chan sseEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if chans, ok := h.clients[key]; ok {
		delete(chans, ch)
		if len(chans) == 0 {
			delete(h.clients, key)
		}
	}
	close(ch)
}

// send pushes an event to one client key (toasts).
func (h *sseHub) send(key string, ev sseEvent) {
	h.mu.Lock()
	chans := h.clients[key]
	h.mu.Unlock()
	for ch := range chans {
		select {
		case ch <- ev:
		default:
		}
	}
}

// broadcast pushes an event to every connected client; refresh events go
// everywhere so other open tabs re-render.
func (h *sseHub) broadcast(ev sseEvent) {
	h.mu.Lock()
	all := make([]chan sseEvent, 0)
	for _, chans := range h.clients {
		for ch := range chans {
			all = append(all, ch)
		}
	}
	h.mu.Unlock()
	for _, ch := range all {
		select {
		case ch <- ev:
		default:
		}
	}
}

// notifyChanged tells every open tab that tasks or diary changed.
func (s *Server) notifyChanged(kind string) {
	s.events.broadcast(sseEvent{name: "refresh", data: kind})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	key := clientKey(r)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := s.events.add(key)
	defer s.events.remove(key, ch)

	fmt.Fprint(w, "event: ready\ndata: ok\n\n")
	flusher.Flush()

	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
