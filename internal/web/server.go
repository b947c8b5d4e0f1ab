package web

import (
	"net/http"

	"daybook/internal/config"
	"daybook/internal/storage/fs"
	"daybook/internal/store"
)

type Server struct {
	cfg    config.Config
	store  *store.Store
	mux    *http.ServeMux
	locker *fs.Locker
	views  *Templates
	auth   *Auth
	toasts *toastStore
	events *sseHub
}

func NewServer(cfg config.Config, st *store.Store) (*Server, error) {
	auth, err := newAuth(cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{
		cfg:    cfg,
		store:  st,
		mux:    http.NewServeMux(),
		locker: fs.NewLocker(),
		views:  MustParseTemplates(),
		auth:   auth,
		toasts: newToastStore(),
		events: newSSEHub(),
	}
	s.routes()
	return s, nil
}

func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.auth != nil {
		h = s.auth.Middleware(h)
	}
	return s.withSession(h)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleHome)
	s.mux.HandleFunc("/tasks", s.handleNewTask)
	s.mux.HandleFunc("/tasks/", s.handleTaskOps)
	s.mux.HandleFunc("/diary", s.handleDiary)
	s.mux.HandleFunc("/diary/save", s.handleDiarySave)
	s.mux.HandleFunc("/export", s.handleExport)
	s.mux.HandleFunc("/events", s.handleEvents)
}
