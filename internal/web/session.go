package web

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const sessionCookieName = "daybook_session"

// withSession guarantees every browser carries a session cookie; it keys
// the toast store and the SSE hub when no auth user is present.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err != nil || cookie.Value == "" {
			id := uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: id})
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	if user, ok := CurrentUser(r.Context()); ok && strings.TrimSpace(user.Name) != "" {
		return "user:" + strings.TrimSpace(user.Name)
	}
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return "session:" + cookie.Value
	}
	return "session:anonymous"
}
