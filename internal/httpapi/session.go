package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	sessionCookie = "docqa_session"
	sessionHeader = "X-Session-ID"
)

// sessionID returns the caller's session id, issuing a cookie when the
// request carries none. API clients may pass the id in X-Session-ID instead.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if v := r.Header.Get(sessionHeader); v != "" {
		if id, err := uuid.Parse(v); err == nil {
			return id.String()
		}
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	return id
}
