// Package web serves the session-cookie form endpoints of the marketplace.
// Successful posts redirect; failed ones answer with the error as plain text.
package web

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/georgemunganga/marketplace-backend/internal/modules/auth"
	"github.com/georgemunganga/marketplace-backend/internal/modules/cart"
	"github.com/georgemunganga/marketplace-backend/internal/modules/user"
)

// SessionName is the name of the session cookie.
const SessionName = "marketplace"

const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyRole     = "role"
)

// NewCookieStore builds the signed cookie store for web sessions.
func NewCookieStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   14 * 24 * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session returns the request's session. A cookie that fails to decode
// yields a fresh session rather than an error.
func (h *Handler) session(r *http.Request) *sessions.Session {
	s, err := h.store.Get(r, SessionName)
	if err != nil {
		s, _ = h.store.New(r, SessionName)
	}
	return s
}

func setPrincipal(s *sessions.Session, u *user.User) {
	s.Values[keyUserID] = u.ID.String()
	s.Values[keyUsername] = u.Username
	s.Values[keyRole] = string(u.Role)
}

func principalOf(s *sessions.Session) *auth.Principal {
	raw, _ := s.Values[keyUserID].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	username, _ := s.Values[keyUsername].(string)
	role, _ := s.Values[keyRole].(string)
	return &auth.Principal{UserID: id, Username: username, Role: user.Role(role)}
}

// Authenticate puts the session's principal in the request context. A
// principal set earlier (bearer token) wins.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}
		if p := principalOf(h.session(r)); p != nil {
			r = r.WithContext(auth.WithPrincipal(r.Context(), p))
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) loadCart(r *http.Request) (*sessions.Session, cart.Cart) {
	s := h.session(r)
	return s, cart.FromSession(s)
}
