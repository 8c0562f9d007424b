package cart

import (
	"encoding/gob"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionKey is the session value holding the cart.
const SessionKey = "cart"

func init() {
	gob.Register(map[string]int{})
}

// FromSession reads the cart stored in s. Malformed entries are dropped.
func FromSession(s *sessions.Session) Cart {
	c := Cart{}
	raw, ok := s.Values[SessionKey].(map[string]int)
	if !ok {
		return c
	}
	for k, q := range raw {
		id, err := uuid.Parse(k)
		if err != nil {
			continue
		}
		c.Set(id, q)
	}
	return c
}

// Store writes c into s. The caller still has to save the session.
func Store(s *sessions.Session, c Cart) {
	if c.IsEmpty() {
		delete(s.Values, SessionKey)
		return
	}
	raw := make(map[string]int, len(c))
	for id, q := range c {
		raw[id.String()] = q
	}
	s.Values[SessionKey] = raw
}
