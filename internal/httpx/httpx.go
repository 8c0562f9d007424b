// Package httpx holds the JSON response helpers shared by the API handlers.
package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/georgemunganga/marketplace-backend/internal/apperr"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// Error writes err with the status its kind maps to. Internal errors are
// logged with the request id and replaced by a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[api] %s %s request_id=%s: %v", r.Method, r.URL.Path, middleware.GetReqID(r.Context()), err)
	}
	Respond(w, status, apperr.Body(err))
}

// Decode reads a JSON body into v.
func Decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid_body", "request body must be valid JSON", err)
	}
	return nil
}

// UUIDParam parses the named chi URL parameter. A malformed id is reported as
// not found, the same as an unknown one.
func UUIDParam(r *http.Request, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(resource)
	}
	return id, nil
}
