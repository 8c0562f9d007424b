// Package apperr classifies service errors so handlers can map them to HTTP
// statuses without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the class of a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindPermission
	KindNotFound
	KindConflict
	KindGone
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindGone:
		return "gone"
	case KindExternal:
		return "external"
	default:
		return "internal"
	}
}

// Classified is implemented by every error that carries a Kind.
type Classified interface {
	error
	Kind() Kind
}

// Error is the common classified error. Sentinels are *Error values, so
// errors.Is works by identity.
type Error struct {
	kind    Kind
	Code    string
	Message string
	Field   string
	Err     error
}

func New(kind Kind, code, message string) *Error {
	return &Error{kind: kind, Code: code, Message: message}
}

// Validation builds a field-level validation error.
func Validation(field, message string) *Error {
	return &Error{kind: KindValidation, Code: "invalid", Message: message, Field: field}
}

// NotFound builds a not-found error for the named resource.
func NotFound(resource string) *Error {
	return &Error{kind: KindNotFound, Code: "not_found", Message: resource + " not found"}
}

// Wrap attaches a cause while keeping the classification.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{kind: kind, Code: code, Message: message, Err: err}
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var c Classified
	if errors.As(err, &c) {
		return c.Kind()
	}
	return KindInternal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status maps err to an HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPermission:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindGone:
		return http.StatusGone
	case KindExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Detailer is implemented by errors that expose structured details to clients.
type Detailer interface {
	Details() map[string]interface{}
}

// Body renders err as a JSON-friendly map. Internal errors are not echoed back.
func Body(err error) map[string]interface{} {
	kind := KindOf(err)
	if kind == KindInternal {
		return map[string]interface{}{"error": "internal server error", "code": "internal"}
	}
	body := map[string]interface{}{"error": err.Error(), "code": kind.String()}
	var e *Error
	if errors.As(err, &e) {
		body["error"] = e.Message
		if e.Code != "" {
			body["code"] = e.Code
		}
		if e.Field != "" {
			body["field"] = e.Field
		}
	}
	var d Detailer
	if errors.As(err, &d) {
		body["details"] = d.Details()
	}
	return body
}
