// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
//
// Domain failures carry a machine-readable Kind so callers (storefront, admin
// panel) can branch on the failure class instead of parsing Spanish messages.
package apierror

import (
	"errors"
	"net/http"
)

// Kind classifies a domain failure.
type Kind string

const (
	KindNotFound          Kind = "not_found"
	KindPriceNotFound     Kind = "price_not_found"
	KindConflict          Kind = "conflict"
	KindForeignKey        Kind = "foreign_key_violation"
	KindInvalidMovement   Kind = "invalid_movement"
	KindInvalidExpiration Kind = "invalid_expiration"
	KindInsufficientStock Kind = "insufficient_stock"
	KindValidation        Kind = "validation"
	KindInternal          Kind = "internal"
)

// Error is the canonical domain error. It implements the error interface and
// doubles as the JSON envelope for 4xx/5xx responses.
type Error struct {
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string { return e.Detail }

// E builds a domain error with an explicit kind.
func E(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// New keeps the legacy constructor: an internal-kind error with a message.
func New(detail string) *Error {
	return &Error{Kind: KindInternal, Detail: detail}
}

// Shorthand constructors for the common kinds.
func NotFound(detail string) *Error          { return E(KindNotFound, detail) }
func PriceNotFound(detail string) *Error     { return E(KindPriceNotFound, detail) }
func Conflict(detail string) *Error          { return E(KindConflict, detail) }
func ForeignKey(detail string) *Error        { return E(KindForeignKey, detail) }
func InvalidMovement(detail string) *Error   { return E(KindInvalidMovement, detail) }
func InvalidExpiration(detail string) *Error { return E(KindInvalidExpiration, detail) }
func InsufficientStock(detail string) *Error { return E(KindInsufficientStock, detail) }

// KindOf extracts the Kind from any error; non-domain errors map to internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is lets errors.Is match two apierrors by kind regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound, KindPriceNotFound:
		return http.StatusNotFound
	case KindConflict, KindForeignKey, KindInsufficientStock:
		return http.StatusConflict
	case KindInvalidMovement, KindInvalidExpiration, KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// From wraps an arbitrary error for the response envelope, preserving the
// kind when it already is a domain error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return New(err.Error())
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Kind   Kind              `json:"kind"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Kind: KindValidation, Detail: "Error de validacion", Fields: fields}
}
