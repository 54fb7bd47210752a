// Package apperr defines the closed set of application errors returned by
// the contacts API and the translation of store errors into that set.
//
// Every error that reaches the HTTP layer is passed through Translate, so
// handlers may return raw store errors and still produce the right status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one variant of the taxonomy.
type Kind int

const (
	KindInternal Kind = iota
	KindClient
	KindNotFound
	KindDuplicateKey
)

// String returns a stable name for logs.
func (k Kind) String() string {
	switch k {
	case KindClient:
		return "client_error"
	case KindNotFound:
		return "not_found"
	case KindDuplicateKey:
		return "duplicate_key"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindClient:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateKey:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// InternalMessage is the client-facing message for unclassified failures.
const InternalMessage = "Internal server error. Try again later"

// Error is the application error shape: a message, the HTTP status that
// goes with it and optional diagnostic detail. Cause is for logs only.
type Error struct {
	Kind           Kind
	Message        string
	AdditionalInfo string
	Cause          error
}

func (e *Error) Error() string {
	if e.Cause != nil && e.Kind == KindInternal {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Status returns the HTTP status code carried by the error.
func (e *Error) Status() int { return e.Kind.Status() }

// Client reports malformed or semantically invalid input (400).
func Client(message string, additionalInfo ...string) *Error {
	return &Error{Kind: KindClient, Message: message, AdditionalInfo: first(additionalInfo)}
}

// NotFound reports a referenced entity that does not exist (404).
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// DuplicateKey reports a uniqueness violation raised by the store (409).
func DuplicateKey(message string, additionalInfo ...string) *Error {
	return &Error{Kind: KindDuplicateKey, Message: message, AdditionalInfo: first(additionalInfo)}
}

// Internal wraps an unclassified failure (500).
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: InternalMessage, Cause: cause}
}

// InvalidID reports an identifier that is not a valid ObjectID.
func InvalidID(field, value string) *Error {
	return &Error{Kind: KindClient, Message: fmt.Sprintf("Invalid %s: %s", field, value)}
}

// Is reports whether err (or anything it wraps) is an *Error of kind k.
func Is(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
