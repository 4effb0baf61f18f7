package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/switchyard-http/switchyard/core/handler"
)

var (
	// Dispatch errors, recovered into HTTP responses.
	ErrNotFound         = errors.New("not found")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrNotAcceptable    = errors.New("not acceptable")
	ErrNilResponse      = errors.New("nil response")

	// Mux configuration errors.
	ErrNoContextFactory = errors.New("no context factory provided")
	ErrFrozen           = errors.New("router is frozen")

	// Pattern registration errors. These panic at registration time and
	// never reach request serving.
	ErrInvalidPattern     = errors.New("invalid route path pattern")
	ErrInvalidMethod      = errors.New("invalid http method")
	ErrConflictingPattern = errors.New("conflicting route patterns")
	ErrWildcardPosition   = errors.New("wildcard must be the last pattern segment")
	ErrWildcardNotAllowed = errors.New("wildcard segments are disabled")
	ErrDuplicateParam     = errors.New("duplicate parameter name")
)

// statusCode is an unexported interface that errors can implement
// to provide a custom HTTP status code.
type statusCode interface {
	StatusCode() int
}

// responseState lets the error handler detect a response that has
// already been written, regardless of which writer wrapper is in use.
type responseState interface {
	Written() bool
}

// defaultErrorHandler converts dispatch errors into plain-text HTTP
// responses. Internal failure details are never echoed to the client.
func defaultErrorHandler[C handler.Context](ctx C, err error) {
	w := ctx.ResponseWriter()

	// Prevent double-writing responses which causes HTTP protocol errors
	if ww, ok := w.(responseState); ok && ww.Written() {
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "404 Not Found", http.StatusNotFound)
	case errors.Is(err, ErrMethodNotAllowed):
		http.Error(w, "405 Method Not Allowed", http.StatusMethodNotAllowed)
	case errors.Is(err, ErrNotAcceptable):
		http.Error(w, "406 Not Acceptable", http.StatusNotAcceptable)
	default:
		status := http.StatusInternalServerError
		if sc, ok := err.(statusCode); ok {
			status = sc.StatusCode()
		}
		http.Error(w, http.StatusText(status), status)
	}
}

// PanicError provides access to the original panic value and the stack
// trace captured when the chain recovered a panicking filter or handler.
type PanicError interface {
	error
	// Value returns the original panic value.
	Value() any
	// Stack returns the stack trace captured at the panic point.
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

func (e *panicError) Value() any {
	return e.value
}

func (e *panicError) Stack() []byte {
	return e.stack
}

// Unwrap allows errors.Is/As to work with wrapped panics.
func (e *panicError) Unwrap() error {
	if err, ok := e.value.(error); ok {
		return err
	}
	return nil
}
