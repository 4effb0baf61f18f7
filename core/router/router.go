package router

import (
	"net/http"

	"github.com/switchyard-http/switchyard/core/handler"
)

// Router is the main routing interface for handling HTTP requests.
// Routes are registered during a build phase and become immutable once
// the router is frozen; a frozen router is safe for unsynchronized
// concurrent use.
type Router[C handler.Context] interface {
	http.Handler
	Routes

	// HTTP method helpers
	Get(pattern string, h handler.HandlerFunc[C])
	Post(pattern string, h handler.HandlerFunc[C])
	Put(pattern string, h handler.HandlerFunc[C])
	Delete(pattern string, h handler.HandlerFunc[C])
	Patch(pattern string, h handler.HandlerFunc[C])
	Head(pattern string, h handler.HandlerFunc[C])
	Options(pattern string, h handler.HandlerFunc[C])

	// Generic registration. Method is an opaque upper-cased token, so
	// extension methods are allowed. HandleContent registers a handler
	// for a specific response content type; a handler registered through
	// Handle for the same method acts as the negotiation fallback.
	Handle(method, pattern string, h handler.HandlerFunc[C])
	HandleContent(method, pattern, contentType string, h handler.HandlerFunc[C])

	// Middleware wraps matched handlers only; filters run around the
	// whole dispatch, including synthesized 404/405/406 responses.
	Use(middlewares ...handler.Middleware[C])
	Before(filters ...handler.PreFilter[C])
	After(filters ...handler.PostFilter[C])

	// Freeze ends the build phase. Any registration afterwards panics.
	// Serving a request freezes the router implicitly.
	Freeze()
	Frozen() bool

	// Lookup resolves a method and path without dispatching.
	Lookup(method, path string) (Match[C], error)
}

// Routes provides route introspection capabilities.
type Routes interface {
	Routes() []Route
}

// Route describes a single registered route.
type Route struct {
	Method  string
	Pattern string
}

// Match is the result of resolving a method and path against the tree.
// On ErrMethodNotAllowed the Allowed set carries the methods the matched
// pattern supports, in Allow-header order.
type Match[C handler.Context] struct {
	Handler     handler.HandlerFunc[C]
	Pattern     string
	ParamNames  []string
	ParamValues []string
	Allowed     []string
}

// Param returns the value bound to name in this match, or "".
func (m Match[C]) Param(name string) string {
	for i, k := range m.ParamNames {
		if k == name {
			return m.ParamValues[i]
		}
	}
	return ""
}

// New creates a new router with the given options.
func New[C handler.Context](opts ...Option[C]) Router[C] {
	return newMux[C](opts...)
}
