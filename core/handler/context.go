package handler

import (
	"context"
	"net/http"
)

// Context defines the contract for request contexts in the framework.
// Use the router's Context for the default implementation.
type Context interface {
	context.Context

	// Request returns the *http.Request associated with the context.
	Request() *http.Request

	// ResponseWriter returns the http.ResponseWriter associated with the context.
	ResponseWriter() http.ResponseWriter

	// Param returns the value of the URL parameter by name, or "" when the
	// matched route did not bind it.
	Param(name string) string

	// ParamNames returns the parameter names bound by the matched route,
	// in pattern order.
	ParamNames() []string

	// Values returns the request-scoped, type-indexed value store.
	// Never nil for the lifetime of the request.
	Values() *Store
}
