package router

import (
	"net/http"
	"time"

	"github.com/switchyard-http/switchyard/core/handler"
)

// Context is the default request context implementation. It delegates
// all context.Context methods to the request's context, exposes the
// variable bindings produced by the router in pattern order, and owns a
// type-indexed value store for the lifetime of the request.
//
// A Context is created per incoming request and never shared between
// requests, so it is safe to mutate without synchronization.
type Context struct {
	w http.ResponseWriter
	r *http.Request

	paramKeys   []string
	paramValues []string

	values *handler.Store
}

// NewContext creates a Context without route parameters, primarily for
// tests and for adapting plain http.Handler call sites.
func NewContext(w http.ResponseWriter, r *http.Request) *Context {
	return newContext(w, r, nil, nil)
}

func newContext(w http.ResponseWriter, r *http.Request, keys, values []string) *Context {
	return &Context{
		w:           w,
		r:           r,
		paramKeys:   keys,
		paramValues: values,
		values:      handler.NewStore(),
	}
}

// Deadline delegates to the request's context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

// Done delegates to the request's context.
func (c *Context) Done() <-chan struct{} {
	return c.r.Context().Done()
}

// Err delegates to the request's context.
func (c *Context) Err() error {
	return c.r.Context().Err()
}

// Value delegates to the request's context.
func (c *Context) Value(key any) any {
	return c.r.Context().Value(key)
}

// Request returns the *http.Request associated with the context.
func (c *Context) Request() *http.Request {
	return c.r
}

// ResponseWriter returns the http.ResponseWriter associated with the context.
func (c *Context) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Param returns the value bound to a route variable or wildcard, or ""
// when the matched pattern did not bind that name.
func (c *Context) Param(name string) string {
	for i, k := range c.paramKeys {
		if k == name {
			return c.paramValues[i]
		}
	}
	return ""
}

// ParamNames returns the names bound by the matched pattern, in pattern
// order.
func (c *Context) ParamNames() []string {
	return c.paramKeys
}

// Values returns the request-scoped, type-indexed value store.
func (c *Context) Values() *handler.Store {
	return c.values
}
