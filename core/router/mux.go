package router

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/switchyard-http/switchyard/core/handler"
)

// mux is the private implementation of the Router interface.
type mux[C handler.Context] struct {
	tree         *tree[C]
	middlewares  []handler.Middleware[C]
	preFilters   []handler.PreFilter[C]
	postFilters  []handler.PostFilter[C]
	errorHandler handler.ErrorHandler[C]
	newContext   func(http.ResponseWriter, *http.Request, []string, []string) C
	logger       *slog.Logger
	frozen       atomic.Bool
}

// newMux creates a new router instance.
func newMux[C handler.Context](opts ...Option[C]) *mux[C] {
	m := &mux[C]{
		tree:         newTree[C](),
		errorHandler: defaultErrorHandler[C],
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
	}

	for _, opt := range opts {
		opt(m)
	}

	// If no context factory provided, only the default *Context type is
	// supported; custom context types require a factory.
	if m.newContext == nil {
		m.newContext = func(w http.ResponseWriter, r *http.Request, keys, values []string) C {
			var zero C
			if _, ok := any(zero).(*Context); ok {
				return any(newContext(w, r, keys, values)).(C)
			}
			panic(ErrNoContextFactory)
		}
	}

	return m
}

// ServeHTTP implements http.Handler. The first served request freezes
// the router, so the tree is immutable for the whole serving phase.
func (m *mux[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.frozen.Store(true)

	ww := newResponseWriter(w)
	var out http.ResponseWriter = ww

	// HEAD responses keep the headers a GET would compute but suppress
	// the body; the counting writer also backfills Content-Length.
	var hw *headResponseWriter
	if r.Method == http.MethodHead {
		hw = newHeadResponseWriter(ww)
		out = hw
	}

	path := r.URL.Path
	if path == "" {
		path = "/"
	}

	method := strings.ToUpper(r.Method)
	accept := r.Header.Get("Accept")

	node, rp := m.tree.findRoute(path)

	var endpoint handler.HandlerFunc[C]
	var dispatchErr error

	if node == nil {
		dispatchErr = ErrNotFound
	} else {
		h, err := node.endpoint.resolve(method, accept)
		if errors.Is(err, ErrMethodNotAllowed) && method == http.MethodHead {
			h, err = node.endpoint.resolve(http.MethodGet, accept)
		}
		switch {
		case errors.Is(err, ErrMethodNotAllowed):
			out.Header().Set("Allow", strings.Join(node.endpoint.allowedMethods(), ", "))
			dispatchErr = err
		case err != nil:
			dispatchErr = err
		default:
			endpoint = h
		}
	}

	ctx := m.newContext(out, r, rp.keys, rp.values)

	fail := func(err error) handler.Response {
		m.logError(r, err)
		return func(http.ResponseWriter, *http.Request) error {
			m.errorHandler(ctx, err)
			return nil
		}
	}

	if dispatchErr != nil {
		// Unmatched requests still flow through the filter chain so
		// cleanup-oriented post filters observe them exactly once.
		derr := dispatchErr
		endpoint = func(C) handler.Response { return fail(derr) }
	} else if len(m.middlewares) > 0 {
		endpoint = handler.Chain(m.middlewares, endpoint)
	}

	resp := runChain(ctx, m.preFilters, m.postFilters, endpoint, fail)

	if err := resp(out, r); err != nil {
		m.logError(r, err)
		if ws, ok := out.(responseState); !ok || !ws.Written() {
			m.errorHandler(ctx, err)
		}
	}

	if hw != nil {
		hw.finish()
	}
}

// Lookup resolves a method and path without dispatching a request.
// Content negotiation uses the server preference order, as if the
// request carried no Accept header.
func (m *mux[C]) Lookup(method, path string) (Match[C], error) {
	node, rp := m.tree.findRoute(path)
	if node == nil {
		return Match[C]{}, ErrNotFound
	}

	match := Match[C]{
		Pattern:     node.endpoint.pattern,
		ParamNames:  rp.keys,
		ParamValues: rp.values,
	}

	h, err := node.endpoint.resolve(strings.ToUpper(method), "")
	if err != nil {
		if errors.Is(err, ErrMethodNotAllowed) {
			match.Allowed = node.endpoint.allowedMethods()
		}
		return match, err
	}

	match.Handler = h
	return match, nil
}

// Get registers a handler for GET requests.
func (m *mux[C]) Get(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodGet, pattern, "", h)
}

// Post registers a handler for POST requests.
func (m *mux[C]) Post(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPost, pattern, "", h)
}

// Put registers a handler for PUT requests.
func (m *mux[C]) Put(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPut, pattern, "", h)
}

// Delete registers a handler for DELETE requests.
func (m *mux[C]) Delete(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodDelete, pattern, "", h)
}

// Patch registers a handler for PATCH requests.
func (m *mux[C]) Patch(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodPatch, pattern, "", h)
}

// Head registers a handler for HEAD requests. Without one, HEAD requests
// fall back to the GET handler with the body suppressed.
func (m *mux[C]) Head(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodHead, pattern, "", h)
}

// Options registers a handler for OPTIONS requests.
func (m *mux[C]) Options(pattern string, h handler.HandlerFunc[C]) {
	m.handle(http.MethodOptions, pattern, "", h)
}

// Handle registers a handler for an arbitrary method token. For a method
// that also has content-type handlers, this handler becomes the
// negotiation fallback.
func (m *mux[C]) Handle(method, pattern string, h handler.HandlerFunc[C]) {
	m.handle(method, pattern, "", h)
}

// HandleContent registers a handler for a specific content type,
// selected through Accept header negotiation.
func (m *mux[C]) HandleContent(method, pattern, contentType string, h handler.HandlerFunc[C]) {
	if strings.TrimSpace(contentType) == "" {
		panic(fmt.Errorf("%w: empty content type for %s %q", ErrInvalidPattern, method, pattern))
	}
	m.handle(method, pattern, contentType, h)
}

// Use appends middleware wrapping matched handlers.
func (m *mux[C]) Use(middlewares ...handler.Middleware[C]) {
	m.checkFrozen("middleware")
	m.middlewares = append(m.middlewares, middlewares...)
}

// Before appends pre filters to the dispatch chain.
func (m *mux[C]) Before(filters ...handler.PreFilter[C]) {
	m.checkFrozen("pre filter")
	m.preFilters = append(m.preFilters, filters...)
}

// After appends post filters to the dispatch chain.
func (m *mux[C]) After(filters ...handler.PostFilter[C]) {
	m.checkFrozen("post filter")
	m.postFilters = append(m.postFilters, filters...)
}

// Freeze ends the build phase. After the freeze the tree and filter
// chain are read-only and may be shared across workers without locks.
func (m *mux[C]) Freeze() {
	m.frozen.Store(true)
}

// Frozen reports whether the router has been frozen.
func (m *mux[C]) Frozen() bool {
	return m.frozen.Load()
}

// Routes returns all registered routes.
func (m *mux[C]) Routes() []Route {
	return m.tree.routes()
}

// handle registers a handler in the routing tree.
func (m *mux[C]) handle(method, pattern, contentType string, h handler.HandlerFunc[C]) {
	m.checkFrozen(pattern)

	if h == nil {
		panic(fmt.Errorf("%w: nil handler for %s %q", ErrInvalidPattern, method, pattern))
	}

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" || strings.ContainsAny(method, " \t") {
		panic(fmt.Errorf("%w: %q", ErrInvalidMethod, method))
	}

	m.tree.insert(pattern, method, contentType, h)
}

func (m *mux[C]) checkFrozen(what string) {
	if m.frozen.Load() {
		panic(fmt.Errorf("%w: cannot register %s", ErrFrozen, what))
	}
}

// logError records dispatch failures. Expected dispatch outcomes log at
// debug level; handler failures and panics at error level with the
// stack when available.
func (m *mux[C]) logError(r *http.Request, err error) {
	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	}

	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrMethodNotAllowed),
		errors.Is(err, ErrNotAcceptable):
		m.logger.DebugContext(r.Context(), "request dispatch failed", attrs...)
	default:
		var pe PanicError
		if errors.As(err, &pe) {
			attrs = append(attrs, slog.String("stack", string(pe.Stack())))
		}
		m.logger.ErrorContext(r.Context(), "request failed", attrs...)
	}
}
