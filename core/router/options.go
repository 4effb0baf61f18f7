package router

import (
	"log/slog"
	"net/http"

	"github.com/switchyard-http/switchyard/core/handler"
)

// Option configures a Router during creation. Matching options are
// fixed once the router is frozen.
type Option[C handler.Context] func(*mux[C])

// WithErrorHandler sets a custom error handler for the router.
func WithErrorHandler[C handler.Context](h handler.ErrorHandler[C]) Option[C] {
	return func(m *mux[C]) {
		if h != nil {
			m.errorHandler = h
		}
	}
}

// WithMiddleware adds middleware to the router.
func WithMiddleware[C handler.Context](middlewares ...handler.Middleware[C]) Option[C] {
	return func(m *mux[C]) {
		m.middlewares = append(m.middlewares, middlewares...)
	}
}

// WithContextFactory sets a custom context factory for the router. The
// factory receives the route parameter names and values in pattern order.
func WithContextFactory[C handler.Context](f func(http.ResponseWriter, *http.Request, []string, []string) C) Option[C] {
	return func(m *mux[C]) {
		m.newContext = f
	}
}

// WithLogger sets a custom logger for the router.
func WithLogger[C handler.Context](logger *slog.Logger) Option[C] {
	return func(m *mux[C]) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithCaseInsensitive makes static segment matching case-insensitive.
// Variable and wildcard bindings always preserve the request's original
// text.
func WithCaseInsensitive[C handler.Context]() Option[C] {
	return func(m *mux[C]) {
		m.tree.cfg.caseInsensitive = true
	}
}

// WithStrictTrailingSlash makes a trailing slash significant, so "/a/"
// only matches a pattern registered with a trailing slash. By default
// trailing slashes are normalized away.
func WithStrictTrailingSlash[C handler.Context]() Option[C] {
	return func(m *mux[C]) {
		m.tree.cfg.strictSlash = true
	}
}

// WithoutWildcards rejects `*name` pattern segments at registration.
func WithoutWildcards[C handler.Context]() Option[C] {
	return func(m *mux[C]) {
		m.tree.cfg.noWildcards = true
	}
}
