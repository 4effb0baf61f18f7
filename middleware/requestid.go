package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/switchyard-http/switchyard/core/handler"
)

// RequestID is the identifier assigned to a request by the request ID
// middleware. It is stored in the context's typed value store.
type RequestID string

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool
	// Generator creates new request IDs (default: UUID v4)
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID")
	HeaderName string
	// UseExisting determines whether to use an existing request ID from the incoming request
	UseExisting bool
}

// WithRequestID creates a request ID middleware with default configuration.
// It generates a new UUID for each request and includes it in both the
// context's value store and the response headers.
func WithRequestID[C handler.Context]() handler.Middleware[C] {
	return WithRequestIDConfig[C](RequestIDConfig{})
}

// WithRequestIDConfig creates a request ID middleware with custom configuration.
func WithRequestIDConfig[C handler.Context](cfg RequestIDConfig) handler.Middleware[C] {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}

	if cfg.Generator == nil {
		cfg.Generator = func() string {
			return uuid.New().String()
		}
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			var requestID string

			if cfg.UseExisting {
				if existingID := ctx.Request().Header.Get(cfg.HeaderName); existingID != "" {
					requestID = existingID
				}
			}

			if requestID == "" {
				requestID = cfg.Generator()
			}

			handler.Set(ctx.Values(), RequestID(requestID))

			response := next(ctx)
			if response == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				w.Header().Set(cfg.HeaderName, requestID)
				return response(w, r)
			}
		}
	}
}

// GetRequestID retrieves the request ID from the context's value store.
// The boolean reports whether the middleware assigned one.
func GetRequestID(ctx handler.Context) (string, bool) {
	id, ok := handler.Get[RequestID](ctx.Values())
	return string(id), ok
}
