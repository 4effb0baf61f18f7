package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/switchyard-http/switchyard/core/handler"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(ctx handler.Context) bool

	// Logger is the slog logger to use (default: slog.Default())
	Logger *slog.Logger

	// LogLevel for request logging (default: slog.LevelInfo)
	LogLevel slog.Level

	// SlowRequestThreshold logs requests exceeding the duration at warn
	// level (default: disabled)
	SlowRequestThreshold time.Duration
}

// responseStatus is implemented by the router's writer wrappers.
type responseStatus interface {
	Status() int
}

// WithLogging creates a request logging middleware with default configuration.
func WithLogging[C handler.Context]() handler.Middleware[C] {
	return WithLoggingConfig[C](LoggingConfig{})
}

// WithLoggingConfig creates a request logging middleware with custom
// configuration. One line is logged per request after the response has
// been rendered, carrying method, path, status, duration and the
// request ID when the request ID middleware ran earlier in the chain.
func WithLoggingConfig[C handler.Context](cfg LoggingConfig) handler.Middleware[C] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(next handler.HandlerFunc[C]) handler.HandlerFunc[C] {
		return func(ctx C) handler.Response {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			start := time.Now()
			requestID, _ := GetRequestID(ctx)

			response := next(ctx)
			if response == nil {
				return nil
			}

			return func(w http.ResponseWriter, r *http.Request) error {
				err := response(w, r)
				duration := time.Since(start)

				status := http.StatusOK
				if ws, ok := w.(responseStatus); ok && ws.Status() != 0 {
					status = ws.Status()
				}

				attrs := []any{
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Int("status", status),
					slog.Duration("duration", duration),
				}
				if requestID != "" {
					attrs = append(attrs, slog.String("request_id", requestID))
				}
				if err != nil {
					attrs = append(attrs, slog.Any("error", err))
				}

				level := cfg.LogLevel
				if cfg.SlowRequestThreshold > 0 && duration > cfg.SlowRequestThreshold {
					level = slog.LevelWarn
					attrs = append(attrs, slog.Bool("slow", true))
				}

				cfg.Logger.Log(r.Context(), level, "request", attrs...)
				return err
			}
		}
	}
}
