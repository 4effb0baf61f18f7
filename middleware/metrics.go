package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/switchyard-http/switchyard/core/handler"
)

// MetricsConfig configures the metrics filter pair.
type MetricsConfig struct {
	// Registerer receives the collectors (default: prometheus.DefaultRegisterer)
	Registerer prometheus.Registerer
	// Namespace prefixes the metric names (default: "switchyard")
	Namespace string
	// DurationBuckets for the request duration histogram
	// (default: prometheus.DefBuckets)
	DurationBuckets []float64
}

// requestStart carries the request start time through the typed store
// from the pre filter to the post filter.
type requestStart struct {
	at time.Time
}

// WithMetrics creates a pre/post filter pair recording request counts
// and durations with default configuration.
func WithMetrics[C handler.Context]() (handler.PreFilter[C], handler.PostFilter[C]) {
	return WithMetricsConfig[C](MetricsConfig{})
}

// WithMetricsConfig creates a pre/post filter pair with custom
// configuration. The pre filter records the start time; the post filter
// wraps the in-flight response so the status code observed after
// rendering is counted. Because post filters run for every request —
// matched, aborted or failed — each request is observed exactly once.
//
// Register the post filter last so later filters cannot replace the
// instrumented response.
func WithMetricsConfig[C handler.Context](cfg MetricsConfig) (handler.PreFilter[C], handler.PostFilter[C]) {
	if cfg.Registerer == nil {
		cfg.Registerer = prometheus.DefaultRegisterer
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "switchyard"
	}
	if cfg.DurationBuckets == nil {
		cfg.DurationBuckets = prometheus.DefBuckets
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of processed HTTP requests.",
	}, []string{"method", "status"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request processing duration.",
		Buckets:   cfg.DurationBuckets,
	}, []string{"method"})

	cfg.Registerer.MustRegister(requests, duration)

	pre := func(ctx C) (handler.Response, error) {
		handler.Set(ctx.Values(), requestStart{at: time.Now()})
		return nil, nil
	}

	post := func(ctx C, resp handler.Response) (handler.Response, error) {
		if resp == nil {
			return nil, nil
		}

		start, tracked := handler.Get[requestStart](ctx.Values())

		return func(w http.ResponseWriter, r *http.Request) error {
			err := resp(w, r)

			status := http.StatusOK
			if ws, ok := w.(responseStatus); ok && ws.Status() != 0 {
				status = ws.Status()
			}

			requests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
			if tracked {
				duration.WithLabelValues(r.Method).Observe(time.Since(start.at).Seconds())
			}
			return err
		}, nil
	}

	return pre, post
}
