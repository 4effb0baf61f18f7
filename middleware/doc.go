// Package middleware provides ready-made middleware and filters for the
// router: request ID assignment, structured request logging, and
// Prometheus metrics.
//
// Middleware wraps matched handlers:
//
//	r := router.New(
//	    router.WithMiddleware(
//	        middleware.WithRequestID[*router.Context](),
//	        middleware.WithLogging[*router.Context](),
//	    ),
//	)
//
// Metrics are a pre/post filter pair so that unmatched and aborted
// requests are counted too:
//
//	pre, post := middleware.WithMetrics[*router.Context]()
//	r.Before(pre)
//	r.After(post)
package middleware
