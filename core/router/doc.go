// Package router provides the routing and dispatch core of the
// framework: a path-matching tree over URL segments, an endpoint
// registry with method and content-type dispatch, a per-request context
// carrying variable bindings and a typed value store, and a pre/post
// filter chain around handler invocation.
//
// # Patterns
//
// Patterns are plain paths whose segments may be literals, variables or
// a terminal wildcard:
//
//	r := router.New[*router.Context]()
//	r.Get("/users/:id", getUser)          // :id binds one segment
//	r.Get("/files/*path", serveFile)      // *path binds the remainder
//	r.Delete("/users/:id", deleteUser)
//	r.Freeze()
//
// When several patterns match a path, the most specific branch wins:
// static segments beat variables, variables beat wildcards, and the
// matcher backtracks fully, so a static branch that dead-ends falls
// back to variable and wildcard siblings at every level.
//
// # Build phase and freeze
//
// Registration is only legal before the freeze. Conflicting patterns
// (two variable names at the same tree position, a non-terminal
// wildcard, duplicate names within one pattern) panic at registration,
// so misconfigured routes fail at startup and never serve traffic.
// After Freeze — explicit or implicit on the first request — the tree
// is immutable and shared across all workers without synchronization.
//
// # Dispatch
//
//	transport → match path → bind variables → resolve method/content type
//	          → pre filters → handler → post filters → render response
//
// A path with no matching pattern yields 404; a matched path without
// the request method yields 405 with an Allow header; failed content
// negotiation without a fallback handler yields 406. Handler and filter
// failures are recovered into 500 responses and logged; no request-time
// error escapes to the transport. Error responses can be customized via
// WithErrorHandler.
//
// # Content negotiation
//
// Handlers may be registered per content type; the Accept header picks
// the best registered type by quality value:
//
//	r.HandleContent(http.MethodGet, "/report", "application/json", jsonReport)
//	r.HandleContent(http.MethodGet, "/report", "text/csv", csvReport)
//	r.Handle(http.MethodGet, "/report", defaultReport) // negotiation fallback
package router
