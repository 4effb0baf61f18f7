// Package handler provides the core abstractions for HTTP request
// processing: a type-safe handler and middleware system built on Go
// generics, a request context contract, pre/post filter types for the
// dispatch chain, and a type-indexed per-request value store.
//
// # Core Types
//
//	// Response function renders HTTP responses
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Type-safe handler with custom context
//	type HandlerFunc[C Context] func(ctx C) Response
//
//	// Middleware function for handler composition
//	type Middleware[C Context] func(next HandlerFunc[C]) HandlerFunc[C]
//
//	// Filters run around the handler inside the router's chain
//	type PreFilter[C Context] func(ctx C) (Response, error)
//	type PostFilter[C Context] func(ctx C, resp Response) (Response, error)
//
// # Context
//
// Context extends context.Context with HTTP-specific accessors, the
// ordered URL parameters bound by the router, and a Values() store for
// passing typed data between filters and handlers:
//
//	func profileHandler(ctx handler.Context) handler.Response {
//		id := ctx.Param("id")
//		user, ok := handler.Get[*User](ctx.Values())
//		...
//	}
//
// # Typed Store
//
// The Store keeps one slot per Go type. Retrieval of an absent type
// returns the zero value and false, never panics:
//
//	handler.Set(ctx.Values(), &Session{ID: sid})
//	sess, ok := handler.Get[*Session](ctx.Values())
//	handler.Remove[*Session](ctx.Values())
//
// Because multiple URL parameters share the string type, parameters are
// exposed separately through Param and ParamNames rather than through
// the typed store.
package handler
