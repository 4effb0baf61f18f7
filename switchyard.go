// Package switchyard is a convenience facade over the framework's core
// packages for applications that use the default request context.
//
//	r := switchyard.New()
//	r.Get("/users/:id", func(ctx *switchyard.Context) switchyard.Response {
//	    return response.JSON(map[string]string{"id": ctx.Param("id")})
//	})
//	r.Freeze()
//	http.ListenAndServe(":8080", r)
package switchyard

import (
	"github.com/switchyard-http/switchyard/core/handler"
	"github.com/switchyard-http/switchyard/core/router"
)

// Context is the default request context.
type Context = router.Context

// Response renders an HTTP response.
type Response = handler.Response

// HandlerFunc is a request handler bound to the default context.
type HandlerFunc = handler.HandlerFunc[*router.Context]

// Middleware wraps handlers bound to the default context.
type Middleware = handler.Middleware[*router.Context]

// Router is a router bound to the default context.
type Router = router.Router[*router.Context]

// Option configures a Router during creation.
type Option = router.Option[*router.Context]

// New creates a router using the default context.
func New(opts ...Option) Router {
	return router.New(opts...)
}
