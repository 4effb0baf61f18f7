package router

import (
	"runtime/debug"

	"github.com/switchyard-http/switchyard/core/handler"
)

// runChain executes the request pipeline: pre filters in registration
// order, then the endpoint, then post filters in registration order.
//
// A pre filter returning a response or an error aborts the remaining pre
// filters and the endpoint. Post filters always run exactly once per
// request, even after an abort, and may replace the in-flight response.
// Panics and errors anywhere in the chain are converted into an error
// response via fail; they never escape to the transport.
func runChain[C handler.Context](
	ctx C,
	pre []handler.PreFilter[C],
	post []handler.PostFilter[C],
	endpoint handler.HandlerFunc[C],
	fail func(error) handler.Response,
) handler.Response {
	var resp handler.Response
	aborted := false

	for _, f := range pre {
		r, err := runPreFilter(ctx, f)
		if err != nil {
			resp = fail(err)
			aborted = true
			break
		}
		if r != nil {
			resp = r
			aborted = true
			break
		}
	}

	if !aborted {
		r, err := runEndpoint(ctx, endpoint)
		switch {
		case err != nil:
			resp = fail(err)
		case r == nil:
			resp = fail(ErrNilResponse)
		default:
			resp = r
		}
	}

	for _, f := range post {
		r, err := runPostFilter(ctx, f, resp)
		if err != nil {
			resp = fail(err)
			continue
		}
		if r != nil {
			resp = r
		}
	}

	return resp
}

func runPreFilter[C handler.Context](ctx C, f handler.PreFilter[C]) (resp handler.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()
	return f(ctx)
}

func runPostFilter[C handler.Context](ctx C, f handler.PostFilter[C], in handler.Response) (resp handler.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()
	return f(ctx, in)
}

func runEndpoint[C handler.Context](ctx C, endpoint handler.HandlerFunc[C]) (resp handler.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()
	return endpoint(ctx), nil
}
