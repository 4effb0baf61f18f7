package response

import (
	"net/http"

	"github.com/switchyard-http/switchyard/core/handler"
)

// WithHeaders wraps a response with custom HTTP headers, set before the
// wrapped response is rendered.
func WithHeaders(response handler.Response, headers map[string]string) handler.Response {
	if response == nil {
		return nil
	}
	if len(headers) == 0 {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		return response(w, r)
	}
}

// WithHeader wraps a response adding a single header value. Unlike
// WithHeaders it appends, so duplicate header fields are preserved per
// HTTP semantics.
func WithHeader(response handler.Response, key, value string) handler.Response {
	if response == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Add(key, value)
		return response(w, r)
	}
}

// WithCookie wraps a response with an HTTP cookie, set before the
// wrapped response is rendered.
func WithCookie(response handler.Response, cookie *http.Cookie) handler.Response {
	if response == nil || cookie == nil {
		return response
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		http.SetCookie(w, cookie)
		return response(w, r)
	}
}
