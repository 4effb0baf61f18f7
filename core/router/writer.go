package router

import (
	"net/http"
	"strconv"
)

// responseWriter is a minimal wrapper around http.ResponseWriter
// that tracks whether a response has been written.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (w *responseWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
		w.ResponseWriter.WriteHeader(status)
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// Written returns true if WriteHeader has been called.
func (w *responseWriter) Written() bool {
	return w.written
}

// Status returns the HTTP status code of the response.
func (w *responseWriter) Status() int {
	return w.status
}

// Flush implements http.Flusher if the underlying writer supports it.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// headResponseWriter serves HEAD requests: body writes are counted and
// discarded, the header flush is delayed until the handler finishes, and
// Content-Length is set from the counted size so the emitted headers
// match what the equivalent GET would have produced.
type headResponseWriter struct {
	http.ResponseWriter
	status int
	size   int64
	done   bool
}

func newHeadResponseWriter(w http.ResponseWriter) *headResponseWriter {
	return &headResponseWriter{ResponseWriter: w}
}

func (w *headResponseWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *headResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.size += int64(len(b))
	return len(b), nil
}

// Written reports whether a status has been recorded. The underlying
// writer is not touched until finish.
func (w *headResponseWriter) Written() bool {
	return w.status != 0
}

// Status returns the recorded HTTP status code.
func (w *headResponseWriter) Status() int {
	return w.status
}

// Flush is a no-op: the header must stay open until finish so
// Content-Length can still be set.
func (w *headResponseWriter) Flush() {}

// finish emits the recorded status and headers to the client, once.
func (w *headResponseWriter) finish() {
	if w.done {
		return
	}
	w.done = true

	if w.status == 0 {
		w.status = http.StatusOK
	}
	h := w.Header()
	if h.Get("Content-Length") == "" {
		h.Set("Content-Length", strconv.FormatInt(w.size, 10))
	}
	w.ResponseWriter.WriteHeader(w.status)
}
