package response

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/switchyard-http/switchyard/core/handler"
)

// Stream creates a streaming response that gives direct access to the
// response writer. The writer function should write data in chunks and
// return any error; the response is flushed after it completes.
//
// Example:
//
//	Stream(func(w io.Writer) error {
//	    for i := range 100 {
//	        fmt.Fprintf(w, "chunk %d\n", i)
//	        if f, ok := w.(http.Flusher); ok {
//	            f.Flush()
//	        }
//	    }
//	    return nil
//	})
func Stream(writer func(w io.Writer) error) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		if err := writer(w); err != nil {
			// Status cannot change after WriteHeader; the framework's
			// error handler only logs at this point.
			return err
		}

		flusher.Flush()
		return nil
	}
}

// Chunks creates a streaming response fed by a channel of byte chunks.
// The stream ends when the channel is closed. Between chunks the request
// context is consulted, so a cancelled request (client disconnect,
// server deadline) stops emission without the producer needing to know.
//
// Example:
//
//	chunks := make(chan []byte)
//	go produce(chunks) // closes chunks when done
//	return response.Chunks(chunks, "application/octet-stream")
func Chunks(chunks <-chan []byte, contentType string) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		for {
			select {
			case <-r.Context().Done():
				// The response is no longer wanted; stop flushing.
				return nil

			case chunk, open := <-chunks:
				if !open {
					return nil
				}
				if len(chunk) == 0 {
					continue
				}
				if _, err := w.Write(chunk); err != nil {
					return nil
				}
				flusher.Flush()
			}
		}
	}
}

// StreamJSON creates a newline-delimited JSON streaming response
// (application/x-ndjson). Each item from the channel is encoded as one
// line; the stream ends when the channel is closed or the request
// context is cancelled.
func StreamJSON(items <-chan any) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return nil
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(http.StatusOK)

		encoder := json.NewEncoder(w)

		for {
			select {
			case <-r.Context().Done():
				return nil

			case item, open := <-items:
				if !open {
					return nil
				}
				if err := encoder.Encode(item); err != nil {
					// A broken encoder mid-stream cannot be reported to
					// the client; stop emitting.
					return nil
				}
				flusher.Flush()
			}
		}
	}
}
