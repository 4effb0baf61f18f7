package router_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/switchyard-http/switchyard/core/handler"
	"github.com/switchyard-http/switchyard/core/router"
)

func TestRouter_Dispatch(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/users/:id", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			_, err := fmt.Fprintf(w, "user %s", ctx.Param("id"))
			return err
		}
	})
	r.Delete("/users/:id", func(ctx *router.Context) handler.Response {
		return func(w http.ResponseWriter, _ *http.Request) error {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
	})
	r.Get("/files/*path", echoParam("path"))

	t.Run("matched_get_binds_variable", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user 42", rec.Body.String())
	})

	t.Run("matched_delete", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodDelete, "/users/42", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wildcard_binds_rest_of_path", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/files/a/b/c.txt", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "a/b/c.txt", rec.Body.String())
	})

	t.Run("unsupported_method_sets_allow_header", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodPut, "/users/42", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "DELETE, GET", rec.Header().Get("Allow"))
	})

	t.Run("unmatched_path_is_not_found", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/unknown", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_ExtensionMethods(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Handle("REPORT", "/calendar", echo("report"))
	r.Handle("lock", "/calendar", echo("locked"))

	t.Run("custom_method_token", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("REPORT", "/calendar", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "report", rec.Body.String())
	})

	t.Run("method_upper_cased_at_registration", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest("LOCK", "/calendar", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "locked", rec.Body.String())
	})

	t.Run("extension_methods_appear_in_allow", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/calendar", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "LOCK, REPORT", rec.Header().Get("Allow"))
	})
}

func TestRouter_HeadRequests(t *testing.T) {
	t.Parallel()

	t.Run("falls_back_to_get_and_suppresses_body", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/page", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, _ *http.Request) error {
				w.Header().Set("Content-Type", "text/plain")
				_, err := w.Write([]byte("hello"))
				return err
			}
		})

		req := httptest.NewRequest(http.MethodHead, "/page", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, "5", rec.Header().Get("Content-Length"))
		assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	})

	t.Run("explicit_head_handler_wins", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/page", echo("get body"))
		r.Head("/page", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, _ *http.Request) error {
				w.Header().Set("X-Head", "yes")
				w.WriteHeader(http.StatusOK)
				return nil
			}
		})

		req := httptest.NewRequest(http.MethodHead, "/page", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "yes", rec.Header().Get("X-Head"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("no_get_handler_is_method_not_allowed", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Post("/page", echo("posted"))

		req := httptest.NewRequest(http.MethodHead, "/page", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRouter_ContentNegotiation(t *testing.T) {
	t.Parallel()

	newRouter := func(withFallback bool) router.Router[*router.Context] {
		r := router.New[*router.Context]()
		r.HandleContent(http.MethodGet, "/report", "application/json", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, _ *http.Request) error {
				w.Header().Set("Content-Type", "application/json")
				_, err := w.Write([]byte(`{"kind":"json"}`))
				return err
			}
		})
		r.HandleContent(http.MethodGet, "/report", "text/csv", func(ctx *router.Context) handler.Response {
			return func(w http.ResponseWriter, _ *http.Request) error {
				w.Header().Set("Content-Type", "text/csv")
				_, err := w.Write([]byte("kind\ncsv"))
				return err
			}
		})
		if withFallback {
			r.Get("/report", echo("fallback"))
		}
		return r
	}

	serve := func(r http.Handler, accept string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/report", nil)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("picks_by_quality", func(t *testing.T) {
		t.Parallel()

		rec := serve(newRouter(false), "application/json;q=0.2, text/csv")
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	})

	t.Run("no_accept_header_uses_registration_order", func(t *testing.T) {
		t.Parallel()

		rec := serve(newRouter(false), "")
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})

	t.Run("type_wildcard", func(t *testing.T) {
		t.Parallel()

		rec := serve(newRouter(false), "text/*")
		assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	})

	t.Run("no_match_without_fallback_is_not_acceptable", func(t *testing.T) {
		t.Parallel()

		rec := serve(newRouter(false), "image/png")
		assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	})

	t.Run("no_match_with_fallback_uses_fallback", func(t *testing.T) {
		t.Parallel()

		rec := serve(newRouter(true), "image/png")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "fallback", rec.Body.String())
	})

	t.Run("empty_content_type_registration_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		assert.Panics(t, func() {
			r.HandleContent(http.MethodGet, "/report", "  ", echo("x"))
		})
	})
}

func TestRouter_Freeze(t *testing.T) {
	t.Parallel()

	t.Run("explicit_freeze_rejects_registration", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/a", echo("a"))
		r.Freeze()
		require.True(t, r.Frozen())

		for name, reg := range map[string]func(){
			"route":       func() { r.Get("/b", echo("b")) },
			"middleware":  func() { r.Use(func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] { return next }) },
			"pre_filter":  func() { r.Before(func(*router.Context) (handler.Response, error) { return nil, nil }) },
			"post_filter": func() { r.After(func(_ *router.Context, resp handler.Response) (handler.Response, error) { return resp, nil }) },
		} {
			t.Run(name, func(t *testing.T) {
				defer func() {
					p := recover()
					require.NotNil(t, p)
					err, ok := p.(error)
					require.True(t, ok)
					assert.ErrorIs(t, err, router.ErrFrozen)
				}()
				reg()
			})
		}
	})

	t.Run("first_request_freezes_implicitly", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/a", echo("a"))
		require.False(t, r.Frozen())

		req := httptest.NewRequest(http.MethodGet, "/a", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, r.Frozen())
		assert.Panics(t, func() { r.Get("/b", echo("b")) })
	})
}

func TestRouter_Middleware(t *testing.T) {
	t.Parallel()

	t.Run("wraps_matched_handlers_in_order", func(t *testing.T) {
		t.Parallel()

		var order []string
		mw := func(name string) handler.Middleware[*router.Context] {
			return func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
				return func(ctx *router.Context) handler.Response {
					order = append(order, name)
					return next(ctx)
				}
			}
		}

		r := router.New(router.WithMiddleware(mw("option")))
		r.Use(mw("use"))
		r.Get("/a", func(ctx *router.Context) handler.Response {
			order = append(order, "handler")
			return func(w http.ResponseWriter, _ *http.Request) error { return nil }
		})

		req := httptest.NewRequest(http.MethodGet, "/a", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, []string{"option", "use", "handler"}, order)
	})

	t.Run("does_not_run_for_unmatched_requests", func(t *testing.T) {
		t.Parallel()

		called := false
		r := router.New(router.WithMiddleware(
			func(next handler.HandlerFunc[*router.Context]) handler.HandlerFunc[*router.Context] {
				return func(ctx *router.Context) handler.Response {
					called = true
					return next(ctx)
				}
			},
		))
		r.Get("/a", echo("a"))

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, called)
	})
}

func TestRouter_ErrorHandling(t *testing.T) {
	t.Parallel()

	t.Run("handler_panic_becomes_500", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			panic("kaput")
		})

		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "kaput")
	})

	t.Run("nil_response_becomes_500", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/nil", func(ctx *router.Context) handler.Response {
			return nil
		})

		req := httptest.NewRequest(http.MethodGet, "/nil", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("render_error_before_write_uses_error_handler", func(t *testing.T) {
		t.Parallel()

		r := router.New[*router.Context]()
		r.Get("/fail", func(ctx *router.Context) handler.Response {
			return func(http.ResponseWriter, *http.Request) error {
				return errors.New("render failed")
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/fail", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "render failed")
	})

	t.Run("custom_error_handler_receives_dispatch_errors", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
		}))
		r.Get("/a", echo("a"))

		req := httptest.NewRequest(http.MethodGet, "/missing", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, router.ErrNotFound)
	})

	t.Run("panic_error_exposes_value_and_stack", func(t *testing.T) {
		t.Parallel()

		var got error
		r := router.New(router.WithErrorHandler(func(ctx *router.Context, err error) {
			got = err
			ctx.ResponseWriter().WriteHeader(http.StatusInternalServerError)
		}))
		r.Get("/boom", func(ctx *router.Context) handler.Response {
			panic("kaput")
		})

		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)

		var pe router.PanicError
		require.ErrorAs(t, got, &pe)
		assert.Equal(t, "kaput", pe.Value())
		assert.NotEmpty(t, pe.Stack())
	})
}

func TestRouter_CustomContext(t *testing.T) {
	t.Parallel()

	t.Run("factory_builds_custom_context", func(t *testing.T) {
		t.Parallel()

		r := router.New(router.WithContextFactory(
			func(w http.ResponseWriter, req *http.Request, keys, values []string) *trackedContext {
				return &trackedContext{Context: router.NewContext(w, req), keys: keys, values: values}
			},
		))
		r.Get("/users/:id", func(ctx *trackedContext) handler.Response {
			return func(w http.ResponseWriter, _ *http.Request) error {
				_, err := w.Write([]byte(ctx.values[0]))
				return err
			}
		})

		req := httptest.NewRequest(http.MethodGet, "/users/9", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, "9", rec.Body.String())
	})

	t.Run("custom_context_without_factory_panics", func(t *testing.T) {
		t.Parallel()

		r := router.New[*trackedContext]()
		r.Get("/a", func(ctx *trackedContext) handler.Response {
			return func(http.ResponseWriter, *http.Request) error { return nil }
		})

		req := httptest.NewRequest(http.MethodGet, "/a", nil)
		assert.Panics(t, func() {
			r.ServeHTTP(httptest.NewRecorder(), req)
		})
	})
}

// trackedContext embeds the default context to test custom factories.
type trackedContext struct {
	*router.Context
	keys   []string
	values []string
}

func TestRouter_ConcurrentRequestsIsolated(t *testing.T) {
	t.Parallel()

	type marker struct{ id int }

	r := router.New[*router.Context]()
	r.Get("/work/:id", func(ctx *router.Context) handler.Response {
		id, err := strconv.Atoi(ctx.Param("id"))
		if err != nil {
			panic(err)
		}
		handler.Set(ctx.Values(), marker{id: id})
		return func(w http.ResponseWriter, _ *http.Request) error {
			got, ok := handler.Get[marker](ctx.Values())
			if !ok || got.id != id {
				w.WriteHeader(http.StatusInternalServerError)
				return nil
			}
			_, werr := w.Write([]byte(strconv.Itoa(got.id)))
			return werr
		}
	})
	r.Freeze()

	const workers = 32
	var wg sync.WaitGroup
	results := make([]string, workers)
	codes := make([]int, workers)

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/work/"+strconv.Itoa(i), nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			results[i] = rec.Body.String()
			codes[i] = rec.Code
		}()
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		assert.Equal(t, http.StatusOK, codes[i])
		assert.Equal(t, strconv.Itoa(i), results[i])
	}
}

func TestRouter_EmptyPathTreatedAsRoot(t *testing.T) {
	t.Parallel()

	r := router.New[*router.Context]()
	r.Get("/", echo("root"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = ""
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "root", rec.Body.String())
}
