package switchyard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/switchyard-http/switchyard"
	"github.com/switchyard-http/switchyard/core/response"
)

func TestNew(t *testing.T) {
	t.Parallel()

	r := switchyard.New()
	r.Get("/users/:id", func(ctx *switchyard.Context) switchyard.Response {
		return response.String("user " + ctx.Param("id"))
	})
	r.Freeze()

	req := httptest.NewRequest(http.MethodGet, "/users/9", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user 9", rec.Body.String())
}
