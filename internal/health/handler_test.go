// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker { return pingFunc(func(context.Context) error { return nil }) }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadinessAllHealthy(t *testing.T) {
	h := NewHandler(
		Check{Name: "database", Checker: healthy()},
		Check{Name: "redis", Checker: healthy()},
		Check{Name: "storage", Checker: healthy()},
	)

	rec := serve(h, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	require.Len(t, body.Checks, 3)
	assert.Equal(t, "storage", body.Checks[2].Name)
}

func TestReadinessDegraded(t *testing.T) {
	h := NewHandler(
		Check{Name: "database", Checker: healthy()},
		Check{Name: "redis", Checker: pingFunc(func(context.Context) error {
			return errors.New("down")
		})},
	)

	rec := serve(h, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestShutdown(t *testing.T) {
	h := NewHandler()
	assert.Equal(t, http.StatusOK, serve(h, "/healthz").Code)

	h.SetShutdown(true)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
}
