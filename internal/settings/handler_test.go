package settings_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/settings"
	"github.com/tiendapos/tiendapos/internal/shared"
)

func TestHandlerUpsertAndLookup(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/api/config", settings.NewHandler(nil, newRepo(t), shared.AllowAll{}).MountRoutes)

	req := httptest.NewRequest(http.MethodPut, "/api/config/key/theme", strings.NewReader(`{"value":"dark"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/config/key/theme", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":1,"key":"theme","value":"dark"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/config/abc", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/config/key/missing", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
