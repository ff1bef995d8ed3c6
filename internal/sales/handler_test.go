package sales_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/sales"
	"github.com/tiendapos/tiendapos/internal/shared"
)

func newRouter(t *testing.T) (http.Handler, *sales.Repository) {
	t.Helper()
	repo, _ := newRepo(t)
	r := chi.NewRouter()
	r.Route("/api/sales", sales.NewHandler(nil, repo, shared.AllowAll{}).MountRoutes)
	return r, repo
}

func TestHandlerCreateUsesPrincipalAsSeller(t *testing.T) {
	h, _ := newRouter(t)
	body := `{"productId":"` + uuid.NewString() + `","productCode":"ABC-1","salePrice":5,"soldAt":"05/01/2025 10:00:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/sales", strings.NewReader(body))
	req = req.WithContext(shared.ContextWithPrincipal(context.Background(), &shared.Principal{Username: "cajero1", Role: shared.RoleCashier}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created sales.SoldProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "cajero1", created.SoldBy)

	req = httptest.NewRequest(http.MethodGet, "/api/sales/date/05-01-2025", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), created.ID)
}

func TestHandlerReturnFlow(t *testing.T) {
	h, repo := newRouter(t)
	s := seed(t, repo, uuid.NewString(), "01/08/2024 10:00:00")

	req := httptest.NewRequest(http.MethodPost, "/api/sales/"+s.ID+"/return", strings.NewReader(`{"returnedAt":"2024-08-02T00:00:00.000Z"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/api/sales/"+s.ID, strings.NewReader(`{"isReturned":false}`))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/sales/returned", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []sales.SoldProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)

	req = httptest.NewRequest(http.MethodPost, "/api/sales/"+uuid.NewString()+"/return", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
