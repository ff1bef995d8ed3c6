package products_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/products"
	"github.com/tiendapos/tiendapos/internal/shared"
)

func newRouter(t *testing.T) (http.Handler, *products.Repository) {
	t.Helper()
	repo := newRepo(t)
	h := products.NewHandler(nil, repo, shared.AllowAll{})
	r := chi.NewRouter()
	r.Route("/api/products", h.MountRoutes)
	return r, repo
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerCreateAndShow(t *testing.T) {
	h, _ := newRouter(t)

	rec := do(t, h, http.MethodPost, "/api/products", `{"code":"ABC-1","description":"Hammer","provider":"Acme","purchasePrice":2,"salePrice":5,"stock":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created products.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "ABC-1", created.Code)

	rec = do(t, h, http.MethodGet, "/api/products/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/"+uuid.NewString(), "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerRejectsInvalidProduct(t *testing.T) {
	h, _ := newRouter(t)
	rec := do(t, h, http.MethodPost, "/api/products", `{"code":"ABC-1","salePrice":-5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "salePrice")

	rec = do(t, h, http.MethodPost, "/api/products", `{not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListAndNextCode(t *testing.T) {
	h, repo := newRouter(t)
	for _, code := range []string{"ABC-1", "ABC-2", "XYZ-1"} {
		seed(t, repo, code, 3, 1)
	}

	rec := do(t, h, http.MethodGet, "/api/products?code=abc&limit=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page shared.Page[products.Product]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Equal(t, 1, page.Count)
	require.Equal(t, 2, page.TotalPages)

	rec = do(t, h, http.MethodGet, "/api/products?minPrice=abc", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/next-code/ABC", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"prefix":"ABC","next":3}`, rec.Body.String())
}

func TestHandlerStockAndDelete(t *testing.T) {
	h, repo := newRouter(t)
	p := seed(t, repo, "ABC-1", 3, 1)

	rec := do(t, h, http.MethodPut, "/api/products/"+p.ID+"/stock", `{"stock":0}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/products/zero-stock", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), p.ID)

	rec = do(t, h, http.MethodDelete, "/api/products/"+p.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodDelete, "/api/products/"+p.ID, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
