package purchases_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tiendapos/tiendapos/internal/dates"
	"github.com/tiendapos/tiendapos/internal/purchases"
	"github.com/tiendapos/tiendapos/internal/shared"
)

func TestHandlerPurchaseFlow(t *testing.T) {
	repo := newRepo(t)
	r := chi.NewRouter()
	r.Route("/api/purchases", purchases.NewHandler(nil, repo, shared.AllowAll{}).MountRoutes)

	productID := uuid.NewString()
	body := `{"productId":"` + productID + `","productCode":"ABC-1","productDescription":"Hammer","productProvider":"Acme","purchasePrice":2,"quantity":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/purchases", strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/purchases/product/"+productID+"/total", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"productId":"`+productID+`","total":5}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/purchases?page=0&limit=5", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var page shared.Page[purchases.PurchasedProduct]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/purchases/range", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerDeleteOld(t *testing.T) {
	repo := newRepo(t)
	r := chi.NewRouter()
	r.Route("/api/purchases", purchases.NewHandler(nil, repo, shared.AllowAll{}).MountRoutes)
	seed(t, repo, uuid.NewString(), 1, dates.FormatDayFirst(fixedNow.AddDate(0, -2, 0)))

	req := httptest.NewRequest(http.MethodDelete, "/api/purchases/old?months=1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"deleted":1}`, rec.Body.String())
}
