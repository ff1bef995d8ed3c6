package purchases

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapos/tiendapos/internal/platform/httpx"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// Handler exposes purchase endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	guard  shared.RoleGuard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, guard shared.RoleGuard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo, guard: guard}
}

// MountRoutes registers purchase routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole())
		r.Get("/", h.list)
		r.Get("/range", h.byDateRange)
		r.Get("/product/{productID}", h.byProduct)
		r.Get("/product/{productID}/total", h.totalByProduct)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Delete("/old", h.deleteOld)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f, err := filtersFromQuery(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, err := httpx.PageRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	result, err := h.repo.FindAll(r.Context(), f, page)
	if err != nil {
		h.fail(w, "list purchases", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) byDateRange(w http.ResponseWriter, r *http.Request) {
	start, end := httpx.QueryString(r, "start"), httpx.QueryString(r, "end")
	if start == "" || end == "" {
		httpx.BadRequest(w, "start and end are required")
		return
	}
	items, err := h.repo.FindByDateRange(r.Context(), start, end)
	h.respondList(w, "purchases by date range", items, err)
}

func (h *Handler) byProduct(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.FindByProductID(r.Context(), chi.URLParam(r, "productID"))
	h.respondList(w, "purchases by product", items, err)
}

func (h *Handler) totalByProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	total, err := h.repo.TotalPurchasedByProductID(r.Context(), productID)
	if err != nil {
		h.fail(w, "total purchased", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"productId": productID, "total": total})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	h.respondOne(w, "find purchase", p, err, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Insert
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.repo.Create(r.Context(), in)
	h.respondOne(w, "create purchase", p, err, http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in Update
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	p, err := h.repo.Update(r.Context(), in)
	h.respondOne(w, "update purchase", p, err, http.StatusOK)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "delete purchase", err)
		return
	}
	if !ok {
		httpx.NotFound(w, "purchase")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteOld(w http.ResponseWriter, r *http.Request) {
	months, err := httpx.QueryInt(r, "months")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	n := DefaultRetentionMonths
	if months != nil {
		n = int(*months)
	}
	deleted, err := h.repo.DeleteOld(r.Context(), n)
	if err != nil {
		h.fail(w, "delete old purchases", err)
		return
	}
	h.logger.Info("old purchases deleted", slog.Int("months", n), slog.Int("deleted", deleted))
	httpx.JSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *Handler) respondList(w http.ResponseWriter, op string, items []PurchasedProduct, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if items == nil {
		items = []PurchasedProduct{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) respondOne(w http.ResponseWriter, op string, p *PurchasedProduct, err error, status int) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if p == nil {
		httpx.NotFound(w, "purchase")
		return
	}
	httpx.JSON(w, status, p)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func filtersFromQuery(r *http.Request) (Filters, error) {
	f := Filters{
		ProductCode:        httpx.QueryString(r, "productCode"),
		ProductDescription: httpx.QueryString(r, "productDescription"),
		ProductProvider:    httpx.QueryString(r, "productProvider"),
		StartDate:          httpx.QueryString(r, "startDate"),
		EndDate:            httpx.QueryString(r, "endDate"),
	}
	var err error
	if f.MinPrice, err = httpx.QueryFloat(r, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = httpx.QueryFloat(r, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinQuantity, err = httpx.QueryInt(r, "minQuantity"); err != nil {
		return f, err
	}
	if f.MaxQuantity, err = httpx.QueryInt(r, "maxQuantity"); err != nil {
		return f, err
	}
	return f, nil
}
