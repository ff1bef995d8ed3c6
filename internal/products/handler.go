package products

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapos/tiendapos/internal/platform/httpx"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// Handler exposes product endpoints.
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

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole())
		r.Get("/", h.list)
		r.Get("/zero-stock", h.zeroStock)
		r.Get("/next-code/{prefix}", h.nextCode)
		r.Get("/code/{code}", h.byCode)
		r.Get("/{id}", h.show)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Put("/{id}/stock", h.updateStock)
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
		h.fail(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) zeroStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.FindWithZeroStock(r.Context())
	if err != nil {
		h.fail(w, "list zero stock", err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) nextCode(w http.ResponseWriter, r *http.Request) {
	prefix := chi.URLParam(r, "prefix")
	n, err := h.repo.NextCodeNumber(r.Context(), prefix)
	if err != nil {
		h.fail(w, "next code number", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"prefix": prefix, "next": n})
}

func (h *Handler) byCode(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.FindByCode(r.Context(), chi.URLParam(r, "code"))
	h.respondOne(w, "find product by code", p, err)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	p, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	h.respondOne(w, "find product", p, err)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Insert
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in Update
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	p, err := h.repo.Update(r.Context(), in)
	h.respondOne(w, "update product", p, err)
}

type stockRequest struct {
	Stock *int64 `json:"stock"`
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	var body stockRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if body.Stock == nil {
		httpx.BadRequest(w, "stock is required")
		return
	}
	ok, err := h.repo.UpdateStock(r.Context(), chi.URLParam(r, "id"), *body.Stock)
	if err != nil {
		h.fail(w, "update stock", err)
		return
	}
	if !ok {
		httpx.NotFound(w, "product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "delete product", err)
		return
	}
	if !ok {
		httpx.NotFound(w, "product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondOne(w http.ResponseWriter, op string, p *Product, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if p == nil {
		httpx.NotFound(w, "product")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func filtersFromQuery(r *http.Request) (Filters, error) {
	f := Filters{
		Code:        httpx.QueryString(r, "code"),
		Description: httpx.QueryString(r, "description"),
		Provider:    httpx.QueryString(r, "provider"),
		StartDate:   httpx.QueryString(r, "startDate"),
		EndDate:     httpx.QueryString(r, "endDate"),
	}
	var err error
	if f.Stock, err = httpx.QueryInt(r, "stock"); err != nil {
		return f, err
	}
	if f.MinPrice, err = httpx.QueryFloat(r, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = httpx.QueryFloat(r, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinPurchasePrice, err = httpx.QueryFloat(r, "minPurchasePrice"); err != nil {
		return f, err
	}
	if f.MaxPurchasePrice, err = httpx.QueryFloat(r, "maxPurchasePrice"); err != nil {
		return f, err
	}
	return f, nil
}
