package sales

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tiendapos/tiendapos/internal/platform/httpx"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// Handler exposes sale endpoints.
type Handler struct {
	logger *slog.Logger
	repo   *Repository
	guard  shared.RoleGuard
	now    func() time.Time
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, repo *Repository, guard shared.RoleGuard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, repo: repo, guard: guard, now: time.Now}
}

// MountRoutes registers sale routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole())
		r.Get("/", h.list)
		r.Get("/all", h.all)
		r.Get("/not-returned", h.notReturned)
		r.Get("/returned", h.returned)
		r.Get("/date/{prefix}", h.bySoldDate)
		r.Get("/product/{productID}", h.byProduct)
		r.Get("/{id}", h.show)
		r.Post("/", h.create)
		r.Post("/{id}/return", h.markReturned)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
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
	result, err := h.repo.List(r.Context(), f, page)
	if err != nil {
		h.fail(w, "list sales", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.FindAll(r.Context())
	h.respondList(w, "all sales", items, err)
}

func (h *Handler) notReturned(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.FindAllNotReturned(r.Context())
	h.respondList(w, "sales not returned", items, err)
}

func (h *Handler) returned(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.FindAllReturned(r.Context())
	h.respondList(w, "sales returned", items, err)
}

// bySoldDate takes the date prefix in the path with '-' in place of '/', e.g.
// /date/05-01-2025 for "05/01/2025".
func (h *Handler) bySoldDate(w http.ResponseWriter, r *http.Request) {
	includeReturned, err := httpx.QueryBool(r, "includeReturned")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	prefix := strings.ReplaceAll(chi.URLParam(r, "prefix"), "-", "/")
	items, err := h.repo.FindBySoldDate(r.Context(), prefix, includeReturned)
	h.respondList(w, "sales by date", items, err)
}

func (h *Handler) byProduct(w http.ResponseWriter, r *http.Request) {
	notReturned, err := httpx.QueryBool(r, "notReturned")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	productID := chi.URLParam(r, "productID")
	var items []SoldProduct
	if notReturned {
		items, err = h.repo.FindByProductIDNotReturned(r.Context(), productID)
	} else {
		items, err = h.repo.FindByProductID(r.Context(), productID)
	}
	h.respondList(w, "sales by product", items, err)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.FindByID(r.Context(), chi.URLParam(r, "id"))
	h.respondOne(w, "find sale", s, err, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Insert
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if in.SoldBy == "" {
		if p := shared.PrincipalFromContext(r.Context()); p != nil {
			in.SoldBy = p.Username
		}
	}
	s, err := h.repo.Create(r.Context(), in)
	h.respondOne(w, "create sale", s, err, http.StatusCreated)
}

type returnRequest struct {
	ReturnedAt string `json:"returnedAt"`
}

func (h *Handler) markReturned(w http.ResponseWriter, r *http.Request) {
	var body returnRequest
	if r.ContentLength != 0 {
		if err := httpx.DecodeJSON(r, &body); err != nil {
			httpx.RespondError(w, err)
			return
		}
	}
	if body.ReturnedAt == "" {
		body.ReturnedAt = h.now().UTC().Format("2006-01-02T15:04:05.000Z")
	}
	s, err := h.repo.MarkAsReturned(r.Context(), chi.URLParam(r, "id"), body.ReturnedAt)
	h.respondOne(w, "mark sale returned", s, err, http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var in Update
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.ID = chi.URLParam(r, "id")
	s, err := h.repo.Update(r.Context(), in)
	h.respondOne(w, "update sale", s, err, http.StatusOK)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	ok, err := h.repo.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "delete sale", err)
		return
	}
	if !ok {
		httpx.NotFound(w, "sale")
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
		h.fail(w, "delete old sales", err)
		return
	}
	h.logger.Info("old sales deleted", slog.Int("months", n), slog.Int("deleted", deleted))
	httpx.JSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

func (h *Handler) respondList(w http.ResponseWriter, op string, items []SoldProduct, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if items == nil {
		items = []SoldProduct{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) respondOne(w http.ResponseWriter, op string, s *SoldProduct, err error, status int) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if s == nil {
		httpx.NotFound(w, "sale")
		return
	}
	httpx.JSON(w, status, s)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}

func filtersFromQuery(r *http.Request) (Filters, error) {
	f := Filters{
		ProductID:          httpx.QueryString(r, "productId"),
		ProductCode:        httpx.QueryString(r, "productCode"),
		ProductDescription: httpx.QueryString(r, "productDescription"),
		ProductProvider:    httpx.QueryString(r, "productProvider"),
		SoldBy:             httpx.QueryString(r, "soldBy"),
		StartDate:          httpx.QueryString(r, "startDate"),
		EndDate:            httpx.QueryString(r, "endDate"),
	}
	var err error
	if raw := httpx.QueryString(r, "isReturned"); raw != "" {
		returned, err := httpx.QueryBool(r, "isReturned")
		if err != nil {
			return f, err
		}
		f.IsReturned = &returned
	}
	if f.MinPrice, err = httpx.QueryFloat(r, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = httpx.QueryFloat(r, "maxPrice"); err != nil {
		return f, err
	}
	return f, nil
}
