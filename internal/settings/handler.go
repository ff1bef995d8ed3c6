package settings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cast"

	"github.com/tiendapos/tiendapos/internal/platform/httpx"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// Handler exposes config endpoints.
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

// MountRoutes registers config routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole())
		r.Get("/key/{key}", h.byKey)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Get("/", h.list)
		r.Get("/all", h.all)
		r.Get("/{id}", h.show)
		r.Post("/", h.create)
		r.Put("/key/{key}", h.upsert)
		r.Put("/{id}", h.update)
		r.Delete("/key/{key}", h.deleteByKey)
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.PageRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	f := Filters{Key: httpx.QueryString(r, "key"), Value: httpx.QueryString(r, "value")}
	result, err := h.repo.List(r.Context(), f, page)
	if err != nil {
		h.fail(w, "list config", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) all(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.FindAll(r.Context())
	if err != nil {
		h.fail(w, "all config", err)
		return
	}
	if items == nil {
		items = []Config{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) byKey(w http.ResponseWriter, r *http.Request) {
	c, err := h.repo.FindByKey(r.Context(), chi.URLParam(r, "key"))
	h.respondOne(w, "find config by key", c, err, http.StatusOK)
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	c, err := h.repo.FindByID(r.Context(), id)
	h.respondOne(w, "find config", c, err, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var in Insert
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.repo.Create(r.Context(), in)
	h.respondOne(w, "create config", c, err, http.StatusCreated)
}

type valueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var body valueRequest
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	c, err := h.repo.UpsertByKey(r.Context(), chi.URLParam(r, "key"), body.Value)
	h.respondOne(w, "upsert config", c, err, http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var in Update
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	in.ID = id
	c, err := h.repo.Update(r.Context(), in)
	h.respondOne(w, "update config", c, err, http.StatusOK)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	deleted, err := h.repo.Delete(r.Context(), id)
	h.respondDeleted(w, "delete config", deleted, err)
}

func (h *Handler) deleteByKey(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.repo.DeleteByKey(r.Context(), chi.URLParam(r, "key"))
	h.respondDeleted(w, "delete config by key", deleted, err)
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := cast.ToInt64E(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondDeleted(w http.ResponseWriter, op string, deleted bool, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if !deleted {
		httpx.NotFound(w, "config")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondOne(w http.ResponseWriter, op string, c *Config, err error, status int) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if c == nil {
		httpx.NotFound(w, "config")
		return
	}
	httpx.JSON(w, status, c)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
