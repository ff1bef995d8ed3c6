package users

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/tiendapos/tiendapos/internal/platform/httpx"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// Handler manages user management endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	guard     shared.RoleGuard
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard shared.RoleGuard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard, validator: validator.New()}
}

// MountRoutes registers user routes. Every route requires the admin role.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(shared.RoleAdmin))
		r.Get("/", h.listUsers)
		r.Get("/all", h.allUsers)
		r.Get("/role/{role}", h.byRole)
		r.Get("/username/{username}", h.byUsername)
		r.Get("/{id}", h.showUser)
		r.Post("/", h.createUser)
		r.Put("/{id}", h.updateUser)
		r.Put("/{id}/password", h.changePassword)
		r.Delete("/{id}", h.deleteUser)
	})
}

type createUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=6,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin cashier"`
}

type updateUserRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=100"`
	Password *string `json:"password" validate:"omitempty,min=6,max=100"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin cashier"`
}

type passwordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=100"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	page, err := httpx.PageRequest(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	f := Filters{Username: httpx.QueryString(r, "username"), Role: httpx.QueryString(r, "role")}
	result, err := h.service.Repository().List(r.Context(), f, page)
	if err != nil {
		h.fail(w, "list users", err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func (h *Handler) allUsers(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Repository().FindAll(r.Context())
	h.respondList(w, "all users", items, err)
}

func (h *Handler) byRole(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Repository().FindByRole(r.Context(), chi.URLParam(r, "role"))
	h.respondList(w, "users by role", items, err)
}

func (h *Handler) byUsername(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Repository().FindByUsername(r.Context(), chi.URLParam(r, "username"))
	h.respondOne(w, "user by username", u, err, http.StatusOK)
}

func (h *Handler) showUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	u, err := h.service.Repository().FindByID(r.Context(), id)
	h.respondOne(w, "find user", u, err, http.StatusOK)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var body createUserRequest
	if !h.decode(w, r, &body) {
		return
	}
	u, err := h.service.Register(r.Context(), body.Username, body.Password, body.Role)
	h.respondOne(w, "create user", u, err, http.StatusCreated)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var body updateUserRequest
	if !h.decode(w, r, &body) {
		return
	}
	u, err := h.service.Edit(r.Context(), id, body.Username, body.Password, body.Role)
	h.respondOne(w, "update user", u, err, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	var body passwordRequest
	if !h.decode(w, r, &body) {
		return
	}
	changed, err := h.service.ChangePassword(r.Context(), id, body.Password)
	h.respondDone(w, "change password", changed, err)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(w, r)
	if !ok {
		return
	}
	if p := shared.PrincipalFromContext(r.Context()); p != nil && p.UserID == id {
		httpx.Problem(w, http.StatusConflict, "Conflict", "cannot delete the signed-in account")
		return
	}
	deleted, err := h.service.Repository().Delete(r.Context(), id)
	h.respondDone(w, "delete user", deleted, err)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := httpx.DecodeJSON(r, target); err != nil {
		httpx.RespondError(w, err)
		return false
	}
	if err := h.validator.Struct(target); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			err = fmt.Errorf("%w: %s failed %s", shared.ErrValidation, fieldErrs[0].Field(), fieldErrs[0].Tag())
		}
		httpx.RespondError(w, err)
		return false
	}
	return true
}

func (h *Handler) id(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := cast.ToInt64E(chi.URLParam(r, "id"))
	if err != nil {
		httpx.BadRequest(w, "id must be an integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondList(w http.ResponseWriter, op string, items []User, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if items == nil {
		items = []User{}
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) respondOne(w http.ResponseWriter, op string, u *User, err error, status int) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if u == nil {
		httpx.NotFound(w, "user")
		return
	}
	httpx.JSON(w, status, u)
}

func (h *Handler) respondDone(w http.ResponseWriter, op string, done bool, err error) {
	if err != nil {
		h.fail(w, op, err)
		return
	}
	if !done {
		httpx.NotFound(w, "user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
	httpx.RespondError(w, err)
}
