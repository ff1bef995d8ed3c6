package auth

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/tiendapos/tiendapos/internal/platform/httpx"
	"github.com/tiendapos/tiendapos/internal/shared"
)

// Middleware resolves bearer tokens and enforces roles.
type Middleware struct {
	logger  *slog.Logger
	service *Service
}

// NewMiddleware constructs a Middleware.
func NewMiddleware(logger *slog.Logger, service *Service) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &Middleware{logger: logger, service: service}
}

// Authenticate attaches the principal of a valid bearer token to the request
// context. Requests without a token pass through anonymously; requests with a bad
// token are rejected.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		p, err := m.service.Verify(r.Context(), raw)
		if err != nil {
			if IsStorageError(err) {
				m.logger.Error("verify token", slog.Any("error", err))
				httpx.RespondError(w, err)
				return
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), p)))
	})
}

// RequireRole implements shared.RoleGuard.
func (m *Middleware) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if p == nil {
				httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			if len(roles) > 0 && !slices.Contains(roles, p.Role) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "role "+p.Role+" may not access this resource")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

var _ shared.RoleGuard = (*Middleware)(nil)
