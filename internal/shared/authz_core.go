package shared

import "net/http"

// Roles understood by the API.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// AllRoles lists every role that may hold a token.
func AllRoles() []string {
	return []string{RoleAdmin, RoleCashier}
}

// RoleGuard builds middleware that admits only callers holding one of roles.
// With no roles it admits any authenticated caller.
type RoleGuard interface {
	RequireRole(roles ...string) func(http.Handler) http.Handler
}

// AllowAll is a RoleGuard that admits every request.
type AllowAll struct{}

// RequireRole implements RoleGuard.
func (AllowAll) RequireRole(...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler { return next }
}
