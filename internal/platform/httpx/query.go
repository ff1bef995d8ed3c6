package httpx

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cast"

	"github.com/tiendapos/tiendapos/internal/shared"
)

// PageRequest reads the page and limit query parameters. Missing values stay zero
// so the repository applies its own defaults.
func PageRequest(r *http.Request) (shared.PageRequest, error) {
	page, err := QueryInt(r, "page")
	if err != nil {
		return shared.PageRequest{}, err
	}
	limit, err := QueryInt(r, "limit")
	if err != nil {
		return shared.PageRequest{}, err
	}
	var p shared.PageRequest
	if page != nil {
		p.Page = int(*page)
	}
	if limit != nil {
		p.Limit = int(*limit)
	}
	return p, nil
}

// QueryString returns the trimmed query parameter.
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryInt returns nil when the parameter is absent.
func QueryInt(r *http.Request, key string) (*int64, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToInt64E(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: not an integer", shared.ErrValidation, key)
	}
	return &v, nil
}

// QueryFloat returns nil when the parameter is absent.
func QueryFloat(r *http.Request, key string) (*float64, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: not a number", shared.ErrValidation, key)
	}
	return &v, nil
}

// QueryBool reports whether the parameter is a true value; absent means false.
func QueryBool(r *http.Request, key string) (bool, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return false, nil
	}
	v, err := cast.ToBoolE(raw)
	if err != nil {
		return false, fmt.Errorf("%w: query %s: not a boolean", shared.ErrValidation, key)
	}
	return v, nil
}
