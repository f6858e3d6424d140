package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

func queryValue(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryString returns the trimmed query parameter, empty when absent.
func QueryString(r *http.Request, key string) string {
	return queryValue(r, key)
}

// QueryInt parses an optional integer parameter. Absent returns nil.
func QueryInt(r *http.Request, key string) (*int, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalidParam(key, "must be numeric")
	}
	return &value, nil
}

// QueryUUID parses an optional uuid parameter. Absent returns nil.
func QueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidParam(key, "must be a valid uuid")
	}
	return &value, nil
}

// QueryDecimal parses an optional decimal parameter. Absent returns nil.
func QueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := queryValue(r, key)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, invalidParam(key, "must be numeric")
	}
	return &value, nil
}

// QueryPagination reads page and per_page, deferring clamping to resolution.
func QueryPagination(r *http.Request) (pagination.Params, error) {
	params := pagination.Params{}

	if page, err := QueryInt(r, "page"); err != nil {
		return params, err
	} else if page != nil {
		if *page < 1 {
			return params, invalidParam("page", "must be at least 1")
		}
		params.Page = *page
	}

	if perPage, err := QueryInt(r, "per_page"); err != nil {
		return params, err
	} else if perPage != nil {
		if *perPage < 1 {
			return params, invalidParam("per_page", "must be at least 1")
		}
		params.PerPage = *perPage
	}

	return params, nil
}

// PathUUID parses a required uuid path segment value.
func PathUUID(raw, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, invalidParam(name, "must be a valid uuid")
	}
	return value, nil
}

func invalidParam(key, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
		WithDetails(map[string]string{key: message})
}
