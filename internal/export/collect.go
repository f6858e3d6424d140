package export

import (
	"context"
	"sort"
	"strings"

	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

type catalogReader interface {
	ListCars(ctx context.Context, query car.ListQuery) (*car.ListResult, error)
}

// collectAll walks the catalog page by page until the last page is drained,
// then sorts the flattened rows by display name for a stable document.
func collectAll(ctx context.Context, catalog catalogReader, query car.ListQuery, pageSize int) ([]car.CarDTO, error) {
	if pageSize <= 0 {
		pageSize = pagination.MaxPerPage
	}

	var rows []car.CarDTO
	for page := 1; ; page++ {
		paged := query
		paged.Pagination = pagination.Params{Page: page, PerPage: pageSize}

		result, err := catalog.ListCars(ctx, paged)
		if err != nil {
			return nil, err
		}
		rows = append(rows, result.Cars...)

		if page >= result.Meta.LastPage {
			break
		}
	}

	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNoData, "no cars match the requested filters")
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows, nil
}
