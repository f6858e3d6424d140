package car

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// ListItem is a catalog row enriched with its category name so search and
// display do not need another lookup.
type ListItem struct {
	Car          models.Car
	CategoryName string
}

// Filters holds the in-memory catalog predicates. All set filters are ANDed.
type Filters struct {
	Search       string
	Make         string
	CategoryID   *uuid.UUID
	PriceFrom    *decimal.Decimal
	PriceTo      *decimal.Decimal
	YearFrom     *int
	YearTo       *int
	Fuel         *enums.FuelType
	Transmission *enums.Transmission
}

// Sortable fields for the catalog. "name" is synthesized from make and model.
const (
	SortFieldName      = "name"
	SortFieldMake      = "make"
	SortFieldModel     = "model"
	SortFieldYear      = "year"
	SortFieldPrice     = "price"
	SortFieldMileage   = "mileage"
	SortFieldCreatedAt = "created_at"
)

// DisplayName is the synthetic catalog name: make and model joined by a space.
func DisplayName(c models.Car) string {
	return strings.TrimSpace(c.Make + " " + c.Model)
}

// FilterItems returns the rows matching every set predicate.
func FilterItems(items []ListItem, f Filters) []ListItem {
	out := make([]ListItem, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(f.Search))

	for _, item := range items {
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		if f.Make != "" && !strings.EqualFold(item.Car.Make, f.Make) {
			continue
		}
		if f.CategoryID != nil && item.Car.CategoryID != *f.CategoryID {
			continue
		}
		if f.PriceFrom != nil && item.Car.PriceAmount.LessThan(*f.PriceFrom) {
			continue
		}
		if f.PriceTo != nil && item.Car.PriceAmount.GreaterThan(*f.PriceTo) {
			continue
		}
		if f.YearFrom != nil && (item.Car.Year == nil || *item.Car.Year < *f.YearFrom) {
			continue
		}
		if f.YearTo != nil && (item.Car.Year == nil || *item.Car.Year > *f.YearTo) {
			continue
		}
		if f.Fuel != nil && (item.Car.Fuel == nil || *item.Car.Fuel != *f.Fuel) {
			continue
		}
		if f.Transmission != nil && (item.Car.Transmission == nil || *item.Car.Transmission != *f.Transmission) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item ListItem, loweredNeedle string) bool {
	haystacks := []string{item.Car.Make, item.Car.Model, item.CategoryName}
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), loweredNeedle) {
			return true
		}
	}
	return false
}

// SortItems stably sorts a copy of the rows by the declared field. Unknown
// fields leave the incoming order untouched.
func SortItems(items []ListItem, field string, direction enums.SortDirection) []ListItem {
	out := make([]ListItem, len(items))
	copy(out, items)

	less := lessFunc(field)
	if less == nil {
		return out
	}

	desc := direction == enums.SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(field string) func(a, b ListItem) bool {
	switch field {
	case SortFieldName:
		return func(a, b ListItem) bool {
			return strings.ToLower(DisplayName(a.Car)) < strings.ToLower(DisplayName(b.Car))
		}
	case SortFieldMake:
		return func(a, b ListItem) bool {
			return strings.ToLower(a.Car.Make) < strings.ToLower(b.Car.Make)
		}
	case SortFieldModel:
		return func(a, b ListItem) bool {
			return strings.ToLower(a.Car.Model) < strings.ToLower(b.Car.Model)
		}
	case SortFieldYear:
		return func(a, b ListItem) bool {
			return intOrZero(a.Car.Year) < intOrZero(b.Car.Year)
		}
	case SortFieldPrice:
		return func(a, b ListItem) bool {
			return a.Car.PriceAmount.LessThan(b.Car.PriceAmount)
		}
	case SortFieldMileage:
		return func(a, b ListItem) bool {
			return intOrZero(a.Car.Mileage) < intOrZero(b.Car.Mileage)
		}
	case SortFieldCreatedAt:
		return func(a, b ListItem) bool {
			return a.Car.CreatedAt.Before(b.Car.CreatedAt)
		}
	default:
		return nil
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// PaginateItems slices the rows for the requested page. Out-of-range pages are
// clamped to the last page rather than rejected.
func PaginateItems(items []ListItem, params pagination.Params) ([]ListItem, pagination.Meta) {
	meta := pagination.Resolve(params, len(items))
	start, end := meta.Bounds()
	return items[start:end], meta
}
