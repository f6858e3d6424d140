package car

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

func listFixture() []ListItem {
	petrol := enums.FuelTypePetrol
	diesel := enums.FuelTypeDiesel
	auto := enums.TransmissionAutomatic
	manual := enums.TransmissionManual

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mk := func(i int, make, model string, year int, price int64, fuel *enums.FuelType, tr *enums.Transmission) ListItem {
		y := year
		return ListItem{
			Car: models.Car{
				ID:           uuid.New(),
				Make:         make,
				Model:        model,
				Year:         &y,
				PriceAmount:  decimal.NewFromInt(price),
				Fuel:         fuel,
				Transmission: tr,
				CreatedAt:    base.Add(time.Duration(i) * time.Hour),
			},
			CategoryName: "Sedan",
		}
	}

	return []ListItem{
		mk(0, "Toyota", "Aqua", 2018, 8500, &petrol, &auto),
		mk(1, "Toyota", "Vitz", 2015, 4200, &petrol, &manual),
		mk(2, "Nissan", "Leaf", 2020, 11000, &diesel, &auto),
		mk(3, "Honda", "Fit", 2018, 6900, &petrol, &auto),
	}
}

func TestFilterBySearchMatchesMakeModelCategory(t *testing.T) {
	items := listFixture()

	out := FilterItems(items, Filters{Search: "toy"})
	require.Len(t, out, 2)

	out = FilterItems(items, Filters{Search: "LEAF"})
	require.Len(t, out, 1)
	assert.Equal(t, "Nissan", out[0].Car.Make)

	out = FilterItems(items, Filters{Search: "sedan"})
	assert.Len(t, out, 4, "category name is searchable")

	out = FilterItems(items, Filters{Search: "bmw"})
	assert.Empty(t, out)
}

func TestFiltersAreANDed(t *testing.T) {
	petrol := enums.FuelTypePetrol
	from := decimal.NewFromInt(5000)

	out := FilterItems(listFixture(), Filters{
		Fuel:      &petrol,
		PriceFrom: &from,
	})

	require.Len(t, out, 2)
	assert.Equal(t, "Aqua", out[0].Car.Model)
	assert.Equal(t, "Fit", out[1].Car.Model)
}

func TestFilterByYearRange(t *testing.T) {
	yf, yt := 2016, 2019
	out := FilterItems(listFixture(), Filters{YearFrom: &yf, YearTo: &yt})
	require.Len(t, out, 2)
}

func TestSortBySyntheticName(t *testing.T) {
	out := SortItems(listFixture(), SortFieldName, enums.SortAsc)

	got := make([]string, 0, len(out))
	for _, item := range out {
		got = append(got, DisplayName(item.Car))
	}
	assert.Equal(t, []string{"Honda Fit", "Nissan Leaf", "Toyota Aqua", "Toyota Vitz"}, got)
}

func TestSortByPriceDesc(t *testing.T) {
	out := SortItems(listFixture(), SortFieldPrice, enums.SortDesc)
	assert.Equal(t, "Leaf", out[0].Car.Model)
	assert.Equal(t, "Vitz", out[len(out)-1].Car.Model)
}

func TestSortIsStableAndDoesNotMutateInput(t *testing.T) {
	items := listFixture()
	first := items[0].Car.Model

	out := SortItems(items, SortFieldMake, enums.SortAsc)

	assert.Equal(t, first, items[0].Car.Model)
	// Both Toyotas keep their relative order under a make-only sort.
	assert.Equal(t, "Aqua", out[2].Car.Model)
	assert.Equal(t, "Vitz", out[3].Car.Model)
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	items := listFixture()
	out := SortItems(items, "bogus", enums.SortAsc)
	for i := range items {
		assert.Equal(t, items[i].Car.ID, out[i].Car.ID)
	}
}

func TestPaginateComputesPagesAndClamps(t *testing.T) {
	items := make([]ListItem, 23)
	for i := range items {
		items[i] = ListItem{Car: models.Car{ID: uuid.New()}}
	}

	page, meta := PaginateItems(items, pagination.Params{Page: 1, PerPage: 10})
	assert.Len(t, page, 10)
	assert.Equal(t, 3, meta.LastPage)
	assert.Equal(t, 23, meta.Total)
	assert.Equal(t, 1, meta.From)
	assert.Equal(t, 10, meta.To)

	page, meta = PaginateItems(items, pagination.Params{Page: 3, PerPage: 10})
	assert.Len(t, page, 3)
	assert.Equal(t, 21, meta.From)
	assert.Equal(t, 23, meta.To)

	// Out-of-range page clamps to the last page.
	page, meta = PaginateItems(items, pagination.Params{Page: 5, PerPage: 10})
	assert.Len(t, page, 3)
	assert.Equal(t, 3, meta.CurrentPage)
}

func TestPaginateEmptyCollection(t *testing.T) {
	page, meta := PaginateItems(nil, pagination.Params{Page: 1, PerPage: 10})
	assert.Empty(t, page)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 1, meta.LastPage)
	assert.Zero(t, meta.From)
	assert.Zero(t, meta.To)
}
