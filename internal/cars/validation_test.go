package car

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFields() FieldValues {
	categoryID := uuid.New()
	year := 2019
	return FieldValues{
		CategoryID:  &categoryID,
		Make:        "Toyota",
		Model:       "Aqua",
		Year:        &year,
		PriceAmount: decimal.NewFromInt(8500),
	}
}

func strPtr(v string) *string { return &v }
func intPtr(v int) *int       { return &v }

func TestValidateAcceptsMinimalValidRecord(t *testing.T) {
	assert.Empty(t, Validate(validFields()))
}

func TestValidateRequiredFields(t *testing.T) {
	problems := Validate(FieldValues{PriceAmount: decimal.Zero})

	require.Contains(t, problems, "category_id")
	require.Contains(t, problems, "make")
	require.Contains(t, problems, "model")
	assert.Equal(t, "is required", problems["make"])
}

func TestValidateRejectsBlankRequiredFields(t *testing.T) {
	fields := validFields()
	fields.Make = "   "
	fields.Model = "\t"

	problems := Validate(fields)

	assert.Equal(t, "is required", problems["make"])
	assert.Equal(t, "is required", problems["model"])
}

func TestValidateMaxLengths(t *testing.T) {
	fields := validFields()
	fields.Make = strings.Repeat("x", 65)
	fields.RefNo = strPtr(strings.Repeat("r", 33))
	fields.Notes = strPtr(strings.Repeat("n", 1001))

	problems := Validate(fields)

	assert.Equal(t, "must be at most 64 characters", problems["make"])
	assert.Equal(t, "must be at most 32 characters", problems["ref_no"])
	assert.Equal(t, "must be at most 1000 characters", problems["notes"])
}

func TestValidateYearBounds(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	fields := validFields()
	fields.Year = intPtr(1899)
	problems := ValidateAt(fields, now)
	require.Contains(t, problems, "year")

	fields.Year = intPtr(2028)
	problems = ValidateAt(fields, now)
	require.Contains(t, problems, "year")

	fields.Year = intPtr(2027) // currentYear+1 is allowed
	assert.Empty(t, ValidateAt(fields, now))
}

func TestValidateRegYearMonthPattern(t *testing.T) {
	fields := validFields()

	for _, bad := range []string{"2020-13", "2020-0", "202001", "20-01", "2020-1"} {
		fields.RegYearMonth = strPtr(bad)
		problems := Validate(fields)
		assert.Equal(t, "has an invalid format", problems["reg_year_month"], "value %q", bad)
	}

	fields.RegYearMonth = strPtr("2020-09")
	assert.Empty(t, Validate(fields))
}

func TestValidateNumericRanges(t *testing.T) {
	fields := validFields()
	fields.Mileage = intPtr(1000000)
	fields.EngineCC = intPtr(10001)
	fields.Seats = intPtr(0)
	overall := 10.5
	fields.GradeOverall = &overall
	fields.PriceAmount = decimal.NewFromInt(1000000000)
	negative := decimal.NewFromInt(-1)
	fields.FOBValue = &negative

	problems := Validate(fields)

	assert.Equal(t, "must be between 0 and 999999", problems["mileage"])
	assert.Equal(t, "must be between 0 and 10000", problems["engine_cc"])
	assert.Equal(t, "must be between 1 and 50", problems["seats"])
	assert.Equal(t, "must be between 0 and 10", problems["grade_overall"])
	assert.Equal(t, "must be between 0 and 999999999", problems["price_amount"])
	assert.Equal(t, "must be at least 0", problems["fob_value"])
}

func TestValidateOptionalFieldsMayBeNil(t *testing.T) {
	fields := validFields()
	fields.Year = nil
	fields.Mileage = nil
	fields.RegYearMonth = nil
	fields.Notes = nil

	assert.Empty(t, Validate(fields))
}

func TestValidateOneMessagePerField(t *testing.T) {
	fields := validFields()
	fields.Seats = intPtr(200)

	problems := Validate(fields)
	require.Len(t, problems, 1)
	assert.Contains(t, problems, "seats")
}
