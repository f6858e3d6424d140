package car

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FieldValues carries the validatable car fields in one flat bag. Optional
// fields are nil when the form left them blank.
type FieldValues struct {
	CategoryID      *uuid.UUID
	Make            string
	Model           string
	ModelCode       *string
	Variant         *string
	RefNo           *string
	Year            *int
	RegYearMonth    *string
	Mileage         *int
	EngineCC        *int
	Seats           *int
	GradeOverall    *float64
	PriceAmount     decimal.Decimal
	FOBValue        *decimal.Decimal
	Freight         *decimal.Decimal
	Color           *string
	Location        *string
	Country         *string
	ChassisNoMasked *string
	ChassisNoFull   *string
	Notes           *string
}

var regYearMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type fieldRule struct {
	required bool
	maxLen   int
	min      *float64
	max      *float64
	pattern  *regexp.Regexp
}

func bound(v float64) *float64 { return &v }

// fieldRules is the single source of truth for car field constraints. Every
// persistence path validates against this table and nothing else.
var fieldRules = map[string]fieldRule{
	"category_id":       {required: true},
	"make":              {required: true, maxLen: 64},
	"model":             {required: true, maxLen: 64},
	"model_code":        {maxLen: 64},
	"variant":           {maxLen: 64},
	"ref_no":            {maxLen: 32},
	"year":              {min: bound(1900)}, // max set per-call to currentYear+1
	"reg_year_month":    {pattern: regYearMonthRe},
	"mileage":           {min: bound(0), max: bound(999999)},
	"engine_cc":         {min: bound(0), max: bound(10000)},
	"seats":             {min: bound(1), max: bound(50)},
	"grade_overall":     {min: bound(0), max: bound(10)},
	"price_amount":      {min: bound(0), max: bound(999999999)},
	"fob_value":         {min: bound(0)},
	"freight":           {min: bound(0)},
	"color":             {maxLen: 32},
	"location":          {maxLen: 128},
	"country":           {maxLen: 64},
	"chassis_no_masked": {maxLen: 64},
	"chassis_no_full":   {maxLen: 64},
	"notes":             {maxLen: 1000},
}

// fieldOrder keeps validation output deterministic for tests and logs.
var fieldOrder = []string{
	"category_id", "make", "model", "model_code", "variant", "ref_no",
	"year", "reg_year_month", "mileage", "engine_cc", "seats",
	"grade_overall", "price_amount", "fob_value", "freight",
	"color", "location", "country", "chassis_no_masked", "chassis_no_full",
	"notes",
}

// Validate applies the canonical rule table and returns field-keyed messages.
// An empty map means the record may be persisted.
func Validate(values FieldValues) map[string]string {
	return ValidateAt(values, time.Now())
}

// ValidateAt is Validate with an injectable clock for the year upper bound.
func ValidateAt(values FieldValues, now time.Time) map[string]string {
	problems := map[string]string{}

	stringFields := map[string]*string{
		"model_code":        values.ModelCode,
		"variant":           values.Variant,
		"ref_no":            values.RefNo,
		"reg_year_month":    values.RegYearMonth,
		"color":             values.Color,
		"location":          values.Location,
		"country":           values.Country,
		"chassis_no_masked": values.ChassisNoMasked,
		"chassis_no_full":   values.ChassisNoFull,
		"notes":             values.Notes,
	}
	numbers := map[string]*float64{
		"year":          intPtrToFloat(values.Year),
		"mileage":       intPtrToFloat(values.Mileage),
		"engine_cc":     intPtrToFloat(values.EngineCC),
		"seats":         intPtrToFloat(values.Seats),
		"grade_overall": values.GradeOverall,
		"fob_value":     decimalPtrToFloat(values.FOBValue),
		"freight":       decimalPtrToFloat(values.Freight),
	}
	price := values.PriceAmount.InexactFloat64()
	numbers["price_amount"] = &price

	maxYear := float64(now.Year() + 1)

	for _, field := range fieldOrder {
		rule := fieldRules[field]

		switch field {
		case "category_id":
			if rule.required && (values.CategoryID == nil || *values.CategoryID == uuid.Nil) {
				problems[field] = "is required"
			}
			continue
		case "make":
			if msg := checkString(rule, &values.Make); msg != "" {
				problems[field] = msg
			}
			continue
		case "model":
			if msg := checkString(rule, &values.Model); msg != "" {
				problems[field] = msg
			}
			continue
		}

		if value, ok := stringFields[field]; ok {
			if msg := checkString(rule, value); msg != "" {
				problems[field] = msg
			}
			continue
		}

		if value, ok := numbers[field]; ok {
			max := rule.max
			if field == "year" {
				max = &maxYear
			}
			if msg := checkNumber(rule, max, value); msg != "" {
				problems[field] = msg
			}
		}
	}

	return problems
}

// Blank means absent: whitespace-only values fail the required check and are
// skipped for optional fields.
func checkString(rule fieldRule, value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		if rule.required {
			return "is required"
		}
		return ""
	}
	if rule.maxLen > 0 && len([]rune(*value)) > rule.maxLen {
		return fmt.Sprintf("must be at most %d characters", rule.maxLen)
	}
	if rule.pattern != nil && !rule.pattern.MatchString(*value) {
		return "has an invalid format"
	}
	return ""
}

func checkNumber(rule fieldRule, max *float64, value *float64) string {
	if value == nil {
		if rule.required {
			return "is required"
		}
		return ""
	}
	switch {
	case rule.min != nil && max != nil && (*value < *rule.min || *value > *max):
		return fmt.Sprintf("must be between %s and %s", trimFloat(*rule.min), trimFloat(*max))
	case rule.min != nil && *value < *rule.min:
		return fmt.Sprintf("must be at least %s", trimFloat(*rule.min))
	case max != nil && *value > *max:
		return fmt.Sprintf("must be at most %s", trimFloat(*max))
	}
	return ""
}

func trimFloat(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func intPtrToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	f := float64(*v)
	return &f
}

func decimalPtrToFloat(v *decimal.Decimal) *float64 {
	if v == nil {
		return nil
	}
	f := v.InexactFloat64()
	return &f
}
