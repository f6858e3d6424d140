package export

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
)

// RowError reports the problems of one workbook row, keyed by column.
type RowError struct {
	Row      int               `json:"row"`
	Problems map[string]string `json:"problems"`
}

// ImportResult summarizes a workbook ingestion run.
type ImportResult struct {
	Total   int        `json:"total"`
	Created int        `json:"created"`
	Errors  []RowError `json:"errors"`
}

// ImportExcel reads the first sheet, builds one car per data row, and persists
// every row that passes validation. Broken rows are reported, not fatal.
func (s *service) ImportExcel(ctx context.Context, workbook io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(workbook)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unable to read workbook rows")
	}
	if len(rows) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no data rows")
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
		if key != "" {
			columns[key] = i
		}
	}
	if _, ok := columns["make"]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook is missing a make column")
	}

	result := &ImportResult{Total: len(rows) - 1}
	for i, cells := range rows[1:] {
		rowNum := i + 2

		input, problems := rowToInput(cells, columns)
		if len(problems) > 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Problems: problems})
			continue
		}

		if _, err := s.writer.CreateCar(ctx, input); err != nil {
			appErr := pkgerrors.As(err)
			if appErr != nil && appErr.Code() == pkgerrors.CodeValidation {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Problems: validationProblems(appErr)})
				continue
			}
			return nil, err
		}
		result.Created++
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"total":   result.Total,
		"created": result.Created,
		"failed":  len(result.Errors),
	}), "excel import finished")
	return result, nil
}

func validationProblems(appErr *pkgerrors.Error) map[string]string {
	if details, ok := appErr.Details().(map[string]string); ok {
		return details
	}
	return map[string]string{"row": appErr.Message()}
}

func rowToInput(cells []string, columns map[string]int) (car.CarInput, map[string]string) {
	problems := map[string]string{}
	read := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(cells) {
			return ""
		}
		return strings.TrimSpace(cells[idx])
	}

	input := car.CarInput{Status: enums.CarStatusAvailable}
	fields := car.FieldValues{
		Make:  read("make"),
		Model: read("model"),
	}

	if raw := read("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			problems["category_id"] = "has an invalid format"
		} else {
			fields.CategoryID = &id
		}
	}

	fields.ModelCode = optString(read("model_code"))
	fields.Variant = optString(read("variant"))
	fields.RefNo = optString(read("ref_no"))
	fields.RegYearMonth = optString(read("reg_year_month"))
	fields.Color = optString(read("color"))
	fields.Location = optString(read("location"))
	fields.Country = optString(read("country"))
	fields.ChassisNoMasked = optString(read("chassis_no_masked"))
	fields.ChassisNoFull = optString(read("chassis_no_full"))
	fields.Notes = optString(read("notes"))

	fields.Year = optInt(read("year"), "year", problems)
	fields.Mileage = optInt(read("mileage"), "mileage", problems)
	fields.EngineCC = optInt(read("engine_cc"), "engine_cc", problems)
	fields.Seats = optInt(read("seats"), "seats", problems)
	fields.GradeOverall = optFloat(read("grade_overall"), "grade_overall", problems)
	fields.FOBValue = optDecimal(read("fob_value"), "fob_value", problems)
	fields.Freight = optDecimal(read("freight"), "freight", problems)

	if raw := read("price_amount"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			problems["price_amount"] = "has an invalid format"
		} else {
			fields.PriceAmount = price
		}
	}

	input.Currency = read("currency")

	if raw := read("transmission"); raw != "" {
		value, err := enums.ParseTransmission(raw)
		if err != nil {
			problems["transmission"] = "is not a recognized transmission"
		} else {
			input.Transmission = &value
		}
	}
	if raw := read("fuel"); raw != "" {
		value, err := enums.ParseFuelType(raw)
		if err != nil {
			problems["fuel"] = "is not a recognized fuel type"
		} else {
			input.Fuel = &value
		}
	}
	if raw := read("drive"); raw != "" {
		value, err := enums.ParseDriveType(raw)
		if err != nil {
			problems["drive"] = "is not a recognized drive type"
		} else {
			input.Drive = &value
		}
	}
	if raw := read("steering"); raw != "" {
		value, err := enums.ParseSteeringSide(raw)
		if err != nil {
			problems["steering"] = "is not a recognized steering side"
		} else {
			input.Steering = &value
		}
	}
	if raw := read("status"); raw != "" {
		value, err := enums.ParseCarStatus(raw)
		if err != nil {
			problems["status"] = "is not a recognized status"
		} else {
			input.Status = value
		}
	}

	input.Fields = fields
	return input, problems
}

func optString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optInt(raw, field string, problems map[string]string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		problems[field] = "has an invalid format"
		return nil
	}
	return &v
}

func optFloat(raw, field string, problems map[string]string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		problems[field] = "has an invalid format"
		return nil
	}
	return &v
}

func optDecimal(raw, field string, problems map[string]string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		problems[field] = "has an invalid format"
		return nil
	}
	return &v
}
