package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/api/responses"
	"github.com/dealerhub/dealerhub-backend/api/validators"
	car "github.com/dealerhub/dealerhub-backend/internal/cars"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
	"github.com/dealerhub/dealerhub-backend/pkg/logger"
)

type carPhotoPayload struct {
	URL       string `json:"url" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
	IsHidden  bool   `json:"is_hidden"`
}

type carSubDetailPayload struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type carDetailPayload struct {
	ShortTitle  string                `json:"short_title"`
	FullTitle   string                `json:"full_title"`
	Description string                `json:"description"`
	Images      []string              `json:"images"`
	SubDetails  []carSubDetailPayload `json:"sub_details"`
}

type carPayload struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id"`
	RefNo         *string    `json:"ref_no"`
	Make          string     `json:"make" validate:"required"`
	Model         string     `json:"model" validate:"required"`
	ModelCode     *string    `json:"model_code"`
	Variant       *string    `json:"variant"`
	Year          *int       `json:"year"`
	RegYearMonth  *string    `json:"reg_year_month"`
	Mileage       *int       `json:"mileage"`
	EngineCC      *int       `json:"engine_cc"`
	Transmission  *string    `json:"transmission"`
	Drive         *string    `json:"drive"`
	Steering      *string    `json:"steering"`
	Fuel          *string    `json:"fuel"`
	Color         *string    `json:"color"`
	Seats         *int       `json:"seats"`
	GradeOverall  *float64   `json:"grade_overall"`
	GradeExterior *string    `json:"grade_exterior"`
	GradeInterior *string    `json:"grade_interior"`

	PriceAmount decimal.Decimal  `json:"price_amount"`
	Currency    string           `json:"currency"`
	PriceBasis  *string          `json:"price_basis"`
	FOBValue    *decimal.Decimal `json:"fob_value"`
	Freight     *decimal.Decimal `json:"freight"`

	Location        *string `json:"location"`
	Country         *string `json:"country"`
	ChassisNoMasked *string `json:"chassis_no_masked"`
	ChassisNoFull   *string `json:"chassis_no_full"`
	Notes           *string `json:"notes"`
	Status          string  `json:"status"`

	Photos  []carPhotoPayload  `json:"photos"`
	Details []carDetailPayload `json:"details"`
}

// toInput converts the wire payload into the service input. Enum strings are
// parsed here so the service only ever sees typed values; unknown values
// surface as field-keyed validation problems.
func (p carPayload) toInput() (car.CarInput, error) {
	problems := map[string]string{}

	input := car.CarInput{
		Fields: car.FieldValues{
			CategoryID:      p.CategoryID,
			Make:            p.Make,
			Model:           p.Model,
			ModelCode:       p.ModelCode,
			Variant:         p.Variant,
			RefNo:           p.RefNo,
			Year:            p.Year,
			RegYearMonth:    p.RegYearMonth,
			Mileage:         p.Mileage,
			EngineCC:        p.EngineCC,
			Seats:           p.Seats,
			GradeOverall:    p.GradeOverall,
			PriceAmount:     p.PriceAmount,
			FOBValue:        p.FOBValue,
			Freight:         p.Freight,
			Color:           p.Color,
			Location:        p.Location,
			Country:         p.Country,
			ChassisNoMasked: p.ChassisNoMasked,
			ChassisNoFull:   p.ChassisNoFull,
			Notes:           p.Notes,
		},
		SubcategoryID: p.SubcategoryID,
		GradeExterior: p.GradeExterior,
		GradeInterior: p.GradeInterior,
		Currency:      p.Currency,
		PriceBasis:    p.PriceBasis,
	}

	if p.Transmission != nil {
		parsed, err := enums.ParseTransmission(*p.Transmission)
		if err != nil {
			problems["transmission"] = "is not a recognized transmission"
		} else {
			input.Transmission = &parsed
		}
	}
	if p.Drive != nil {
		parsed, err := enums.ParseDriveType(*p.Drive)
		if err != nil {
			problems["drive"] = "is not a recognized drive type"
		} else {
			input.Drive = &parsed
		}
	}
	if p.Steering != nil {
		parsed, err := enums.ParseSteeringSide(*p.Steering)
		if err != nil {
			problems["steering"] = "is not a recognized steering side"
		} else {
			input.Steering = &parsed
		}
	}
	if p.Fuel != nil {
		parsed, err := enums.ParseFuelType(*p.Fuel)
		if err != nil {
			problems["fuel"] = "is not a recognized fuel type"
		} else {
			input.Fuel = &parsed
		}
	}
	if p.Status != "" {
		parsed, err := enums.ParseCarStatus(p.Status)
		if err != nil {
			problems["status"] = "is not a recognized status"
		} else {
			input.Status = parsed
		}
	}

	if len(problems) > 0 {
		return car.CarInput{}, pkgerrors.New(pkgerrors.CodeValidation, "car validation failed").WithDetails(problems)
	}

	input.Photos = toPhotoDrafts(p.Photos)
	input.Details = toDetailDrafts(p.Details)
	return input, nil
}

func toPhotoDrafts(payloads []carPhotoPayload) []car.PhotoDraft {
	if payloads == nil {
		return nil
	}
	out := make([]car.PhotoDraft, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, car.PhotoDraft{
			URL:       p.URL,
			IsPrimary: p.IsPrimary,
			SortOrder: p.SortOrder,
			IsHidden:  p.IsHidden,
		})
	}
	return out
}

func toDetailDrafts(payloads []carDetailPayload) []car.DetailDraft {
	if payloads == nil {
		return nil
	}
	out := make([]car.DetailDraft, 0, len(payloads))
	for _, p := range payloads {
		detail := car.DetailDraft{
			ShortTitle:  p.ShortTitle,
			FullTitle:   p.FullTitle,
			Description: p.Description,
			Images:      p.Images,
		}
		for _, sub := range p.SubDetails {
			detail.SubDetails = append(detail.SubDetails, car.SubDetailDraft{
				Title:       sub.Title,
				Description: sub.Description,
			})
		}
		out = append(out, detail)
	}
	return out
}

// parseCarListQuery reads the catalog filter, sort, and pagination parameters.
// Shared by the list and export endpoints so both accept the same surface.
func parseCarListQuery(r *http.Request) (car.ListQuery, error) {
	query := car.ListQuery{
		Search:  validators.QueryString(r, "search"),
		Make:    validators.QueryString(r, "make"),
		Color:   validators.QueryString(r, "color"),
		Country: validators.QueryString(r, "country"),
		SortBy:  validators.QueryString(r, "sort_by"),
	}

	var err error
	if query.Pagination, err = validators.QueryPagination(r); err != nil {
		return car.ListQuery{}, err
	}
	if query.CategoryID, err = validators.QueryUUID(r, "category_id"); err != nil {
		return car.ListQuery{}, err
	}
	if query.SubcategoryID, err = validators.QueryUUID(r, "subcategory_id"); err != nil {
		return car.ListQuery{}, err
	}
	if query.YearFrom, err = validators.QueryInt(r, "year_from"); err != nil {
		return car.ListQuery{}, err
	}
	if query.YearTo, err = validators.QueryInt(r, "year_to"); err != nil {
		return car.ListQuery{}, err
	}
	if query.MileageFrom, err = validators.QueryInt(r, "mileage_from"); err != nil {
		return car.ListQuery{}, err
	}
	if query.MileageTo, err = validators.QueryInt(r, "mileage_to"); err != nil {
		return car.ListQuery{}, err
	}
	if query.PriceFrom, err = validators.QueryDecimal(r, "price_from"); err != nil {
		return car.ListQuery{}, err
	}
	if query.PriceTo, err = validators.QueryDecimal(r, "price_to"); err != nil {
		return car.ListQuery{}, err
	}

	if raw := validators.QueryString(r, "status"); raw != "" {
		parsed, err := enums.ParseCarStatus(raw)
		if err != nil {
			return car.ListQuery{}, queryParamError("status")
		}
		query.Status = &parsed
	}
	if raw := validators.QueryString(r, "transmission"); raw != "" {
		parsed, err := enums.ParseTransmission(raw)
		if err != nil {
			return car.ListQuery{}, queryParamError("transmission")
		}
		query.Transmission = &parsed
	}
	if raw := validators.QueryString(r, "fuel"); raw != "" {
		parsed, err := enums.ParseFuelType(raw)
		if err != nil {
			return car.ListQuery{}, queryParamError("fuel")
		}
		query.Fuel = &parsed
	}
	if raw := validators.QueryString(r, "drive"); raw != "" {
		parsed, err := enums.ParseDriveType(raw)
		if err != nil {
			return car.ListQuery{}, queryParamError("drive")
		}
		query.Drive = &parsed
	}
	if raw := validators.QueryString(r, "steering"); raw != "" {
		parsed, err := enums.ParseSteeringSide(raw)
		if err != nil {
			return car.ListQuery{}, queryParamError("steering")
		}
		query.Steering = &parsed
	}
	if raw := validators.QueryString(r, "sort_direction"); raw != "" {
		parsed, err := enums.ParseSortDirection(raw)
		if err != nil {
			return car.ListQuery{}, queryParamError("sort_direction")
		}
		query.SortDirection = parsed
	}

	return query, nil
}

func queryParamError(field string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").
		WithDetails(map[string]string{field: "has an unsupported value"})
}

func CarsList(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := parseCarListQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCars(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePage(w, "cars retrieved", result.Cars, result.Meta)
	}
}

func CarsGet(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetCar(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "car retrieved", dto)
	}
}

func CarsCreate(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload carPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateCar(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "car created", dto)
	}
}

func CarsUpdate(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload carPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateCar(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "car updated", dto)
	}
}

func CarsDelete(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCar(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "car deleted", nil)
	}
}

type carPhotosRequest struct {
	Photos []carPhotoPayload `json:"photos" validate:"required"`
}

func CarsReplacePhotos(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req carPhotosRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.ReplacePhotos(r.Context(), id, toPhotoDrafts(req.Photos))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "photos replaced", dto)
	}
}

type carDetailsRequest struct {
	Details []carDetailPayload `json:"details" validate:"required"`
}

func CarsReplaceDetails(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req carDetailsRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.ReplaceDetails(r.Context(), id, toDetailDrafts(req.Details))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "details replaced", dto)
	}
}

type carsBulkStatusRequest struct {
	IDs    []uuid.UUID `json:"ids" validate:"required,min=1"`
	Status string      `json:"status" validate:"required"`
}

func CarsBulkStatus(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req carsBulkStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseCarStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "car validation failed").
				WithDetails(map[string]string{"status": "is not a recognized status"}))
			return
		}

		updated, err := svc.BulkStatus(r.Context(), req.IDs, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "status updated", map[string]int64{"updated": updated})
	}
}

func CarsFilterOptions(svc car.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		options, err := svc.FilterOptions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "filter options retrieved", options)
	}
}
