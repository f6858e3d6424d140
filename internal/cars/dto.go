package car

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// CarDTO is the catalog payload returned to clients.
type CarDTO struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    uuid.UUID  `json:"category_id"`
	SubcategoryID *uuid.UUID `json:"subcategory_id,omitempty"`
	RefNo         string     `json:"ref_no,omitempty"`

	Name         string  `json:"name"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	ModelCode    *string `json:"model_code,omitempty"`
	Variant      *string `json:"variant,omitempty"`
	Year         *int    `json:"year,omitempty"`
	RegYearMonth *string `json:"reg_year_month,omitempty"`

	Mileage      *int    `json:"mileage,omitempty"`
	EngineCC     *int    `json:"engine_cc,omitempty"`
	Transmission *string `json:"transmission,omitempty"`
	Drive        *string `json:"drive,omitempty"`
	Steering     *string `json:"steering,omitempty"`
	Fuel         *string `json:"fuel,omitempty"`
	Color        *string `json:"color,omitempty"`
	Seats        *int    `json:"seats,omitempty"`

	GradeOverall  *float64 `json:"grade_overall,omitempty"`
	GradeExterior *string  `json:"grade_exterior,omitempty"`
	GradeInterior *string  `json:"grade_interior,omitempty"`

	PriceAmount decimal.Decimal  `json:"price_amount"`
	Currency    string           `json:"currency"`
	PriceBasis  *string          `json:"price_basis,omitempty"`
	FOBValue    *decimal.Decimal `json:"fob_value,omitempty"`
	Freight     *decimal.Decimal `json:"freight,omitempty"`

	ChassisNoMasked *string `json:"chassis_no_masked,omitempty"`
	ChassisNoFull   *string `json:"chassis_no_full,omitempty"`

	Location *string `json:"location,omitempty"`
	Country  *string `json:"country,omitempty"`

	Status string  `json:"status"`
	Notes  *string `json:"notes,omitempty"`

	Photos  []PhotoDTO  `json:"photos"`
	Details []DetailDTO `json:"details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhotoDTO is one gallery entry.
type PhotoDTO struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
	IsHidden  bool      `json:"is_hidden"`
}

// DetailDTO is one detail section with its nested rows.
type DetailDTO struct {
	ID          uuid.UUID      `json:"id"`
	ShortTitle  string         `json:"short_title"`
	FullTitle   string         `json:"full_title"`
	Description string         `json:"description"`
	Images      []string       `json:"images"`
	SubDetails  []SubDetailDTO `json:"sub_details"`
}

// SubDetailDTO is one nested key point.
type SubDetailDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// ListResult bundles one resolved catalog page.
type ListResult struct {
	Cars []CarDTO
	Meta pagination.Meta
}

// FilterOptionsDTO enumerates the distinct values the catalog can filter on.
type FilterOptionsDTO struct {
	Makes         []string `json:"makes"`
	Years         []int    `json:"years"`
	Fuels         []string `json:"fuels"`
	Transmissions []string `json:"transmissions"`
	Colors        []string `json:"colors"`
	Countries     []string `json:"countries"`
}

func toCarDTO(m *models.Car) *CarDTO {
	dto := &CarDTO{
		ID:            m.ID,
		CategoryID:    m.CategoryID,
		SubcategoryID: m.SubcategoryID,
		RefNo:         m.RefNo,

		Name:         DisplayName(*m),
		Make:         m.Make,
		Model:        m.Model,
		ModelCode:    m.ModelCode,
		Variant:      m.Variant,
		Year:         m.Year,
		RegYearMonth: m.RegYearMonth,

		Mileage:  m.Mileage,
		EngineCC: m.EngineCC,
		Color:    m.Color,
		Seats:    m.Seats,

		GradeOverall:  m.GradeOverall,
		GradeExterior: m.GradeExterior,
		GradeInterior: m.GradeInterior,

		PriceAmount: m.PriceAmount,
		Currency:    m.Currency,
		PriceBasis:  m.PriceBasis,
		FOBValue:    m.FOBValue,
		Freight:     m.Freight,

		ChassisNoMasked: m.ChassisNoMasked,
		ChassisNoFull:   m.ChassisNoFull,

		Location: m.Location,
		Country:  m.Country,

		Status: m.Status.String(),
		Notes:  m.Notes,

		Photos:  make([]PhotoDTO, 0, len(m.Photos)),
		Details: make([]DetailDTO, 0, len(m.Details)),

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}

	if m.Transmission != nil {
		v := m.Transmission.String()
		dto.Transmission = &v
	}
	if m.Drive != nil {
		v := m.Drive.String()
		dto.Drive = &v
	}
	if m.Steering != nil {
		v := m.Steering.String()
		dto.Steering = &v
	}
	if m.Fuel != nil {
		v := m.Fuel.String()
		dto.Fuel = &v
	}

	for _, photo := range m.Photos {
		dto.Photos = append(dto.Photos, PhotoDTO{
			ID:        photo.ID,
			URL:       photo.URL,
			IsPrimary: photo.IsPrimary,
			SortOrder: photo.SortOrder,
			IsHidden:  photo.IsHidden,
		})
	}

	for _, detail := range m.Details {
		d := DetailDTO{
			ID:          detail.ID,
			ShortTitle:  detail.ShortTitle,
			FullTitle:   detail.FullTitle,
			Description: detail.Description,
			Images:      append([]string{}, detail.Images...),
			SubDetails:  make([]SubDetailDTO, 0, len(detail.SubDetails)),
		}
		for _, sub := range detail.SubDetails {
			d.SubDetails = append(d.SubDetails, SubDetailDTO{
				ID:          sub.ID,
				Title:       sub.Title,
				Description: sub.Description,
			})
		}
		dto.Details = append(dto.Details, d)
	}

	return dto
}

func photoModels(carID uuid.UUID, photos []PhotoDraft) []models.CarPhoto {
	normalized := NormalizePhotos(photos)
	out := make([]models.CarPhoto, 0, len(normalized))
	for _, p := range normalized {
		out = append(out, models.CarPhoto{
			CarID:     carID,
			URL:       p.URL,
			IsPrimary: p.IsPrimary,
			SortOrder: p.SortOrder,
			IsHidden:  p.IsHidden,
		})
	}
	return out
}

func detailModels(carID uuid.UUID, details []DetailDraft) []models.CarDetail {
	out := make([]models.CarDetail, 0, len(details))
	for i, d := range details {
		detail := models.CarDetail{
			CarID:       carID,
			ShortTitle:  d.ShortTitle,
			FullTitle:   d.FullTitle,
			Description: d.Description,
			Images:      pq.StringArray(append([]string{}, d.Images...)),
			Position:    i,
			SubDetails:  make([]models.CarSubDetail, 0, len(d.SubDetails)),
		}
		for j, sub := range d.SubDetails {
			detail.SubDetails = append(detail.SubDetails, models.CarSubDetail{
				Title:       sub.Title,
				Description: sub.Description,
				Position:    j,
			})
		}
		out = append(out, detail)
	}
	return out
}
