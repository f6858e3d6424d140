package car

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// ListQuery captures the SQL-side catalog filters, mirroring the list endpoint
// query parameters.
type ListQuery struct {
	Search        string
	Status        *enums.CarStatus
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Make          string
	YearFrom      *int
	YearTo        *int
	PriceFrom     *decimal.Decimal
	PriceTo       *decimal.Decimal
	MileageFrom   *int
	MileageTo     *int
	Transmission  *enums.Transmission
	Fuel          *enums.FuelType
	Color         string
	Drive         *enums.DriveType
	Steering      *enums.SteeringSide
	Country       string
	SortBy        string
	SortDirection enums.SortDirection
	Pagination    pagination.Params
}

// Repository wires together car persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Photos", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Details.SubDetails", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
}

// FindByID loads the car with ordered photos, details, and sub-details.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Car, error) {
	var car models.Car
	if err := withAssociations(r.db.WithContext(ctx)).First(&car, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// Create inserts the car row together with its owned collections.
func (r *Repository) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	if err := r.db.WithContext(ctx).Create(car).Error; err != nil {
		return nil, err
	}
	return car, nil
}

// UpdateScalars updates the car row without touching owned collections.
func (r *Repository) UpdateScalars(ctx context.Context, car *models.Car) (*models.Car, error) {
	if err := r.db.WithContext(ctx).Omit("Photos", "Details").Save(car).Error; err != nil {
		return nil, err
	}
	return car, nil
}

// Delete removes a car; photos and details cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Car{}).Error
}

// ReplacePhotos swaps the full photo collection for the car.
func (r *Repository) ReplacePhotos(ctx context.Context, carID uuid.UUID, photos []models.CarPhoto) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("car_id = ?", carID).Delete(&models.CarPhoto{}).Error; err != nil {
		return err
	}
	if len(photos) == 0 {
		return nil
	}
	return tx.Create(&photos).Error
}

// ReplaceDetails swaps the full detail collection for the car.
func (r *Repository) ReplaceDetails(ctx context.Context, carID uuid.UUID, details []models.CarDetail) error {
	tx := r.db.WithContext(ctx)

	var detailIDs []uuid.UUID
	if err := tx.Model(&models.CarDetail{}).Where("car_id = ?", carID).Pluck("id", &detailIDs).Error; err != nil {
		return err
	}
	if len(detailIDs) > 0 {
		if err := tx.Where("detail_id IN ?", detailIDs).Delete(&models.CarSubDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("car_id = ?", carID).Delete(&models.CarDetail{}).Error; err != nil {
			return err
		}
	}
	if len(details) == 0 {
		return nil
	}
	return tx.Create(&details).Error
}

// BulkStatus sets the status on every listed car and reports rows touched.
func (r *Repository) BulkStatus(ctx context.Context, ids []uuid.UUID, status enums.CarStatus) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Car{}).
		Where("id IN ?", ids).
		Update("status", status)
	return result.RowsAffected, result.Error
}

// List returns one catalog page plus the unclamped total for the filters.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Car, int64, error) {
	qb := r.applyFilters(r.db.WithContext(ctx).Model(&models.Car{}), query)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	meta := pagination.Resolve(query.Pagination, int(total))

	qb = r.applyFilters(withAssociations(r.db.WithContext(ctx)), query)
	qb = applySort(qb, query.SortBy, query.SortDirection)

	var rows []models.Car
	if err := qb.Offset(meta.Offset()).Limit(meta.PerPage).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) applyFilters(qb *gorm.DB, query ListQuery) *gorm.DB {
	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where(
			"(LOWER(make) LIKE ? OR LOWER(model) LIKE ? OR category_id IN (SELECT id FROM categories WHERE LOWER(name) LIKE ?))",
			pattern, pattern, pattern,
		)
	}
	if query.Status != nil {
		qb = qb.Where("status = ?", *query.Status)
	}
	if query.CategoryID != nil {
		qb = qb.Where("category_id = ?", *query.CategoryID)
	}
	if query.SubcategoryID != nil {
		qb = qb.Where("subcategory_id = ?", *query.SubcategoryID)
	}
	if query.Make != "" {
		qb = qb.Where("LOWER(make) = ?", strings.ToLower(query.Make))
	}
	if query.YearFrom != nil {
		qb = qb.Where("year >= ?", *query.YearFrom)
	}
	if query.YearTo != nil {
		qb = qb.Where("year <= ?", *query.YearTo)
	}
	if query.PriceFrom != nil {
		qb = qb.Where("price_amount >= ?", *query.PriceFrom)
	}
	if query.PriceTo != nil {
		qb = qb.Where("price_amount <= ?", *query.PriceTo)
	}
	if query.MileageFrom != nil {
		qb = qb.Where("mileage >= ?", *query.MileageFrom)
	}
	if query.MileageTo != nil {
		qb = qb.Where("mileage <= ?", *query.MileageTo)
	}
	if query.Transmission != nil {
		qb = qb.Where("transmission = ?", *query.Transmission)
	}
	if query.Fuel != nil {
		qb = qb.Where("fuel = ?", *query.Fuel)
	}
	if query.Color != "" {
		qb = qb.Where("LOWER(color) = ?", strings.ToLower(query.Color))
	}
	if query.Drive != nil {
		qb = qb.Where("drive = ?", *query.Drive)
	}
	if query.Steering != nil {
		qb = qb.Where("steering = ?", *query.Steering)
	}
	if query.Country != "" {
		qb = qb.Where("LOWER(country) = ?", strings.ToLower(query.Country))
	}
	return qb
}

// sortColumns whitelists the ORDER BY targets; "name" sorts make then model.
var sortColumns = map[string][]string{
	SortFieldName:      {"make", "model"},
	SortFieldMake:      {"make"},
	SortFieldModel:     {"model"},
	SortFieldYear:      {"year"},
	SortFieldPrice:     {"price_amount"},
	SortFieldMileage:   {"mileage"},
	SortFieldCreatedAt: {"created_at"},
}

func applySort(qb *gorm.DB, sortBy string, direction enums.SortDirection) *gorm.DB {
	columns, ok := sortColumns[sortBy]
	if !ok {
		columns = sortColumns[SortFieldCreatedAt]
		if sortBy == "" {
			direction = enums.SortDesc
		}
	}
	dir := "ASC"
	if direction == enums.SortDesc {
		dir = "DESC"
	}
	for _, column := range columns {
		qb = qb.Order(column + " " + dir)
	}
	return qb.Order("id ASC")
}

// FilterOptions collects the distinct values the catalog exposes as filters.
func (r *Repository) FilterOptions(ctx context.Context) (*FilterOptionsDTO, error) {
	options := &FilterOptionsDTO{}
	base := func() *gorm.DB { return r.db.WithContext(ctx).Model(&models.Car{}) }

	if err := base().Distinct("make").Where("make <> ''").Order("make ASC").
		Pluck("make", &options.Makes).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("year").Where("year IS NOT NULL").Order("year DESC").
		Pluck("year", &options.Years).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("fuel").Where("fuel IS NOT NULL").Order("fuel ASC").
		Pluck("fuel", &options.Fuels).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("transmission").Where("transmission IS NOT NULL").Order("transmission ASC").
		Pluck("transmission", &options.Transmissions).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("color").Where("color IS NOT NULL").Order("color ASC").
		Pluck("color", &options.Colors).Error; err != nil {
		return nil, err
	}
	if err := base().Distinct("country").Where("country IS NOT NULL").Order("country ASC").
		Pluck("country", &options.Countries).Error; err != nil {
		return nil, err
	}
	return options, nil
}
