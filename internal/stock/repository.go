package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dealerhub/dealerhub-backend/pkg/db/models"
	"github.com/dealerhub/dealerhub-backend/pkg/pagination"
)

// Repository wires together stock persistence helpers.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByCarID loads the stock row for one car.
func (r *Repository) FindByCarID(ctx context.Context, carID uuid.UUID) (*models.StockItem, error) {
	var item models.StockItem
	if err := r.db.WithContext(ctx).First(&item, "car_id = ?", carID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert creates or updates the stock row keyed by car.
func (r *Repository) Upsert(ctx context.Context, item *models.StockItem) (*models.StockItem, error) {
	var existing models.StockItem
	err := r.db.WithContext(ctx).First(&existing, "car_id = ?", item.CarID).Error
	switch {
	case err == nil:
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
		if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
			return nil, err
		}
		return item, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
			return nil, err
		}
		return item, nil
	default:
		return nil, err
	}
}

// StockRow is a stock item joined with the car it tracks.
type StockRow struct {
	Item models.StockItem
	Car  models.Car
}

// List returns one page of stock rows joined with their cars.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]StockRow, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.StockItem{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	meta := pagination.Resolve(params, int(total))

	var items []models.StockItem
	err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Offset(meta.Offset()).
		Limit(meta.PerPage).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	carIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		carIDs = append(carIDs, item.CarID)
	}

	carsByID := map[uuid.UUID]models.Car{}
	if len(carIDs) > 0 {
		var cars []models.Car
		err := r.db.WithContext(ctx).
			Preload("Photos", func(db *gorm.DB) *gorm.DB {
				return db.Where("is_primary = ?", true)
			}).
			Where("id IN ?", carIDs).
			Find(&cars).Error
		if err != nil {
			return nil, 0, err
		}
		for _, c := range cars {
			carsByID[c.ID] = c
		}
	}

	rows := make([]StockRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, StockRow{Item: item, Car: carsByID[item.CarID]})
	}
	return rows, total, nil
}

// Delete removes the stock row for a car.
func (r *Repository) Delete(ctx context.Context, carID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("car_id = ?", carID).Delete(&models.StockItem{}).Error
}
