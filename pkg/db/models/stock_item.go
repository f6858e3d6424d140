package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/pkg/enums"
)

// StockItem is the inventory side-table joined to a car for stock views.
// It is never mutated by the listing form.
type StockItem struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CarID     uuid.UUID         `gorm:"column:car_id;type:uuid;not null;uniqueIndex"`
	Quantity  int               `gorm:"column:quantity;not null;default:0"`
	Status    enums.StockStatus `gorm:"column:status;size:16;not null;default:'in_stock'"`
	Price     decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	Notes     *string           `gorm:"column:notes;type:text"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
