package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a dealership customer record.
type Client struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;size:128;not null"`
	Email     *string   `gorm:"column:email;size:128"`
	Phone     *string   `gorm:"column:phone;size:32"`
	Country   *string   `gorm:"column:country;size:64"`
	Notes     *string   `gorm:"column:notes;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Sale records a completed car sale to a client.
type Sale struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CarID     uuid.UUID       `gorm:"column:car_id;type:uuid;not null;index"`
	ClientID  uuid.UUID       `gorm:"column:client_id;type:uuid;not null;index"`
	SoldPrice decimal.Decimal `gorm:"column:sold_price;type:numeric(12,2);not null"`
	Currency  string          `gorm:"column:currency;size:3;not null;default:'USD'"`
	SoldAt    time.Time       `gorm:"column:sold_at;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
