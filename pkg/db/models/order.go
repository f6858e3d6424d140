package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/pkg/enums"
)

// Order groups one or more car lines sold to a client.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber int64             `gorm:"column:order_number;autoIncrement;uniqueIndex"`
	ClientID    uuid.UUID         `gorm:"column:client_id;type:uuid;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;size:16;not null;default:'pending'"`
	Currency    string            `gorm:"column:currency;size:3;not null;default:'USD'"`
	Total       decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	Notes       *string           `gorm:"column:notes;type:text"`
	Items       []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ConfirmedAt *time.Time        `gorm:"column:confirmed_at"`
	DeliveredAt *time.Time        `gorm:"column:delivered_at"`
	CancelledAt *time.Time        `gorm:"column:cancelled_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one car line on an order. Name snapshots the listing title at
// order time so later edits to the car do not rewrite history.
type OrderItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	CarID     *uuid.UUID      `gorm:"column:car_id;type:uuid"`
	Name      string          `gorm:"column:name;size:160;not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Invoice is the billing record issued from a confirmed order.
type Invoice struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID       uuid.UUID       `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	InvoiceNumber string          `gorm:"column:invoice_number;size:32;not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency      string          `gorm:"column:currency;size:3;not null;default:'USD'"`
	IssuedAt      time.Time       `gorm:"column:issued_at;not null"`
	DueAt         *time.Time      `gorm:"column:due_at"`
	Paid          bool            `gorm:"column:paid;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
