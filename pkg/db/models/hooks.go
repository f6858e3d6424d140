package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned client-side so inserts do not depend on pgcrypto being
// installed; the column defaults remain as a backstop for raw SQL.

func (m *Car) BeforeCreate(*gorm.DB) error        { return assignID(&m.ID) }
func (m *CarPhoto) BeforeCreate(*gorm.DB) error   { return assignID(&m.ID) }
func (m *CarDetail) BeforeCreate(*gorm.DB) error  { return assignID(&m.ID) }
func (m *CarSubDetail) BeforeCreate(*gorm.DB) error { return assignID(&m.ID) }
func (m *Category) BeforeCreate(*gorm.DB) error   { return assignID(&m.ID) }
func (m *Client) BeforeCreate(*gorm.DB) error     { return assignID(&m.ID) }
func (m *Sale) BeforeCreate(*gorm.DB) error       { return assignID(&m.ID) }
func (m *Order) BeforeCreate(*gorm.DB) error      { return assignID(&m.ID) }
func (m *OrderItem) BeforeCreate(*gorm.DB) error  { return assignID(&m.ID) }
func (m *Invoice) BeforeCreate(*gorm.DB) error    { return assignID(&m.ID) }
func (m *StockItem) BeforeCreate(*gorm.DB) error  { return assignID(&m.ID) }
func (m *User) BeforeCreate(*gorm.DB) error       { return assignID(&m.ID) }

func assignID(id *uuid.UUID) error {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	return nil
}
