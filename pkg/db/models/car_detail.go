package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// CarDetail is one titled description block on a listing. Position is the
// display order; images and sub-details are owned by the section.
type CarDetail struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CarID       uuid.UUID      `gorm:"column:car_id;type:uuid;not null;index"`
	ShortTitle  string         `gorm:"column:short_title;size:64"`
	FullTitle   string         `gorm:"column:full_title;size:128"`
	Description string         `gorm:"column:description;type:text"`
	Images      pq.StringArray `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Position    int            `gorm:"column:position;not null;default:0"`
	SubDetails  []CarSubDetail `gorm:"foreignKey:DetailID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// CarSubDetail is one title/description pair inside a detail section.
type CarSubDetail struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DetailID    uuid.UUID `gorm:"column:detail_id;type:uuid;not null;index"`
	Title       string    `gorm:"column:title;size:128"`
	Description string    `gorm:"column:description;type:text"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
