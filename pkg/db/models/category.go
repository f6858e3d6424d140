package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog grouping. A category whose ChildrenCount is positive
// is eligible as a top-level selection; its children are subcategory options.
type Category struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name             string     `gorm:"column:name;size:64;not null"`
	ParentCategoryID *uuid.UUID `gorm:"column:parent_category_id;type:uuid;index"`
	Status           string     `gorm:"column:status;size:16;not null;default:'active'"`
	ChildrenCount    int        `gorm:"column:children_count;not null;default:0"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
