package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dealerhub/dealerhub-backend/pkg/enums"
)

// User is a dealership staff account.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string         `gorm:"column:email;size:128;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	FirstName    string         `gorm:"column:first_name;size:64;not null"`
	LastName     string         `gorm:"column:last_name;size:64;not null"`
	Role         enums.UserRole `gorm:"column:role;size:16;not null;default:'viewer'"`
	IsActive     bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
