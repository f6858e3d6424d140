package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/pkg/enums"
)

// Car is the canonical catalog listing.
type Car struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID    uuid.UUID  `gorm:"column:category_id;type:uuid;not null"`
	SubcategoryID *uuid.UUID `gorm:"column:subcategory_id;type:uuid"`
	RefNo         string     `gorm:"column:ref_no;size:32"`

	Make         string  `gorm:"column:make;size:64;not null"`
	Model        string  `gorm:"column:model;size:64;not null"`
	ModelCode    *string `gorm:"column:model_code;size:64"`
	Variant      *string `gorm:"column:variant;size:64"`
	Year         *int    `gorm:"column:year"`
	RegYearMonth *string `gorm:"column:reg_year_month;size:7"`

	Mileage      *int                `gorm:"column:mileage"`
	EngineCC     *int                `gorm:"column:engine_cc"`
	Transmission *enums.Transmission `gorm:"column:transmission;size:16"`
	Drive        *enums.DriveType    `gorm:"column:drive;size:8"`
	Steering     *enums.SteeringSide `gorm:"column:steering;size:8"`
	Fuel         *enums.FuelType     `gorm:"column:fuel;size:16"`
	Color        *string             `gorm:"column:color;size:32"`
	Seats        *int                `gorm:"column:seats"`

	GradeOverall  *float64 `gorm:"column:grade_overall;type:numeric(4,1)"`
	GradeExterior *string  `gorm:"column:grade_exterior;size:8"`
	GradeInterior *string  `gorm:"column:grade_interior;size:8"`

	PriceAmount decimal.Decimal  `gorm:"column:price_amount;type:numeric(12,2);not null"`
	Currency    string           `gorm:"column:currency;size:3;not null;default:'USD'"`
	PriceBasis  *string          `gorm:"column:price_basis;size:16"`
	FOBValue    *decimal.Decimal `gorm:"column:fob_value;type:numeric(12,2)"`
	Freight     *decimal.Decimal `gorm:"column:freight;type:numeric(12,2)"`

	ChassisNoMasked *string `gorm:"column:chassis_no_masked;size:64"`
	ChassisNoFull   *string `gorm:"column:chassis_no_full;size:64"`

	Location *string `gorm:"column:location;size:128"`
	Country  *string `gorm:"column:country;size:64"`

	Status enums.CarStatus `gorm:"column:status;size:16;not null;default:'available'"`
	Notes  *string         `gorm:"column:notes;type:text"`

	Photos  []CarPhoto  `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE"`
	Details []CarDetail `gorm:"foreignKey:CarID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// CarPhoto stores one ordered gallery entry for a car.
type CarPhoto struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CarID     uuid.UUID `gorm:"column:car_id;type:uuid;not null;index"`
	URL       string    `gorm:"column:url;not null"`
	IsPrimary bool      `gorm:"column:is_primary;not null;default:false"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsHidden  bool      `gorm:"column:is_hidden;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
