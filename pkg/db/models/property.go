package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// Property is a fractionalized listing. Unit counters move only through the
// investment workflow, never directly from client writes.
type Property struct {
	ID                  uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title               string               `gorm:"type:text;not null"`
	Description         string               `gorm:"type:text;not null;default:''"`
	City                string               `gorm:"type:text;not null"`
	Locality            string               `gorm:"type:text;not null;default:''"`
	PropertyType        enums.PropertyType   `gorm:"column:property_type;type:property_type;not null"`
	Status              enums.PropertyStatus `gorm:"type:property_status;not null;default:'draft'"`
	TotalUnits          int                  `gorm:"column:total_units;not null"`
	AvailableUnits      int                  `gorm:"column:available_units;not null"`
	PricePerUnit        decimal.Decimal      `gorm:"column:price_per_unit;type:numeric(14,2);not null"`
	ExpectedAnnualYield decimal.Decimal      `gorm:"column:expected_annual_yield;type:numeric(5,2);not null;default:0"`
	FundingTarget       decimal.Decimal      `gorm:"column:funding_target;type:numeric(16,2);not null;default:0"`
	FundingRaised       decimal.Decimal      `gorm:"column:funding_raised;type:numeric(16,2);not null;default:0"`
	Amenities           pq.StringArray       `gorm:"column:amenities;type:text[];default:ARRAY[]::text[]"`
	Images              []PropertyImage      `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// PropertyImage stores an ordered gallery entry for a property.
type PropertyImage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index:property_images_property_id_idx"`
	URL        string    `gorm:"type:text;not null"`
	Position   int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
