package properties

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// CreatePropertyInput holds the validated payload to create a listing.
type CreatePropertyInput struct {
	Title               string
	Description         string
	City                string
	Locality            string
	PropertyType        enums.PropertyType
	TotalUnits          int
	PricePerUnit        decimal.Decimal
	ExpectedAnnualYield decimal.Decimal
	FundingTarget       decimal.Decimal
	Amenities           []string
	ImageURLs           []string
}

// UpdatePropertyInput holds optional mutation values for a listing.
type UpdatePropertyInput struct {
	Title               *string
	Description         *string
	City                *string
	Locality            *string
	PropertyType        *enums.PropertyType
	PricePerUnit        *decimal.Decimal
	ExpectedAnnualYield *decimal.Decimal
	FundingTarget       *decimal.Decimal
	Amenities           *[]string
	ImageURLs           *[]string
}

// ListPropertiesInput captures browse filters plus pagination.
type ListPropertiesInput struct {
	City         *string
	PropertyType *enums.PropertyType
	Status       *enums.PropertyStatus
	Params       pagination.Params
}

// PropertyImageDTO is one gallery entry.
type PropertyImageDTO struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// PropertyDTO is the listing view returned to clients.
type PropertyDTO struct {
	ID                  uuid.UUID            `json:"id"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	City                string               `json:"city"`
	Locality            string               `json:"locality"`
	PropertyType        enums.PropertyType   `json:"property_type"`
	Status              enums.PropertyStatus `json:"status"`
	TotalUnits          int                  `json:"total_units"`
	AvailableUnits      int                  `json:"available_units"`
	PricePerUnit        decimal.Decimal      `json:"price_per_unit"`
	ExpectedAnnualYield decimal.Decimal      `json:"expected_annual_yield"`
	FundingTarget       decimal.Decimal      `json:"funding_target"`
	FundingRaised       decimal.Decimal      `json:"funding_raised"`
	Amenities           []string             `json:"amenities"`
	Images              []PropertyImageDTO   `json:"images"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// PropertyList wraps paginated listings plus the next page cursor.
type PropertyList struct {
	Properties []PropertyDTO `json:"properties"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toDTO(property *models.Property) *PropertyDTO {
	dto := &PropertyDTO{
		ID:                  property.ID,
		Title:               property.Title,
		Description:         property.Description,
		City:                property.City,
		Locality:            property.Locality,
		PropertyType:        property.PropertyType,
		Status:              property.Status,
		TotalUnits:          property.TotalUnits,
		AvailableUnits:      property.AvailableUnits,
		PricePerUnit:        property.PricePerUnit,
		ExpectedAnnualYield: property.ExpectedAnnualYield,
		FundingTarget:       property.FundingTarget,
		FundingRaised:       property.FundingRaised,
		Amenities:           []string(property.Amenities),
		Images:              make([]PropertyImageDTO, 0, len(property.Images)),
	}
	dto.CreatedAt = property.CreatedAt
	dto.UpdatedAt = property.UpdatedAt
	for _, image := range property.Images {
		dto.Images = append(dto.Images, PropertyImageDTO{URL: image.URL, Position: image.Position})
	}
	return dto
}
