package wishlist

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// PropertyCard is the compact property projection shown in wishlist views.
type PropertyCard struct {
	ID                  uuid.UUID            `json:"id"`
	Title               string               `json:"title"`
	City                string               `json:"city"`
	Locality            string               `json:"locality"`
	PropertyType        enums.PropertyType   `json:"property_type"`
	Status              enums.PropertyStatus `json:"status"`
	PricePerUnit        decimal.Decimal      `json:"price_per_unit"`
	ExpectedAnnualYield decimal.Decimal      `json:"expected_annual_yield"`
	AvailableUnits      int                  `json:"available_units"`
	ThumbnailURL        *string              `json:"thumbnail_url,omitempty"`
}

// ItemDTO is one saved property on a user's wishlist.
type ItemDTO struct {
	Property PropertyCard `json:"property"`
	SavedAt  time.Time    `json:"saved_at"`
}

// ListDTO is a cursor paginated page of wishlist items.
type ListDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}
