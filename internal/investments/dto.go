package investments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
)

// CreateInput captures a user's investment request.
type CreateInput struct {
	PropertyID   uuid.UUID
	UnitsCount   int
	ReferralCode *string
}

// ActionInput carries the contextual metadata required to apply a workflow action.
type ActionInput struct {
	InvestmentID uuid.UUID
	Action       enums.InvestmentAction
	Reason       *string
	ActorID      uuid.UUID
	ActorRole    enums.UserRole
}

// ListFilters describe the inputs supported by the admin investment list.
type ListFilters struct {
	Status     *enums.InvestmentStatus
	PropertyID *uuid.UUID
	UserID     *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PropertySummary is the embedded property view on an investment row.
type PropertySummary struct {
	ID           uuid.UUID            `json:"id"`
	Title        string               `json:"title"`
	City         string               `json:"city"`
	Status       enums.PropertyStatus `json:"status"`
	PricePerUnit decimal.Decimal      `json:"price_per_unit"`
}

// InvestmentDTO is the full record returned by detail and action endpoints.
type InvestmentDTO struct {
	ID                       uuid.UUID                `json:"id"`
	UserID                   uuid.UUID                `json:"user_id"`
	PropertyID               uuid.UUID                `json:"property_id"`
	UnitsCount               int                      `json:"units_count"`
	Amount                   decimal.Decimal          `json:"amount"`
	PricePerUnitAtInvestment decimal.Decimal          `json:"price_per_unit_at_investment"`
	ExpectedReturn           decimal.Decimal          `json:"expected_return"`
	Status                   enums.InvestmentStatus   `json:"status"`
	PaymentStatus            enums.PaymentStatus      `json:"payment_status"`
	PaymentCompleted         bool                     `json:"payment_completed"`
	StatusReason             *string                  `json:"status_reason,omitempty"`
	ApprovedAt               *time.Time               `json:"approved_at,omitempty"`
	CreatedAt                time.Time                `json:"created_at"`
	UpdatedAt                time.Time                `json:"updated_at"`
	Property                 *PropertySummary         `json:"property,omitempty"`
	Progress                 []ProgressStep           `json:"progress"`
	AvailableActions         []enums.InvestmentAction `json:"available_actions"`
}

// InvestmentList wraps the paginated investments plus the next page cursor.
type InvestmentList struct {
	Investments []InvestmentDTO `json:"investments"`
	NextCursor  string          `json:"next_cursor,omitempty"`
}

func toDTO(inv *models.Investment) *InvestmentDTO {
	dto := &InvestmentDTO{
		ID:                       inv.ID,
		UserID:                   inv.UserID,
		PropertyID:               inv.PropertyID,
		UnitsCount:               inv.UnitsCount,
		Amount:                   inv.Amount,
		PricePerUnitAtInvestment: inv.PricePerUnitAtInvestment,
		ExpectedReturn:           inv.ExpectedReturn,
		Status:                   inv.Status,
		PaymentStatus:            inv.PaymentStatus,
		PaymentCompleted:         inv.PaymentCompleted,
		StatusReason:             inv.StatusReason,
		ApprovedAt:               inv.ApprovedAt,
		CreatedAt:                inv.CreatedAt,
		UpdatedAt:                inv.UpdatedAt,
		Progress:                 DeriveSteps(inv.Status, inv.PaymentCompleted),
		AvailableActions:         AvailableActions(inv.Status, inv.PaymentCompleted),
	}
	if inv.Property != nil {
		dto.Property = &PropertySummary{
			ID:           inv.Property.ID,
			Title:        inv.Property.Title,
			City:         inv.Property.City,
			Status:       inv.Property.Status,
			PricePerUnit: inv.Property.PricePerUnit,
		}
	}
	return dto
}
