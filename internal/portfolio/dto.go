package portfolio

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// HoldingDTO is the per-property aggregate of a user's confirmed investments.
type HoldingDTO struct {
	PropertyID       uuid.UUID            `json:"property_id"`
	Title            string               `json:"title"`
	City             string               `json:"city"`
	PropertyStatus   enums.PropertyStatus `json:"property_status"`
	UnitsCount       int                  `json:"units_count"`
	Invested         decimal.Decimal      `json:"invested"`
	ExpectedReturn   decimal.Decimal      `json:"expected_return"`
	InvestmentsCount int                  `json:"investments_count"`
}

// SummaryDTO is the user's portfolio overview.
type SummaryDTO struct {
	UserID               uuid.UUID       `json:"user_id"`
	TotalInvested        decimal.Decimal `json:"total_invested"`
	ExpectedReturns      decimal.Decimal `json:"expected_returns"`
	RealizedReturns      decimal.Decimal `json:"realized_returns"`
	ActiveInvestments    int             `json:"active_investments"`
	CompletedInvestments int             `json:"completed_investments"`
	Holdings             []HoldingDTO    `json:"holdings"`
}
