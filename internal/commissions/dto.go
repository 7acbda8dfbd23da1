package commissions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
)

// CommissionDTO is a referral commission as exposed over the API.
type CommissionDTO struct {
	ID           uuid.UUID              `json:"id"`
	PartnerID    uuid.UUID              `json:"partner_id"`
	InvestmentID uuid.UUID              `json:"investment_id"`
	Rate         decimal.Decimal        `json:"rate"`
	Amount       decimal.Decimal        `json:"amount"`
	Status       enums.CommissionStatus `json:"status"`
	PaidAt       *time.Time             `json:"paid_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// CommissionList is a cursor paginated page of commissions.
type CommissionList struct {
	Commissions []CommissionDTO `json:"commissions"`
	NextCursor  *string         `json:"next_cursor,omitempty"`
}

// ListFilters narrows admin commission listings.
type ListFilters struct {
	Status    *enums.CommissionStatus
	PartnerID *uuid.UUID
}

func toDTO(commission *models.Commission) *CommissionDTO {
	return &CommissionDTO{
		ID:           commission.ID,
		PartnerID:    commission.PartnerID,
		InvestmentID: commission.InvestmentID,
		Rate:         commission.Rate,
		Amount:       commission.Amount,
		Status:       commission.Status,
		PaidAt:       commission.PaidAt,
		CreatedAt:    commission.CreatedAt,
	}
}
