package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// Commission records a channel partner's referral earning for an approved
// investment.
type Commission struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PartnerID    uuid.UUID              `gorm:"column:partner_id;type:uuid;not null;index:commissions_partner_id_idx"`
	InvestmentID uuid.UUID              `gorm:"column:investment_id;type:uuid;not null;uniqueIndex:commissions_investment_id_key"`
	Rate         decimal.Decimal        `gorm:"column:rate;type:numeric(6,4);not null"`
	Amount       decimal.Decimal        `gorm:"column:amount;type:numeric(16,2);not null"`
	Status       enums.CommissionStatus `gorm:"type:commission_status;not null;default:'pending'"`
	PaidAt       *time.Time             `gorm:"column:paid_at"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
