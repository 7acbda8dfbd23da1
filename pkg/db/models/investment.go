package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// Investment is a user's position in a property, driven through the admin
// approval workflow.
type Investment struct {
	ID                       uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                   uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index:investments_user_id_idx"`
	PropertyID               uuid.UUID              `gorm:"column:property_id;type:uuid;not null;index:investments_property_id_idx"`
	UnitsCount               int                    `gorm:"column:units_count;not null"`
	Amount                   decimal.Decimal        `gorm:"column:amount;type:numeric(16,2);not null"`
	PricePerUnitAtInvestment decimal.Decimal        `gorm:"column:price_per_unit_at_investment;type:numeric(14,2);not null"`
	ExpectedReturn           decimal.Decimal        `gorm:"column:expected_return;type:numeric(16,2);not null;default:0"`
	Status                   enums.InvestmentStatus `gorm:"type:investment_status;not null;default:'pending_payment'"`
	PaymentStatus            enums.PaymentStatus    `gorm:"column:payment_status;type:payment_status;not null;default:'pending'"`
	PaymentCompleted         bool                   `gorm:"column:payment_completed;not null;default:false"`
	ReferralCode             *string                `gorm:"column:referral_code"`
	StatusReason             *string                `gorm:"column:status_reason"`
	StatusChangedAt          *time.Time             `gorm:"column:status_changed_at"`
	ApprovedAt               *time.Time             `gorm:"column:approved_at"`
	ApprovedBy               *uuid.UUID             `gorm:"column:approved_by;type:uuid"`
	User                     *User                  `gorm:"foreignKey:UserID"`
	Property                 *Property              `gorm:"foreignKey:PropertyID"`
	Events                   []InvestmentEvent      `gorm:"foreignKey:InvestmentID;constraint:OnDelete:CASCADE"`
	CreatedAt                time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt                time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// InvestmentEvent is the audit trail of workflow transitions.
type InvestmentEvent struct {
	ID           uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	InvestmentID uuid.UUID              `gorm:"column:investment_id;type:uuid;not null;index:investment_events_investment_id_idx"`
	ActorID      *uuid.UUID             `gorm:"column:actor_id;type:uuid"`
	Action       enums.InvestmentAction `gorm:"type:investment_action;not null"`
	FromStatus   enums.InvestmentStatus `gorm:"column:from_status;type:investment_status;not null"`
	ToStatus     enums.InvestmentStatus `gorm:"column:to_status;type:investment_status;not null"`
	Reason       *string                `gorm:"column:reason"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
}
