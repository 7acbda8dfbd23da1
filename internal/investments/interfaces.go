package investments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UnitInventory reserves and releases property units and tracks raised funding.
type UnitInventory interface {
	Reserve(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error
	Release(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error
	RecordFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error
	ReverseFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error
}

// WalletLedger moves money in and out of a user's wallet inside a transaction.
type WalletLedger interface {
	Debit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, amount decimal.Decimal, description string) error
	Credit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, txType enums.WalletTransactionType, amount decimal.Decimal, description string) error
}

// CommissionRecorder creates the partner commission when an investment is approved.
type CommissionRecorder interface {
	RecordForInvestment(ctx context.Context, tx *gorm.DB, inv *models.Investment) error
}

// Notifier persists an in-app notification for the user.
type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error
}

// PropertyReader loads the property an investment is being created against.
type PropertyReader interface {
	FindForInvestment(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*models.Property, error)
}

// Service defines investment lifecycle operations.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateInput) (*InvestmentDTO, error)
	MyInvestments(ctx context.Context, userID uuid.UUID, params pagination.Params) (*InvestmentList, error)
	Detail(ctx context.Context, viewerID uuid.UUID, viewerRole enums.UserRole, investmentID uuid.UUID) (*InvestmentDTO, error)
	AdminList(ctx context.Context, filters ListFilters, params pagination.Params) (*InvestmentList, error)
	PerformAction(ctx context.Context, input ActionInput) (*InvestmentDTO, error)
}
