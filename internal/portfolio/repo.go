package portfolio

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// Repository runs the read-only aggregate queries behind the portfolio view.
type Repository interface {
	Totals(ctx context.Context, userID uuid.UUID) (*totalsRecord, error)
	Holdings(ctx context.Context, userID uuid.UUID) ([]holdingRecord, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a portfolio repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

type totalsRecord struct {
	TotalInvested   decimal.Decimal `gorm:"column:total_invested"`
	ExpectedReturns decimal.Decimal `gorm:"column:expected_returns"`
	RealizedReturns decimal.Decimal `gorm:"column:realized_returns"`
	ActiveCount     int             `gorm:"column:active_count"`
	CompletedCount  int             `gorm:"column:completed_count"`
}

type holdingRecord struct {
	PropertyID       uuid.UUID            `gorm:"column:property_id"`
	Title            string               `gorm:"column:title"`
	City             string               `gorm:"column:city"`
	PropertyStatus   enums.PropertyStatus `gorm:"column:property_status"`
	UnitsCount       int                  `gorm:"column:units_count"`
	Invested         decimal.Decimal      `gorm:"column:invested"`
	ExpectedReturn   decimal.Decimal      `gorm:"column:expected_return"`
	InvestmentsCount int                  `gorm:"column:investments_count"`
}

func (r *repository) Totals(ctx context.Context, userID uuid.UUID) (*totalsRecord, error) {
	var record totalsRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN status IN (?, ?) THEN amount ELSE 0 END), 0) AS total_invested,
			COALESCE(SUM(CASE WHEN status = ? THEN expected_return ELSE 0 END), 0) AS expected_returns,
			COALESCE(SUM(CASE WHEN status = ? THEN expected_return ELSE 0 END), 0) AS realized_returns,
			COUNT(CASE WHEN status IN (?, ?, ?) THEN 1 END) AS active_count,
			COUNT(CASE WHEN status = ? THEN 1 END) AS completed_count
		FROM investments
		WHERE user_id = ?
	`,
		enums.InvestmentStatusApproved, enums.InvestmentStatusCompleted,
		enums.InvestmentStatusApproved,
		enums.InvestmentStatusCompleted,
		enums.InvestmentStatusPendingPayment, enums.InvestmentStatusPaymentApproved, enums.InvestmentStatusApproved,
		enums.InvestmentStatusCompleted,
		userID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Holdings(ctx context.Context, userID uuid.UUID) ([]holdingRecord, error) {
	var records []holdingRecord
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id AS property_id,
			p.title,
			p.city,
			p.status AS property_status,
			SUM(i.units_count) AS units_count,
			SUM(i.amount) AS invested,
			SUM(i.expected_return) AS expected_return,
			COUNT(*) AS investments_count
		FROM investments i
		JOIN properties p ON p.id = i.property_id
		WHERE i.user_id = ? AND i.status IN (?, ?)
		GROUP BY p.id, p.title, p.city, p.status
		ORDER BY invested DESC
	`, userID, enums.InvestmentStatusApproved, enums.InvestmentStatusCompleted).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
