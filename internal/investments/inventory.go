package investments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

type unitInventoryImpl struct{}

// NewUnitInventory exposes the default property unit inventory implementation.
func NewUnitInventory() UnitInventory {
	return unitInventoryImpl{}
}

func (unitInventoryImpl) Reserve(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error {
	if units <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "units count must be positive")
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for unit reservation")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE properties
		SET available_units = available_units - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ? AND available_units >= ?
	`, units, propertyID, enums.PropertyStatusActive, units)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve units")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "not enough available units")
	}
	return nil
}

func (unitInventoryImpl) Release(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error {
	if units <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for unit release")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE properties
		SET available_units = available_units + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND available_units + ? <= total_units
	`, units, propertyID, units)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release units")
	}
	return nil
}

func (unitInventoryImpl) RecordFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for funding update")
	}
	res := tx.WithContext(ctx).Exec(`
		UPDATE properties
		SET funding_raised = funding_raised + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, amount, propertyID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "record funding")
	}
	return nil
}

func (unitInventoryImpl) ReverseFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for funding update")
	}
	res := tx.WithContext(ctx).Exec(`
		UPDATE properties
		SET funding_raised = funding_raised - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND funding_raised >= ?
	`, amount, propertyID, amount)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reverse funding")
	}
	return nil
}

type propertyReaderImpl struct{}

// NewPropertyReader exposes the default property lookup used during investment creation.
func NewPropertyReader() PropertyReader {
	return propertyReaderImpl{}
}

func (propertyReaderImpl) FindForInvestment(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*models.Property, error) {
	var property models.Property
	if err := tx.WithContext(ctx).Where("id = ?", propertyID).First(&property).Error; err != nil {
		return nil, err
	}
	return &property, nil
}
