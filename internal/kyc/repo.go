package kyc

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

// Repository defines persistence operations for KYC step records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByUserAndStep(ctx context.Context, userID uuid.UUID, step enums.KYCStep) (*models.KYCRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.KYCRecord, error)
	Create(ctx context.Context, record *models.KYCRecord) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a KYC repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByUserAndStep(ctx context.Context, userID uuid.UUID, step enums.KYCStep) (*models.KYCRecord, error) {
	var record models.KYCRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND step = ?", userID, step).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.KYCRecord, error) {
	var records []models.KYCRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) Create(ctx context.Context, record *models.KYCRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.KYCRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

type userStatusWriterImpl struct{}

// NewUserStatusWriter exposes the default writer for the user's derived status.
func NewUserStatusWriter() UserStatusWriter {
	return userStatusWriterImpl{}
}

func (userStatusWriterImpl) SetKYCStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status enums.KYCStatus) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for kyc status update")
	}
	res := tx.WithContext(ctx).Exec(`
		UPDATE users
		SET kyc_status = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, status, userID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update kyc status")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}
