package commissions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// Repository defines persistence operations for referral commissions.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, commission *models.Commission) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Commission, error)
	ListByPartner(ctx context.Context, partnerID uuid.UUID, params listParams) ([]models.Commission, *pagination.Cursor, error)
	List(ctx context.Context, filters ListFilters, params listParams) ([]models.Commission, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a commissions repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, commission *models.Commission) error {
	return r.db.WithContext(ctx).Create(commission).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&commission).Error; err != nil {
		return nil, err
	}
	return &commission, nil
}

func (r *repository) ListByPartner(ctx context.Context, partnerID uuid.UUID, params listParams) ([]models.Commission, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("partner_id = ?", partnerID)
	return r.list(query, params)
}

func (r *repository) List(ctx context.Context, filters ListFilters, params listParams) ([]models.Commission, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Commission{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PartnerID != nil {
		query = query.Where("partner_id = ?", *filters.PartnerID)
	}
	return r.list(query, params)
}

func (r *repository) list(query *gorm.DB, params listParams) ([]models.Commission, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var commissions []models.Commission
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&commissions).Error; err != nil {
		return nil, nil, err
	}

	if len(commissions) > normalized {
		next := commissions[normalized]
		commissions = commissions[:normalized]
		return commissions, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return commissions, nil, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Commission{}).
		Where("id = ?", id).
		Updates(updates).Error
}
