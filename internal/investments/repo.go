package investments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// Repository defines persistence operations for investments and their events.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, inv *models.Investment) (*models.Investment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params listParams) ([]models.Investment, *pagination.Cursor, error)
	List(ctx context.Context, filters ListFilters, params listParams) ([]models.Investment, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateEvent(ctx context.Context, event *models.InvestmentEvent) error
	ListEvents(ctx context.Context, investmentID uuid.UUID) ([]models.InvestmentEvent, error)
	FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Investment, error)
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an investments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, inv *models.Investment) (*models.Investment, error) {
	if err := r.db.WithContext(ctx).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	var inv models.Investment
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	var inv models.Investment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, params listParams) ([]models.Investment, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Investment{}).
		Preload("Property").
		Where("user_id = ?", userID)
	return r.list(ctx, query, params)
}

func (r *repository) List(ctx context.Context, filters ListFilters, params listParams) ([]models.Investment, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).Model(&models.Investment{}).
		Preload("Property").
		Preload("User")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.PropertyID != nil {
		query = query.Where("property_id = ?", *filters.PropertyID)
	}
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return r.list(ctx, query, params)
}

func (r *repository) list(_ context.Context, query *gorm.DB, params listParams) ([]models.Investment, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var investments []models.Investment
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&investments).Error; err != nil {
		return nil, nil, err
	}

	if len(investments) > normalized {
		next := investments[normalized]
		investments = investments[:normalized]
		return investments, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return investments, nil, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateEvent(ctx context.Context, event *models.InvestmentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) ListEvents(ctx context.Context, investmentID uuid.UUID) ([]models.InvestmentEvent, error) {
	var events []models.InvestmentEvent
	err := r.db.WithContext(ctx).
		Where("investment_id = ?", investmentID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Investment, error) {
	var investments []models.Investment
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.InvestmentStatusPendingPayment, cutoff).
		Order("created_at ASC").
		Find(&investments).Error
	if err != nil {
		return nil, err
	}
	return investments, nil
}
