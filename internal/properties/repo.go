package properties

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// Repository defines persistence operations for property listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, property *models.Property) (*models.Property, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, filters listFilters, params listParams) ([]models.Property, *pagination.Cursor, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ReplaceImages(ctx context.Context, propertyID uuid.UUID, images []models.PropertyImage) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type listFilters struct {
	City         *string
	PropertyType *string
	Status       *string
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a properties repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, property *models.Property) (*models.Property, error) {
	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		return nil, err
	}
	return property, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

func (r *repository) List(ctx context.Context, filters listFilters, params listParams) ([]models.Property, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).Model(&models.Property{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})
	if filters.City != nil {
		query = query.Where("LOWER(city) = LOWER(?)", *filters.City)
	}
	if filters.PropertyType != nil {
		query = query.Where("property_type = ?", *filters.PropertyType)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var properties []models.Property
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&properties).Error; err != nil {
		return nil, nil, err
	}

	if len(properties) > normalized {
		next := properties[normalized]
		properties = properties[:normalized]
		return properties, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return properties, nil, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ReplaceImages(ctx context.Context, propertyID uuid.UUID, images []models.PropertyImage) error {
	if err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Delete(&models.PropertyImage{}).Error; err != nil {
		return err
	}
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Property{}).Error
}
