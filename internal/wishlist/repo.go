package wishlist

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

const thumbnailSubquery = "(SELECT pi.url FROM property_images pi WHERE pi.property_id = p.id ORDER BY pi.position ASC LIMIT 1)"

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// AddItem inserts a wishlist entry and ignores duplicates.
func (r *Repository) AddItem(ctx context.Context, userID, propertyID uuid.UUID) error {
	if userID == uuid.Nil || propertyID == uuid.Nil {
		return gorm.ErrInvalidValue
	}
	return r.db.WithContext(ctx).
		Exec(`INSERT INTO wishlist_items (id, user_id, property_id) VALUES (?, ?, ?) ON CONFLICT (user_id, property_id) DO NOTHING`,
			uuid.New(), userID, propertyID).
		Error
}

// RemoveItem deletes the saved property if it exists.
func (r *Repository) RemoveItem(ctx context.Context, userID, propertyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.WishlistItem{}).
		Error
}

// ListItems returns a cursor paginated page of saved properties.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, params pagination.Params) (ListDTO, error) {
	normalized := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	cursor, err := pagination.ParseCursor(strings.TrimSpace(params.Cursor))
	if err != nil {
		return ListDTO{}, err
	}

	selectColumns := []string{
		"wi.id AS wishlist_id",
		"wi.created_at AS wishlist_created_at",
		"p.id AS property_id",
		"p.title",
		"p.city",
		"p.locality",
		"p.property_type",
		"p.status",
		"p.price_per_unit",
		"p.expected_annual_yield",
		"p.available_units",
		thumbnailSubquery + " AS thumbnail_url",
	}

	query := r.db.WithContext(ctx).
		Table("wishlist_items wi").
		Select(strings.Join(selectColumns, ", ")).
		Joins("JOIN properties p ON p.id = wi.property_id").
		Where("wi.user_id = ?", userID)
	if cursor != nil {
		query = query.Where("(wi.created_at, wi.id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	query = query.Order("wi.created_at DESC, wi.id DESC").Limit(limitWithBuffer)

	var records []wishlistPropertyRecord
	if err := query.Scan(&records).Error; err != nil {
		return ListDTO{}, err
	}

	list := ListDTO{}
	if len(records) > normalized {
		next := records[normalized]
		records = records[:normalized]
		encoded := pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: next.WishlistCreatedAt,
			ID:        next.WishlistID,
		})
		list.NextCursor = &encoded
	}

	list.Items = make([]ItemDTO, 0, len(records))
	for _, record := range records {
		list.Items = append(list.Items, record.toDTO())
	}
	return list, nil
}

type wishlistPropertyRecord struct {
	WishlistID          uuid.UUID            `gorm:"column:wishlist_id"`
	WishlistCreatedAt   time.Time            `gorm:"column:wishlist_created_at"`
	PropertyID          uuid.UUID            `gorm:"column:property_id"`
	Title               string               `gorm:"column:title"`
	City                string               `gorm:"column:city"`
	Locality            string               `gorm:"column:locality"`
	PropertyType        enums.PropertyType   `gorm:"column:property_type"`
	Status              enums.PropertyStatus `gorm:"column:status"`
	PricePerUnit        decimal.Decimal      `gorm:"column:price_per_unit"`
	ExpectedAnnualYield decimal.Decimal      `gorm:"column:expected_annual_yield"`
	AvailableUnits      int                  `gorm:"column:available_units"`
	ThumbnailURL        sql.NullString       `gorm:"column:thumbnail_url"`
}

func (r wishlistPropertyRecord) toDTO() ItemDTO {
	var thumbnail *string
	if r.ThumbnailURL.Valid {
		url := r.ThumbnailURL.String
		thumbnail = &url
	}
	return ItemDTO{
		Property: PropertyCard{
			ID:                  r.PropertyID,
			Title:               r.Title,
			City:                r.City,
			Locality:            r.Locality,
			PropertyType:        r.PropertyType,
			Status:              r.Status,
			PricePerUnit:        r.PricePerUnit,
			ExpectedAnnualYield: r.ExpectedAnnualYield,
			AvailableUnits:      r.AvailableUnits,
			ThumbnailURL:        thumbnail,
		},
		SavedAt: r.WishlistCreatedAt,
	}
}
