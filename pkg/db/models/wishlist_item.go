package models

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a saved property.
type WishlistItem struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:wishlist_items_user_id_idx;uniqueIndex:wishlist_items_user_property_key"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index:wishlist_items_property_id_idx;uniqueIndex:wishlist_items_user_property_key"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
