package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// User represents the canonical identity entity. Investors and channel
// partners authenticate by phone OTP; admins carry a password hash.
type User struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Phone        string          `gorm:"type:text;not null;uniqueIndex"`
	Email        *string         `gorm:"type:text"`
	FullName     string          `gorm:"column:full_name;not null;default:''"`
	Role         enums.UserRole  `gorm:"type:user_role;not null;default:'investor'"`
	PasswordHash *string         `gorm:"column:password_hash"`
	KYCStatus    enums.KYCStatus `gorm:"column:kyc_status;type:kyc_status;not null;default:'pending'"`
	ReferralCode *string         `gorm:"column:referral_code;uniqueIndex"`
	ReferredBy   *uuid.UUID      `gorm:"column:referred_by;type:uuid"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	LastLoginAt  *time.Time      `gorm:"column:last_login_at"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
