package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID       `json:"id"`
	Phone        string          `json:"phone"`
	Email        *string         `json:"email,omitempty"`
	FullName     string          `json:"full_name"`
	Role         enums.UserRole  `json:"role"`
	KYCStatus    enums.KYCStatus `json:"kyc_status"`
	ReferralCode *string         `json:"referral_code,omitempty"`
	IsActive     bool            `json:"is_active"`
	LastLoginAt  *time.Time      `json:"last_login_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Phone        string
	Email        *string
	FullName     string
	Role         enums.UserRole
	PasswordHash *string
	ReferredBy   *uuid.UUID
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:           u.ID,
		Phone:        u.Phone,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		KYCStatus:    u.KYCStatus,
		ReferralCode: u.ReferralCode,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleInvestor
	}
	return &models.User{
		ID:           uuid.New(),
		Phone:        c.Phone,
		Email:        c.Email,
		FullName:     c.FullName,
		Role:         role,
		PasswordHash: c.PasswordHash,
		KYCStatus:    enums.KYCStatusPending,
		ReferredBy:   c.ReferredBy,
		IsActive:     true,
	}
}
