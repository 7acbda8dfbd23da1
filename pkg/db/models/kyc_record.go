package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/pkg/enums"
)

// KYCRecord holds the outcome of one verification step for a user.
type KYCRecord struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:kyc_records_user_id_idx;uniqueIndex:kyc_records_user_step_key"`
	Step           enums.KYCStep       `gorm:"type:kyc_step;not null;uniqueIndex:kyc_records_user_step_key"`
	Status         enums.KYCStepStatus `gorm:"type:kyc_step_status;not null;default:'pending'"`
	DocumentNumber string              `gorm:"column:document_number;not null;default:''"`
	ProviderRef    *string             `gorm:"column:provider_ref"`
	FailureReason  *string             `gorm:"column:failure_reason"`
	VerifiedAt     *time.Time          `gorm:"column:verified_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
