package kyc

import (
	"time"

	"github.com/google/uuid"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
)

// SubmitStepInput carries one verification step submission.
type SubmitStepInput struct {
	Step           enums.KYCStep
	DocumentNumber string
	HolderName     string
}

// StepDTO is the stored outcome of one verification step.
type StepDTO struct {
	Step          enums.KYCStep       `json:"step"`
	Status        enums.KYCStepStatus `json:"status"`
	FailureReason *string             `json:"failure_reason,omitempty"`
	VerifiedAt    *time.Time          `json:"verified_at,omitempty"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// StatusDTO reports the derived overall status plus per-step outcomes.
type StatusDTO struct {
	UserID  uuid.UUID       `json:"user_id"`
	Overall enums.KYCStatus `json:"overall"`
	Steps   []StepDTO       `json:"steps"`
}

func toStepDTO(record *models.KYCRecord) StepDTO {
	return StepDTO{
		Step:          record.Step,
		Status:        record.Status,
		FailureReason: record.FailureReason,
		VerifiedAt:    record.VerifiedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
