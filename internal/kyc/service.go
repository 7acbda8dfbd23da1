package kyc

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UserStatusWriter persists the derived overall status on the user row.
type UserStatusWriter interface {
	SetKYCStatus(ctx context.Context, tx *gorm.DB, userID uuid.UUID, status enums.KYCStatus) error
}

// Notifier persists an in-app notification for the user.
type Notifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error
}

// Service exposes KYC verification operations.
type Service interface {
	SubmitStep(ctx context.Context, userID uuid.UUID, input SubmitStepInput) (*StatusDTO, error)
	Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error)
	AdminOverride(ctx context.Context, userID uuid.UUID, status enums.KYCStatus) (*StatusDTO, error)
}

type service struct {
	repo       Repository
	tx         txRunner
	verifier   Verifier
	userStatus UserStatusWriter
	notifier   Notifier
}

// NewService constructs a KYC service with the provided dependencies.
func NewService(repo Repository, tx txRunner, verifier Verifier, userStatus UserStatusWriter, notifier Notifier) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("kyc repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	if userStatus == nil {
		return nil, fmt.Errorf("user status writer is required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}
	return &service{repo: repo, tx: tx, verifier: verifier, userStatus: userStatus, notifier: notifier}, nil
}

func (s *service) SubmitStep(ctx context.Context, userID uuid.UUID, input SubmitStepInput) (*StatusDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Step.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown verification step")
	}
	documentNumber := strings.TrimSpace(input.DocumentNumber)
	if documentNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "document number is required")
	}

	existing, err := s.repo.FindByUserAndStep(ctx, userID, input.Step)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load kyc record")
	}
	if existing != nil && existing.Status == enums.KYCStepStatusVerified {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s step is already verified", input.Step))
	}

	// The provider call happens outside the transaction; only its outcome is
	// written, so a slow provider never holds row locks.
	result, err := s.verifier.VerifyStep(ctx, VerificationRequest{
		Step:           input.Step,
		DocumentNumber: documentNumber,
		HolderName:     strings.TrimSpace(input.HolderName),
	})
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.persistResult(ctx, repo, existing, userID, input.Step, documentNumber, result); err != nil {
			return err
		}

		records, err := repo.ListByUser(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list kyc records")
		}
		overall := deriveOverall(records)
		if err := s.userStatus.SetKYCStatus(ctx, tx, userID, overall); err != nil {
			return err
		}
		if overall == enums.KYCStatusVerified || overall == enums.KYCStatusRejected {
			title, message := overallNotification(overall)
			if err := s.notifier.Notify(ctx, tx, userID, enums.NotificationTypeKYCUpdate, title, message); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Status(ctx, userID)
}

func (s *service) Status(ctx context.Context, userID uuid.UUID) (*StatusDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list kyc records")
	}

	status := &StatusDTO{
		UserID:  userID,
		Overall: deriveOverall(records),
		Steps:   make([]StepDTO, 0, len(records)),
	}
	for i := range records {
		status.Steps = append(status.Steps, toStepDTO(&records[i]))
	}
	return status, nil
}

func (s *service) AdminOverride(ctx context.Context, userID uuid.UUID, status enums.KYCStatus) (*StatusDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if status != enums.KYCStatusVerified && status != enums.KYCStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "override status must be verified or rejected")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.userStatus.SetKYCStatus(ctx, tx, userID, status); err != nil {
			return err
		}
		title, message := overallNotification(status)
		return s.notifier.Notify(ctx, tx, userID, enums.NotificationTypeKYCUpdate, title, message)
	})
	if err != nil {
		return nil, err
	}

	result, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	// The override wins over the derived value.
	result.Overall = status
	return result, nil
}

func (s *service) persistResult(ctx context.Context, repo Repository, existing *models.KYCRecord, userID uuid.UUID, step enums.KYCStep, documentNumber string, result *VerificationResult) error {
	status := enums.KYCStepStatusFailed
	var verifiedAt *time.Time
	var failureReason *string
	var providerRef *string
	if result.Verified {
		status = enums.KYCStepStatusVerified
		now := time.Now().UTC()
		verifiedAt = &now
	} else if result.FailureReason != "" {
		reason := result.FailureReason
		failureReason = &reason
	}
	if result.ProviderRef != "" {
		ref := result.ProviderRef
		providerRef = &ref
	}

	if existing == nil {
		record := &models.KYCRecord{
			ID:             uuid.New(),
			UserID:         userID,
			Step:           step,
			Status:         status,
			DocumentNumber: documentNumber,
			ProviderRef:    providerRef,
			FailureReason:  failureReason,
			VerifiedAt:     verifiedAt,
		}
		if err := repo.Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create kyc record")
		}
		return nil
	}

	updates := map[string]any{
		"status":          status,
		"document_number": documentNumber,
		"provider_ref":    providerRef,
		"failure_reason":  failureReason,
		"verified_at":     verifiedAt,
	}
	if err := repo.Update(ctx, existing.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update kyc record")
	}
	return nil
}

// deriveOverall folds the step outcomes into the user level status: any failed
// step rejects, all three steps verified verifies, any progress otherwise is
// in_progress.
func deriveOverall(records []models.KYCRecord) enums.KYCStatus {
	if len(records) == 0 {
		return enums.KYCStatusPending
	}
	verified := 0
	for _, record := range records {
		switch record.Status {
		case enums.KYCStepStatusFailed:
			return enums.KYCStatusRejected
		case enums.KYCStepStatusVerified:
			verified++
		}
	}
	if verified == 3 {
		return enums.KYCStatusVerified
	}
	return enums.KYCStatusInProgress
}

func overallNotification(status enums.KYCStatus) (string, string) {
	if status == enums.KYCStatusVerified {
		return "KYC verified", "Your identity verification is complete. You can now invest."
	}
	return "KYC rejected", "Your identity verification was rejected. Please contact support."
}
