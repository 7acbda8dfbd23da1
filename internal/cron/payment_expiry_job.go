package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/internal/investments"
	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/logger"
)

const defaultPendingPaymentTTL = 72 * time.Hour

const paymentExpiryReason = "payment window expired"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PaymentExpiryJobParams configure the pending payment expiry job.
type PaymentExpiryJobParams struct {
	Logger                   *logger.Logger
	DB                       txRunner
	PendingReader            pendingInvestmentReader
	Inventory                investments.UnitInventory
	Notifier                 investmentNotifier
	TTL                      time.Duration
	TransactionalRepoFactory investmentRepoFactory
}

type pendingInvestmentReader interface {
	FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Investment, error)
}

type investmentNotifier interface {
	Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error
}

type transactionalInvestmentRepo interface {
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateEvent(ctx context.Context, event *models.InvestmentEvent) error
}

type investmentRepoFactory func(tx *gorm.DB) transactionalInvestmentRepo

func defaultInvestmentRepo(tx *gorm.DB) transactionalInvestmentRepo {
	return investments.NewRepository(tx)
}

// NewPaymentExpiryJob builds the cron job that cancels investments whose
// payment window has lapsed and returns their reserved units to the pool.
func NewPaymentExpiryJob(params PaymentExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.PendingReader == nil {
		return nil, fmt.Errorf("pending investments reader required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("unit inventory required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	ttl := params.TTL
	if ttl <= 0 {
		ttl = defaultPendingPaymentTTL
	}
	repoFactory := params.TransactionalRepoFactory
	if repoFactory == nil {
		repoFactory = defaultInvestmentRepo
	}
	return &paymentExpiryJob{
		logg:          params.Logger,
		db:            params.DB,
		pendingReader: params.PendingReader,
		inventory:     params.Inventory,
		notifier:      params.Notifier,
		ttl:           ttl,
		repoFactory:   repoFactory,
		now:           time.Now,
	}, nil
}

type paymentExpiryJob struct {
	logg          *logger.Logger
	db            txRunner
	pendingReader pendingInvestmentReader
	inventory     investments.UnitInventory
	notifier      investmentNotifier
	ttl           time.Duration
	repoFactory   investmentRepoFactory
	now           func() time.Time
}

func (j *paymentExpiryJob) Name() string { return "payment-expiry" }

func (j *paymentExpiryJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.ttl)
	stale, err := j.pendingReader.FindPendingPaymentBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("query stale pending investments: %w", err)
	}
	var errs []error
	expired := 0
	for _, inv := range stale {
		if err := j.expireInvestment(ctx, inv.ID); err != nil {
			errs = append(errs, fmt.Errorf("expire investment %s: %w", inv.ID, err))
			continue
		}
		expired++
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":  cutoff,
		"found":   len(stale),
		"expired": expired,
	})
	j.logg.Info(logCtx, "payment expiry loop complete")
	return multierr.Combine(errs...)
}

func (j *paymentExpiryJob) expireInvestment(ctx context.Context, investmentID uuid.UUID) error {
	return j.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := j.repoFactory(tx)
		current, err := repo.FindByIDForUpdate(ctx, investmentID)
		if err != nil {
			return err
		}
		// An admin may have acted between the scan and this lock.
		if current.Status != enums.InvestmentStatusPendingPayment {
			return nil
		}
		if err := j.inventory.Release(ctx, tx, current.PropertyID, current.UnitsCount); err != nil {
			return err
		}
		now := j.now().UTC()
		updates := map[string]any{
			"status":            enums.InvestmentStatusCancelled,
			"status_reason":     paymentExpiryReason,
			"status_changed_at": now,
		}
		if err := repo.Update(ctx, current.ID, updates); err != nil {
			return err
		}
		reason := paymentExpiryReason
		event := &models.InvestmentEvent{
			ID:           uuid.New(),
			InvestmentID: current.ID,
			ActorID:      nil,
			Action:       enums.InvestmentActionCancel,
			FromStatus:   enums.InvestmentStatusPendingPayment,
			ToStatus:     enums.InvestmentStatusCancelled,
			Reason:       &reason,
		}
		if err := repo.CreateEvent(ctx, event); err != nil {
			return err
		}
		return j.notifier.Notify(ctx, tx, current.UserID, enums.NotificationTypeInvestmentUpdate,
			"Investment cancelled", "Your investment was cancelled because the payment window expired.")
	})
}
