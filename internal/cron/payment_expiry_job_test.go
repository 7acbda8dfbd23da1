package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	"github.com/propshare/propshare-backend/pkg/logger"
)

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakePendingReader struct {
	lastCutoff  time.Time
	investments []models.Investment
	err         error
}

func (f *fakePendingReader) FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Investment, error) {
	f.lastCutoff = cutoff
	if f.err != nil {
		return nil, f.err
	}
	return f.investments, nil
}

type releaseCall struct {
	propertyID uuid.UUID
	units      int
}

type fakeUnitInventory struct {
	releases []releaseCall
}

func (f *fakeUnitInventory) Reserve(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error {
	return errors.New("unexpected reserve")
}

func (f *fakeUnitInventory) Release(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error {
	f.releases = append(f.releases, releaseCall{propertyID: propertyID, units: units})
	return nil
}

func (f *fakeUnitInventory) RecordFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error {
	return errors.New("unexpected funding")
}

func (f *fakeUnitInventory) ReverseFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error {
	return errors.New("unexpected funding reversal")
}

type expiryNotifyCall struct {
	userID uuid.UUID
	ntype  enums.NotificationType
	title  string
}

type fakeInvestmentNotifier struct {
	calls []expiryNotifyCall
}

func (f *fakeInvestmentNotifier) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error {
	f.calls = append(f.calls, expiryNotifyCall{userID: userID, ntype: ntype, title: title})
	return nil
}

type fakeInvestmentRepo struct {
	current *models.Investment
	updates []map[string]any
	events  []models.InvestmentEvent
}

func (f *fakeInvestmentRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	if f.current == nil || f.current.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.current, nil
}

func (f *fakeInvestmentRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	f.updates = append(f.updates, updates)
	return nil
}

func (f *fakeInvestmentRepo) CreateEvent(ctx context.Context, event *models.InvestmentEvent) error {
	f.events = append(f.events, *event)
	return nil
}

type paymentExpiryJobTestHelper struct {
	job       *paymentExpiryJob
	inventory *fakeUnitInventory
	notifier  *fakeInvestmentNotifier
	repo      *fakeInvestmentRepo
}

func newPaymentExpiryJobTest(t *testing.T, reader *fakePendingReader, repo *fakeInvestmentRepo) *paymentExpiryJobTestHelper {
	t.Helper()
	inventory := &fakeUnitInventory{}
	notifier := &fakeInvestmentNotifier{}
	jobIface, err := NewPaymentExpiryJob(PaymentExpiryJobParams{
		Logger:        logger.New(logger.Options{ServiceName: "test"}),
		DB:            fakeTxRunner{},
		PendingReader: reader,
		Inventory:     inventory,
		Notifier:      notifier,
		TransactionalRepoFactory: func(tx *gorm.DB) transactionalInvestmentRepo {
			return repo
		},
	})
	if err != nil {
		t.Fatalf("NewPaymentExpiryJob: %v", err)
	}
	job, ok := jobIface.(*paymentExpiryJob)
	if !ok {
		t.Fatalf("expected paymentExpiryJob, got %T", jobIface)
	}
	return &paymentExpiryJobTestHelper{job: job, inventory: inventory, notifier: notifier, repo: repo}
}

func TestPaymentExpiryJob_cancelsStaleInvestment(t *testing.T) {
	now := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	inv := models.Investment{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		PropertyID: uuid.New(),
		UnitsCount: 4,
		Status:     enums.InvestmentStatusPendingPayment,
	}
	reader := &fakePendingReader{investments: []models.Investment{inv}}
	repo := &fakeInvestmentRepo{current: &inv}
	helper := newPaymentExpiryJobTest(t, reader, repo)
	helper.job.now = func() time.Time { return now }

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	expectedCutoff := now.Add(-defaultPendingPaymentTTL)
	if !reader.lastCutoff.Equal(expectedCutoff) {
		t.Fatalf("expected cutoff %s, got %s", expectedCutoff, reader.lastCutoff)
	}
	if len(helper.inventory.releases) != 1 {
		t.Fatalf("expected 1 release, got %d", len(helper.inventory.releases))
	}
	release := helper.inventory.releases[0]
	if release.propertyID != inv.PropertyID || release.units != 4 {
		t.Fatalf("unexpected release: %+v", release)
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected 1 update, got %d", len(repo.updates))
	}
	update := repo.updates[0]
	if update["status"] != enums.InvestmentStatusCancelled {
		t.Fatalf("expected cancelled status, got %v", update["status"])
	}
	if update["status_reason"] != paymentExpiryReason {
		t.Fatalf("unexpected reason: %v", update["status_reason"])
	}
	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	event := repo.events[0]
	if event.ActorID != nil {
		t.Fatal("expected system event without actor")
	}
	if event.Action != enums.InvestmentActionCancel {
		t.Fatalf("unexpected action: %s", event.Action)
	}
	if event.FromStatus != enums.InvestmentStatusPendingPayment || event.ToStatus != enums.InvestmentStatusCancelled {
		t.Fatalf("unexpected transition: %s -> %s", event.FromStatus, event.ToStatus)
	}
	if len(helper.notifier.calls) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(helper.notifier.calls))
	}
	notify := helper.notifier.calls[0]
	if notify.userID != inv.UserID || notify.ntype != enums.NotificationTypeInvestmentUpdate {
		t.Fatalf("unexpected notification: %+v", notify)
	}
}

func TestPaymentExpiryJob_skipsInvestmentThatMovedOn(t *testing.T) {
	inv := models.Investment{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		PropertyID: uuid.New(),
		UnitsCount: 2,
		Status:     enums.InvestmentStatusPendingPayment,
	}
	reader := &fakePendingReader{investments: []models.Investment{inv}}
	// The admin approved the payment after the scan picked it up.
	moved := inv
	moved.Status = enums.InvestmentStatusPaymentApproved
	repo := &fakeInvestmentRepo{current: &moved}
	helper := newPaymentExpiryJobTest(t, reader, repo)

	if err := helper.job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(helper.inventory.releases) != 0 {
		t.Fatalf("expected no releases, got %d", len(helper.inventory.releases))
	}
	if len(repo.updates) != 0 {
		t.Fatalf("expected no updates, got %d", len(repo.updates))
	}
	if len(helper.notifier.calls) != 0 {
		t.Fatalf("expected no notifications, got %d", len(helper.notifier.calls))
	}
}

func TestPaymentExpiryJob_continuesPastFailedRow(t *testing.T) {
	first := models.Investment{ID: uuid.New(), UserID: uuid.New(), PropertyID: uuid.New(), UnitsCount: 1, Status: enums.InvestmentStatusPendingPayment}
	second := models.Investment{ID: uuid.New(), UserID: uuid.New(), PropertyID: uuid.New(), UnitsCount: 3, Status: enums.InvestmentStatusPendingPayment}
	reader := &fakePendingReader{investments: []models.Investment{first, second}}
	// The repo only knows the second row, so the first fails its lookup.
	repo := &fakeInvestmentRepo{current: &second}
	helper := newPaymentExpiryJobTest(t, reader, repo)

	err := helper.job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error for the missing row")
	}
	if len(repo.updates) != 1 {
		t.Fatalf("expected the second row to still expire, got %d updates", len(repo.updates))
	}
}

func TestPaymentExpiryJob_propagatesReaderError(t *testing.T) {
	reader := &fakePendingReader{err: errors.New("boom")}
	helper := newPaymentExpiryJobTest(t, reader, &fakeInvestmentRepo{})

	if err := helper.job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
