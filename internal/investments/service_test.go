package investments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

type stubInvestmentsRepo struct {
	inv    *models.Investment
	events []models.InvestmentEvent

	listByUser func(ctx context.Context, userID uuid.UUID, params listParams) ([]models.Investment, *pagination.Cursor, error)
	list       func(ctx context.Context, filters ListFilters, params listParams) ([]models.Investment, *pagination.Cursor, error)
}

func (s *stubInvestmentsRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubInvestmentsRepo) Create(ctx context.Context, inv *models.Investment) (*models.Investment, error) {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	s.inv = inv
	return inv, nil
}

func (s *stubInvestmentsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	if s.inv == nil || s.inv.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.inv, nil
}

func (s *stubInvestmentsRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	return s.FindByID(ctx, id)
}

func (s *stubInvestmentsRepo) ListByUser(ctx context.Context, userID uuid.UUID, params listParams) ([]models.Investment, *pagination.Cursor, error) {
	if s.listByUser != nil {
		return s.listByUser(ctx, userID, params)
	}
	return nil, nil, nil
}

func (s *stubInvestmentsRepo) List(ctx context.Context, filters ListFilters, params listParams) ([]models.Investment, *pagination.Cursor, error) {
	if s.list != nil {
		return s.list(ctx, filters, params)
	}
	return nil, nil, nil
}

func (s *stubInvestmentsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.inv == nil || s.inv.ID != id {
		return gorm.ErrRecordNotFound
	}
	for key, value := range updates {
		switch key {
		case "status":
			if v, ok := value.(enums.InvestmentStatus); ok {
				s.inv.Status = v
			}
		case "payment_status":
			if v, ok := value.(enums.PaymentStatus); ok {
				s.inv.PaymentStatus = v
			}
		case "payment_completed":
			if v, ok := value.(bool); ok {
				s.inv.PaymentCompleted = v
			}
		case "status_reason":
			if v, ok := value.(string); ok {
				s.inv.StatusReason = &v
			}
		case "status_changed_at":
			if v, ok := value.(time.Time); ok {
				s.inv.StatusChangedAt = &v
			}
		case "approved_at":
			if v, ok := value.(time.Time); ok {
				s.inv.ApprovedAt = &v
			}
		case "approved_by":
			if v, ok := value.(uuid.UUID); ok {
				s.inv.ApprovedBy = &v
			}
		}
	}
	return nil
}

func (s *stubInvestmentsRepo) CreateEvent(ctx context.Context, event *models.InvestmentEvent) error {
	s.events = append(s.events, *event)
	return nil
}

func (s *stubInvestmentsRepo) ListEvents(ctx context.Context, investmentID uuid.UUID) ([]models.InvestmentEvent, error) {
	return s.events, nil
}

func (s *stubInvestmentsRepo) FindPendingPaymentBefore(ctx context.Context, cutoff time.Time) ([]models.Investment, error) {
	return nil, nil
}

type unitCall struct {
	propertyID uuid.UUID
	units      int
}

type fundingCall struct {
	propertyID uuid.UUID
	amount     decimal.Decimal
}

type stubUnitInventory struct {
	reserves   []unitCall
	releases   []unitCall
	funded     []fundingCall
	reversed   []fundingCall
	reserveErr error
}

func (s *stubUnitInventory) Reserve(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error {
	if s.reserveErr != nil {
		return s.reserveErr
	}
	s.reserves = append(s.reserves, unitCall{propertyID: propertyID, units: units})
	return nil
}

func (s *stubUnitInventory) Release(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, units int) error {
	s.releases = append(s.releases, unitCall{propertyID: propertyID, units: units})
	return nil
}

func (s *stubUnitInventory) RecordFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error {
	s.funded = append(s.funded, fundingCall{propertyID: propertyID, amount: amount})
	return nil
}

func (s *stubUnitInventory) ReverseFunding(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, amount decimal.Decimal) error {
	s.reversed = append(s.reversed, fundingCall{propertyID: propertyID, amount: amount})
	return nil
}

type walletCall struct {
	userID uuid.UUID
	txType enums.WalletTransactionType
	amount decimal.Decimal
}

type stubWalletLedger struct {
	debits   []walletCall
	credits  []walletCall
	debitErr error
}

func (s *stubWalletLedger) Debit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, amount decimal.Decimal, description string) error {
	if s.debitErr != nil {
		return s.debitErr
	}
	s.debits = append(s.debits, walletCall{userID: userID, txType: enums.WalletTransactionTypeInvestmentDebit, amount: amount})
	return nil
}

func (s *stubWalletLedger) Credit(ctx context.Context, tx *gorm.DB, userID, investmentID uuid.UUID, txType enums.WalletTransactionType, amount decimal.Decimal, description string) error {
	s.credits = append(s.credits, walletCall{userID: userID, txType: txType, amount: amount})
	return nil
}

type stubCommissionRecorder struct {
	calls []uuid.UUID
	err   error
}

func (s *stubCommissionRecorder) RecordForInvestment(ctx context.Context, tx *gorm.DB, inv *models.Investment) error {
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, inv.ID)
	return nil
}

type stubNotifier struct {
	titles []string
}

func (s *stubNotifier) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error {
	s.titles = append(s.titles, title)
	return nil
}

type stubPropertyReader struct {
	property *models.Property
}

func (s *stubPropertyReader) FindForInvestment(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) (*models.Property, error) {
	if s.property == nil || s.property.ID != propertyID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.property, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type serviceFixture struct {
	svc         Service
	repo        *stubInvestmentsRepo
	inventory   *stubUnitInventory
	wallet      *stubWalletLedger
	commissions *stubCommissionRecorder
	notifier    *stubNotifier
	properties  *stubPropertyReader
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		repo:        &stubInvestmentsRepo{},
		inventory:   &stubUnitInventory{},
		wallet:      &stubWalletLedger{},
		commissions: &stubCommissionRecorder{},
		notifier:    &stubNotifier{},
		properties:  &stubPropertyReader{},
	}
	svc, err := NewService(f.repo, stubTxRunner{}, f.inventory, f.wallet, f.commissions, f.notifier, f.properties)
	if err != nil {
		t.Fatalf("service constructor failed: %v", err)
	}
	f.svc = svc
	return f
}

func seedInvestment(f *serviceFixture, status enums.InvestmentStatus) *models.Investment {
	inv := &models.Investment{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		PropertyID:     uuid.New(),
		UnitsCount:     4,
		Amount:         decimal.NewFromInt(4000),
		ExpectedReturn: decimal.NewFromInt(480),
		Status:         status,
		PaymentStatus:  enums.PaymentStatusPending,
	}
	if status == enums.InvestmentStatusPaymentApproved || status == enums.InvestmentStatusApproved {
		inv.PaymentStatus = enums.PaymentStatusVerified
	}
	f.repo.inv = inv
	return inv
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s got %v", code, err)
	}
}

func TestCreateInvestment(t *testing.T) {
	f := newServiceFixture(t)
	userID := uuid.New()
	f.properties.property = &models.Property{
		ID:                  uuid.New(),
		Status:              enums.PropertyStatusActive,
		PricePerUnit:        decimal.NewFromInt(1000),
		ExpectedAnnualYield: decimal.NewFromInt(12),
		TotalUnits:          100,
		AvailableUnits:      100,
	}

	code := " psx-123 "
	dto, err := f.svc.Create(context.Background(), userID, CreateInput{
		PropertyID:   f.properties.property.ID,
		UnitsCount:   5,
		ReferralCode: &code,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.InvestmentStatusPendingPayment {
		t.Fatalf("expected pending_payment got %s", dto.Status)
	}
	if !dto.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected amount 5000 got %s", dto.Amount)
	}
	if !dto.ExpectedReturn.Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected return 600 got %s", dto.ExpectedReturn)
	}
	if len(f.inventory.reserves) != 1 || f.inventory.reserves[0].units != 5 {
		t.Fatalf("expected one reservation of 5 units got %v", f.inventory.reserves)
	}
	if f.repo.inv.ReferralCode == nil || *f.repo.inv.ReferralCode != "PSX-123" {
		t.Fatalf("expected normalized referral code got %v", f.repo.inv.ReferralCode)
	}
	if len(dto.Progress) != 4 || !dto.Progress[0].Completed || dto.Progress[1].Completed {
		t.Fatalf("unexpected progress %v", dto.Progress)
	}
	if len(f.notifier.titles) != 1 {
		t.Fatalf("expected one notification got %v", f.notifier.titles)
	}
}

func TestCreateInvestmentRejectsInactiveProperty(t *testing.T) {
	f := newServiceFixture(t)
	f.properties.property = &models.Property{
		ID:           uuid.New(),
		Status:       enums.PropertyStatusFunded,
		PricePerUnit: decimal.NewFromInt(1000),
	}

	_, err := f.svc.Create(context.Background(), uuid.New(), CreateInput{
		PropertyID: f.properties.property.ID,
		UnitsCount: 1,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if len(f.inventory.reserves) != 0 {
		t.Fatal("expected no reservation")
	}
}

func TestCreateInvestmentValidatesUnits(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Create(context.Background(), uuid.New(), CreateInput{
		PropertyID: uuid.New(),
		UnitsCount: 0,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateInvestmentPropertyNotFound(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Create(context.Background(), uuid.New(), CreateInput{
		PropertyID: uuid.New(),
		UnitsCount: 1,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestPerformActionApprovePayment(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPendingPayment)
	actorID := uuid.New()

	dto, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionApprovePayment,
		ActorID:      actorID,
		ActorRole:    enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.InvestmentStatusPaymentApproved {
		t.Fatalf("expected payment_approved got %s", dto.Status)
	}
	if dto.PaymentStatus != enums.PaymentStatusVerified {
		t.Fatalf("expected verified payment got %s", dto.PaymentStatus)
	}
	if len(f.wallet.debits) != 1 || !f.wallet.debits[0].amount.Equal(inv.Amount) {
		t.Fatalf("expected wallet debit of %s got %v", inv.Amount, f.wallet.debits)
	}
	if len(f.inventory.funded) != 1 {
		t.Fatalf("expected funding record got %v", f.inventory.funded)
	}
	if len(f.repo.events) != 1 {
		t.Fatalf("expected one event got %d", len(f.repo.events))
	}
	event := f.repo.events[0]
	if event.FromStatus != enums.InvestmentStatusPendingPayment || event.ToStatus != enums.InvestmentStatusPaymentApproved {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.ActorID == nil || *event.ActorID != actorID {
		t.Fatal("expected actor recorded on event")
	}
}

func TestPerformActionReasonRequiredBeforeMutation(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPaymentApproved)
	blank := "   "

	_, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionReject,
		Reason:       &blank,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	expectCode(t, err, pkgerrors.CodeValidation)
	if inv.Status != enums.InvestmentStatusPaymentApproved {
		t.Fatalf("status must not change, got %s", inv.Status)
	}
	if len(f.wallet.credits) != 0 || len(f.repo.events) != 0 {
		t.Fatal("expected no side effects before reason validation")
	}
}

func TestPerformActionIllegalTransition(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPendingPayment)

	_, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionComplete,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
	if inv.Status != enums.InvestmentStatusPendingPayment {
		t.Fatalf("status must not change, got %s", inv.Status)
	}
	if len(f.repo.events) != 0 {
		t.Fatal("expected no event for rejected action")
	}
}

func TestPerformActionRejectRefunds(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPaymentApproved)
	reason := "payment reference mismatch"

	dto, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionReject,
		Reason:       &reason,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.InvestmentStatusRejected {
		t.Fatalf("expected rejected got %s", dto.Status)
	}
	if dto.PaymentStatus != enums.PaymentStatusRefunded {
		t.Fatalf("expected refunded got %s", dto.PaymentStatus)
	}
	if dto.StatusReason == nil || *dto.StatusReason != reason {
		t.Fatalf("expected reason recorded got %v", dto.StatusReason)
	}
	if len(f.wallet.credits) != 1 || f.wallet.credits[0].txType != enums.WalletTransactionTypeRefund {
		t.Fatalf("expected refund credit got %v", f.wallet.credits)
	}
	if len(f.inventory.releases) != 1 || f.inventory.releases[0].units != inv.UnitsCount {
		t.Fatalf("expected unit release got %v", f.inventory.releases)
	}
	if len(f.inventory.reversed) != 1 {
		t.Fatalf("expected funding reversal got %v", f.inventory.reversed)
	}
}

func TestPerformActionApproveRecordsCommission(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPaymentApproved)
	actorID := uuid.New()

	dto, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionApprove,
		ActorID:      actorID,
		ActorRole:    enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.InvestmentStatusApproved {
		t.Fatalf("expected approved got %s", dto.Status)
	}
	if dto.ApprovedAt == nil {
		t.Fatal("expected approved_at set")
	}
	if f.repo.inv.ApprovedBy == nil || *f.repo.inv.ApprovedBy != actorID {
		t.Fatal("expected approved_by recorded")
	}
	if len(f.commissions.calls) != 1 || f.commissions.calls[0] != inv.ID {
		t.Fatalf("expected commission recorded got %v", f.commissions.calls)
	}
}

func TestPerformActionCompleteCreditsPayout(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusApproved)

	dto, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionComplete,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.InvestmentStatusCompleted {
		t.Fatalf("expected completed got %s", dto.Status)
	}
	if !dto.PaymentCompleted {
		t.Fatal("expected payment_completed set")
	}
	payout := inv.Amount.Add(inv.ExpectedReturn)
	if len(f.wallet.credits) != 1 || f.wallet.credits[0].txType != enums.WalletTransactionTypePayout || !f.wallet.credits[0].amount.Equal(payout) {
		t.Fatalf("expected payout credit of %s got %v", payout, f.wallet.credits)
	}
	if len(dto.AvailableActions) != 0 {
		t.Fatalf("expected no further actions got %v", dto.AvailableActions)
	}

	_, err = f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionComplete,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	expectCode(t, err, pkgerrors.CodeStateConflict)
}

func TestPerformActionCancelPendingPaymentSkipsWallet(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPendingPayment)
	reason := "requested by investor"

	dto, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionCancel,
		Reason:       &reason,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if dto.Status != enums.InvestmentStatusCancelled {
		t.Fatalf("expected cancelled got %s", dto.Status)
	}
	if len(f.wallet.credits) != 0 || len(f.wallet.debits) != 0 {
		t.Fatal("expected no wallet movement before payment")
	}
	if len(f.inventory.releases) != 1 {
		t.Fatalf("expected unit release got %v", f.inventory.releases)
	}
}

func TestPerformActionRequiresAdmin(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPendingPayment)

	_, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: inv.ID,
		Action:       enums.InvestmentActionApprovePayment,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleInvestor,
	})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestPerformActionNotFound(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.PerformAction(context.Background(), ActionInput{
		InvestmentID: uuid.New(),
		Action:       enums.InvestmentActionApprovePayment,
		ActorID:      uuid.New(),
		ActorRole:    enums.UserRoleAdmin,
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestDetailOwnership(t *testing.T) {
	f := newServiceFixture(t)
	inv := seedInvestment(f, enums.InvestmentStatusPendingPayment)

	if _, err := f.svc.Detail(context.Background(), inv.UserID, enums.UserRoleInvestor, inv.ID); err != nil {
		t.Fatalf("owner should see detail, got %v", err)
	}
	if _, err := f.svc.Detail(context.Background(), uuid.New(), enums.UserRoleAdmin, inv.ID); err != nil {
		t.Fatalf("admin should see detail, got %v", err)
	}
	_, err := f.svc.Detail(context.Background(), uuid.New(), enums.UserRoleInvestor, inv.ID)
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestMyInvestmentsInvalidCursor(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.MyInvestments(context.Background(), uuid.New(), pagination.Params{Cursor: "badcursor"})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestMyInvestmentsPaginates(t *testing.T) {
	f := newServiceFixture(t)
	userID := uuid.New()
	next := &pagination.Cursor{CreatedAt: time.Now().UTC(), ID: uuid.New()}
	f.repo.listByUser = func(ctx context.Context, gotUser uuid.UUID, params listParams) ([]models.Investment, *pagination.Cursor, error) {
		if gotUser != userID {
			t.Fatalf("unexpected user %s", gotUser)
		}
		return []models.Investment{{
			ID:     uuid.New(),
			UserID: userID,
			Status: enums.InvestmentStatusPendingPayment,
		}}, next, nil
	}

	list, err := f.svc.MyInvestments(context.Background(), userID, pagination.Params{Limit: 1})
	if err != nil {
		t.Fatalf("expected success got %v", err)
	}
	if len(list.Investments) != 1 {
		t.Fatalf("expected one investment got %d", len(list.Investments))
	}
	cursor, err := pagination.ParseCursor(list.NextCursor)
	if err != nil || cursor == nil {
		t.Fatalf("expected decodable cursor %q got %v", list.NextCursor, err)
	}
	if cursor.ID != next.ID || !cursor.CreatedAt.Equal(next.CreatedAt) {
		t.Fatalf("cursor mismatch got %+v want %+v", cursor, next)
	}
}
