package investments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

func setupInvestmentsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	properties := `
CREATE TABLE IF NOT EXISTS properties (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL,
  locality TEXT NOT NULL DEFAULT '',
  property_type TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'draft',
  total_units INTEGER NOT NULL,
  available_units INTEGER NOT NULL,
  price_per_unit NUMERIC NOT NULL,
  expected_annual_yield NUMERIC NOT NULL DEFAULT 0,
  funding_target NUMERIC NOT NULL DEFAULT 0,
  funding_raised NUMERIC NOT NULL DEFAULT 0,
  amenities TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	investments := `
CREATE TABLE IF NOT EXISTS investments (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  property_id TEXT NOT NULL,
  units_count INTEGER NOT NULL,
  amount NUMERIC NOT NULL,
  price_per_unit_at_investment NUMERIC NOT NULL,
  expected_return NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending_payment',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_completed INTEGER NOT NULL DEFAULT 0,
  referral_code TEXT,
  status_reason TEXT,
  status_changed_at DATETIME,
  approved_at DATETIME,
  approved_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	events := `
CREATE TABLE IF NOT EXISTS investment_events (
  id TEXT PRIMARY KEY,
  investment_id TEXT NOT NULL,
  actor_id TEXT,
  action TEXT NOT NULL,
  from_status TEXT NOT NULL,
  to_status TEXT NOT NULL,
  reason TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(properties).Error)
	require.NoError(t, db.Exec(investments).Error)
	require.NoError(t, db.Exec(events).Error)
	return db
}

func createTestProperty(t *testing.T, db *gorm.DB, available int) *models.Property {
	t.Helper()

	property := &models.Property{
		ID:                  uuid.New(),
		Title:               "Skyline Residency",
		City:                "Pune",
		PropertyType:        enums.PropertyTypeResidential,
		Status:              enums.PropertyStatusActive,
		TotalUnits:          100,
		AvailableUnits:      available,
		PricePerUnit:        decimal.NewFromInt(1000),
		ExpectedAnnualYield: decimal.NewFromInt(12),
		FundingTarget:       decimal.NewFromInt(100000),
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func createTestInvestment(t *testing.T, db *gorm.DB, userID uuid.UUID, property *models.Property, created time.Time, status enums.InvestmentStatus) *models.Investment {
	t.Helper()

	inv := &models.Investment{
		ID:                       uuid.New(),
		UserID:                   userID,
		PropertyID:               property.ID,
		UnitsCount:               2,
		Amount:                   decimal.NewFromInt(2000),
		PricePerUnitAtInvestment: property.PricePerUnit,
		ExpectedReturn:           decimal.NewFromInt(240),
		Status:                   status,
		PaymentStatus:            enums.PaymentStatusPending,
		CreatedAt:                created,
		UpdatedAt:                created,
	}
	require.NoError(t, db.Create(inv).Error)
	return inv
}

func TestInvestmentsRepoFindByID(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	repo := NewRepository(db)
	property := createTestProperty(t, db, 50)
	userID := uuid.New()
	inv := createTestInvestment(t, db, userID, property, time.Now().UTC(), enums.InvestmentStatusPendingPayment)

	found, err := repo.FindByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, found.ID)
	require.NotNil(t, found.Property)
	assert.Equal(t, property.Title, found.Property.Title)

	_, err = repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestInvestmentsRepoListByUserPaginates(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	repo := NewRepository(db)
	property := createTestProperty(t, db, 50)
	userID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		createTestInvestment(t, db, userID, property, base.Add(time.Duration(i)*time.Minute), enums.InvestmentStatusPendingPayment)
	}
	createTestInvestment(t, db, uuid.New(), property, base, enums.InvestmentStatusPendingPayment)

	page, cursor, err := repo.ListByUser(context.Background(), userID, listParams{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, cursor)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	rest, cursor, err := repo.ListByUser(context.Background(), userID, listParams{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Nil(t, cursor)
	assert.Equal(t, userID, rest[0].UserID)
}

func TestInvestmentsRepoListFilters(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	repo := NewRepository(db)
	property := createTestProperty(t, db, 50)
	other := createTestProperty(t, db, 10)
	userID := uuid.New()

	now := time.Now().UTC()
	createTestInvestment(t, db, userID, property, now.Add(-2*time.Minute), enums.InvestmentStatusPendingPayment)
	approved := createTestInvestment(t, db, userID, property, now.Add(-time.Minute), enums.InvestmentStatusApproved)
	createTestInvestment(t, db, uuid.New(), other, now, enums.InvestmentStatusApproved)

	status := enums.InvestmentStatusApproved
	page, _, err := repo.List(context.Background(), ListFilters{Status: &status, PropertyID: &property.ID}, listParams{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, approved.ID, page[0].ID)

	from := now.Add(-90 * time.Second)
	page, _, err = repo.List(context.Background(), ListFilters{UserID: &userID, DateFrom: &from}, listParams{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, approved.ID, page[0].ID)
}

func TestInvestmentsRepoUpdateAndEvents(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	repo := NewRepository(db)
	property := createTestProperty(t, db, 50)
	inv := createTestInvestment(t, db, uuid.New(), property, time.Now().UTC(), enums.InvestmentStatusPendingPayment)

	actorID := uuid.New()
	require.NoError(t, repo.Update(context.Background(), inv.ID, map[string]any{
		"status":         enums.InvestmentStatusPaymentApproved,
		"payment_status": enums.PaymentStatusVerified,
	}))
	require.NoError(t, repo.CreateEvent(context.Background(), &models.InvestmentEvent{
		ID:           uuid.New(),
		InvestmentID: inv.ID,
		ActorID:      &actorID,
		Action:       enums.InvestmentActionApprovePayment,
		FromStatus:   enums.InvestmentStatusPendingPayment,
		ToStatus:     enums.InvestmentStatusPaymentApproved,
	}))

	found, err := repo.FindByID(context.Background(), inv.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.InvestmentStatusPaymentApproved, found.Status)
	assert.Equal(t, enums.PaymentStatusVerified, found.PaymentStatus)

	events, err := repo.ListEvents(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, enums.InvestmentActionApprovePayment, events[0].Action)
}

func TestInvestmentsRepoFindPendingPaymentBefore(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	repo := NewRepository(db)
	property := createTestProperty(t, db, 50)

	now := time.Now().UTC()
	stale := createTestInvestment(t, db, uuid.New(), property, now.Add(-80*time.Hour), enums.InvestmentStatusPendingPayment)
	createTestInvestment(t, db, uuid.New(), property, now.Add(-time.Hour), enums.InvestmentStatusPendingPayment)
	createTestInvestment(t, db, uuid.New(), property, now.Add(-80*time.Hour), enums.InvestmentStatusApproved)

	expired, err := repo.FindPendingPaymentBefore(context.Background(), now.Add(-72*time.Hour))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)
}

func TestUnitInventoryReserveAndRelease(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	inventory := NewUnitInventory()
	property := createTestProperty(t, db, 5)

	require.NoError(t, inventory.Reserve(context.Background(), db, property.ID, 3))

	var available int
	require.NoError(t, db.Raw("SELECT available_units FROM properties WHERE id = ?", property.ID).Scan(&available).Error)
	assert.Equal(t, 2, available)

	err := inventory.Reserve(context.Background(), db, property.ID, 3)
	expectCode(t, err, pkgerrors.CodeStateConflict)

	require.NoError(t, inventory.Release(context.Background(), db, property.ID, 3))
	require.NoError(t, db.Raw("SELECT available_units FROM properties WHERE id = ?", property.ID).Scan(&available).Error)
	assert.Equal(t, 5, available)
}

func TestUnitInventoryFunding(t *testing.T) {
	db := setupInvestmentsTestDB(t)
	inventory := NewUnitInventory()
	property := createTestProperty(t, db, 5)

	require.NoError(t, inventory.RecordFunding(context.Background(), db, property.ID, decimal.NewFromInt(3000)))
	require.NoError(t, inventory.ReverseFunding(context.Background(), db, property.ID, decimal.NewFromInt(1000)))

	var raised decimal.Decimal
	require.NoError(t, db.Raw("SELECT funding_raised FROM properties WHERE id = ?", property.ID).Scan(&raised).Error)
	assert.True(t, raised.Equal(decimal.NewFromInt(2000)), "got %s", raised)
}
