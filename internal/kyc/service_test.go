package kyc

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubVerifier struct {
	results map[enums.KYCStep]*VerificationResult
	err     error
}

func (s *stubVerifier) VerifyStep(ctx context.Context, req VerificationRequest) (*VerificationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if result, ok := s.results[req.Step]; ok {
		return result, nil
	}
	return &VerificationResult{Verified: true, ProviderRef: "prov_default"}, nil
}

type notifyCall struct {
	userID uuid.UUID
	ntype  enums.NotificationType
	title  string
}

type stubNotifier struct {
	calls []notifyCall
}

func (s *stubNotifier) Notify(ctx context.Context, tx *gorm.DB, userID uuid.UUID, ntype enums.NotificationType, title, message string) error {
	s.calls = append(s.calls, notifyCall{userID: userID, ntype: ntype, title: title})
	return nil
}

func setupKYCTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	records := `
CREATE TABLE IF NOT EXISTS kyc_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  step TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  document_number TEXT NOT NULL DEFAULT '',
  provider_ref TEXT,
  failure_reason TEXT,
  verified_at DATETIME,
  created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
  UNIQUE (user_id, step)
);`
	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  kyc_status TEXT NOT NULL DEFAULT 'pending',
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(records).Error)
	require.NoError(t, db.Exec(users).Error)
	return db
}

type kycFixture struct {
	svc      Service
	verifier *stubVerifier
	notifier *stubNotifier
	db       *gorm.DB
	userID   uuid.UUID
}

func newKYCFixture(t *testing.T) *kycFixture {
	t.Helper()
	db := setupKYCTestDB(t)
	userID := uuid.New()
	require.NoError(t, db.Exec("INSERT INTO users (id, kyc_status) VALUES (?, 'pending')", userID).Error)

	verifier := &stubVerifier{results: map[enums.KYCStep]*VerificationResult{}}
	notifier := &stubNotifier{}
	svc, err := NewService(NewRepository(db), gormTxRunner{db: db}, verifier, NewUserStatusWriter(), notifier)
	require.NoError(t, err)
	return &kycFixture{svc: svc, verifier: verifier, notifier: notifier, db: db, userID: userID}
}

func (f *kycFixture) userStatus(t *testing.T) string {
	t.Helper()
	var status string
	require.NoError(t, f.db.Raw("SELECT kyc_status FROM users WHERE id = ?", f.userID).Scan(&status).Error)
	return status
}

func TestSubmitFirstStepMovesToInProgress(t *testing.T) {
	f := newKYCFixture(t)

	status, err := f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{
		Step:           enums.KYCStepAadhaar,
		DocumentNumber: "123412341234",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusInProgress, status.Overall)
	require.Len(t, status.Steps, 1)
	assert.Equal(t, enums.KYCStepStatusVerified, status.Steps[0].Status)
	assert.Equal(t, "in_progress", f.userStatus(t))
	assert.Empty(t, f.notifier.calls)
}

func TestAllStepsVerifiedCompletesKYC(t *testing.T) {
	f := newKYCFixture(t)
	steps := []struct {
		step enums.KYCStep
		doc  string
	}{
		{enums.KYCStepAadhaar, "123412341234"},
		{enums.KYCStepPAN, "ABCDE1234F"},
		{enums.KYCStepBank, "00123456789"},
	}

	var status *StatusDTO
	var err error
	for _, s := range steps {
		status, err = f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{Step: s.step, DocumentNumber: s.doc})
		require.NoError(t, err)
	}

	assert.Equal(t, enums.KYCStatusVerified, status.Overall)
	assert.Equal(t, "verified", f.userStatus(t))
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, enums.NotificationTypeKYCUpdate, f.notifier.calls[0].ntype)
	assert.Equal(t, "KYC verified", f.notifier.calls[0].title)
}

func TestFailedStepRejectsAndRetrySucceeds(t *testing.T) {
	f := newKYCFixture(t)
	f.verifier.results[enums.KYCStepPAN] = &VerificationResult{Verified: false, FailureReason: "name mismatch"}

	status, err := f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{
		Step:           enums.KYCStepPAN,
		DocumentNumber: "ABCDE1234F",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusRejected, status.Overall)
	require.Len(t, status.Steps, 1)
	require.NotNil(t, status.Steps[0].FailureReason)
	assert.Equal(t, "name mismatch", *status.Steps[0].FailureReason)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, "KYC rejected", f.notifier.calls[0].title)

	// A corrected document can be resubmitted for the same step.
	f.verifier.results[enums.KYCStepPAN] = &VerificationResult{Verified: true, ProviderRef: "prov_2"}
	status, err = f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{
		Step:           enums.KYCStepPAN,
		DocumentNumber: "FGHIJ5678K",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusInProgress, status.Overall)
	assert.Equal(t, enums.KYCStepStatusVerified, status.Steps[0].Status)
	assert.Nil(t, status.Steps[0].FailureReason)
}

func TestVerifiedStepCannotBeResubmitted(t *testing.T) {
	f := newKYCFixture(t)
	_, err := f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{
		Step:           enums.KYCStepAadhaar,
		DocumentNumber: "123412341234",
	})
	require.NoError(t, err)

	_, err = f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{
		Step:           enums.KYCStepAadhaar,
		DocumentNumber: "123412341234",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestSubmitStepValidatesInput(t *testing.T) {
	f := newKYCFixture(t)

	_, err := f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{Step: "passport", DocumentNumber: "x"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = f.svc.SubmitStep(context.Background(), f.userID, SubmitStepInput{Step: enums.KYCStepPAN, DocumentNumber: "   "})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminOverride(t *testing.T) {
	f := newKYCFixture(t)

	status, err := f.svc.AdminOverride(context.Background(), f.userID, enums.KYCStatusVerified)
	require.NoError(t, err)
	assert.Equal(t, enums.KYCStatusVerified, status.Overall)
	assert.Equal(t, "verified", f.userStatus(t))
	require.Len(t, f.notifier.calls, 1)

	_, err = f.svc.AdminOverride(context.Background(), f.userID, enums.KYCStatusPending)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestAdminOverrideUnknownUser(t *testing.T) {
	f := newKYCFixture(t)
	_, err := f.svc.AdminOverride(context.Background(), uuid.New(), enums.KYCStatusRejected)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
