package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/internal/users"
	pkgAuth "github.com/propshare/propshare-backend/pkg/auth"
	"github.com/propshare/propshare-backend/pkg/config"
	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/security"
)

type stubUserRepo struct {
	byPhone map[string]*models.User
	byEmail map[string]*models.User
	created []*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byPhone: map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byPhone[user.Phone] = user
	if user.Email != nil {
		s.byEmail[*user.Email] = user
	}
}

func (s *stubUserRepo) Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	s.add(user)
	s.created = append(s.created, user)
	return user, nil
}

func (s *stubUserRepo) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	if user, ok := s.byPhone[phone]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.byPhone {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return nil
}

type stubSessionManager struct {
	refreshToken string
	revoked      []string
	rotateErr    error
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	if provided != s.refreshToken {
		return "", "", fmt.Errorf("unexpected token")
	}
	return "rotated-access-id", "rotated-refresh-token", nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type stubOTPStore struct {
	values   map[string]string
	counters map[string]int64
	allowed  bool
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{
		values:   map[string]string{},
		counters: map[string]int64{},
		allowed:  true,
	}
}

func (s *stubOTPStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.values[key] = fmt.Sprint(value)
	return nil
}

func (s *stubOTPStore) Get(ctx context.Context, key string) (string, error) {
	if value, ok := s.values[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("key not found")
}

func (s *stubOTPStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
		delete(s.counters, key)
	}
	return nil
}

func (s *stubOTPStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.counters[key]++
	return s.counters[key], nil
}

func (s *stubOTPStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	return s.allowed, 0, nil
}

func (s *stubOTPStore) OTPKey(phone string) string {
	return "ps:otp:" + phone
}

func (s *stubOTPStore) OTPAttemptsKey(phone string) string {
	return "ps:otp:attempts:" + phone
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "propshare",
		ExpirationMinutes: 30,
	}
}

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{
		Length:      6,
		TTL:         5 * time.Minute,
		MaxAttempts: 3,
		DevEcho:     true,
	}
}

func buildAuthService(t *testing.T) (Service, *stubUserRepo, *stubSessionManager, *stubOTPStore) {
	t.Helper()
	repo := newStubUserRepo()
	sessions := &stubSessionManager{refreshToken: "refresh-token"}
	store := newStubOTPStore()
	svc, err := NewService(ServiceParams{
		UserRepo:       repo,
		SessionManager: sessions,
		OTPStore:       store,
		JWTConfig:      testJWTConfig(),
		OTPConfig:      testOTPConfig(),
		RateLimit: config.AuthRateLimitConfig{
			OTPWindow:     time.Minute,
			OTPPhoneLimit: 3,
			OTPIPLimit:    20,
		},
		DevEcho: true,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, sessions, store
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != code {
		t.Fatalf("expected %s got %v", code, err)
	}
}

func TestSendOTPIssuesCode(t *testing.T) {
	svc, _, _, store := buildAuthService(t)

	resp, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: "+919876543210", IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if resp.ExpiresInSeconds != 300 {
		t.Fatalf("expected 300s expiry got %d", resp.ExpiresInSeconds)
	}
	if resp.DevCode == nil || len(*resp.DevCode) != 6 {
		t.Fatalf("expected echoed 6 digit code got %v", resp.DevCode)
	}
	stored, ok := store.values["ps:otp:+919876543210"]
	if !ok {
		t.Fatal("expected otp stored")
	}
	if stored == *resp.DevCode {
		t.Fatal("stored otp must be hashed, not plaintext")
	}
}

func TestSendOTPRejectsBadPhone(t *testing.T) {
	svc, _, _, _ := buildAuthService(t)
	_, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: "not-a-phone"})
	expectCode(t, err, pkgerrors.CodeValidation)
}

func TestSendOTPRateLimited(t *testing.T) {
	svc, _, _, store := buildAuthService(t)
	store.allowed = false
	_, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: "+919876543210"})
	expectCode(t, err, pkgerrors.CodeRateLimit)
}

func TestVerifyOTPCreatesInvestor(t *testing.T) {
	svc, repo, _, _ := buildAuthService(t)

	sent, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: "+919876543210"})
	if err != nil {
		t.Fatalf("send otp: %v", err)
	}

	resp, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{
		Phone:    "+91 98765 43210",
		Code:     *sent.DevCode,
		FullName: "Asha Rao",
	})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if !resp.IsNewUser {
		t.Fatal("expected new user flag")
	}
	if resp.User.Role != enums.UserRoleInvestor {
		t.Fatalf("expected investor role got %s", resp.User.Role)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one user created got %d", len(repo.created))
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Fatal("claims user mismatch")
	}
	if claims.ID == "" {
		t.Fatal("expected session id in claims")
	}
}

func TestVerifyOTPExistingUserKeepsRole(t *testing.T) {
	svc, repo, _, _ := buildAuthService(t)
	partner := &models.User{
		ID:        uuid.New(),
		Phone:     "+919876543210",
		FullName:  "Partner One",
		Role:      enums.UserRoleChannelPartner,
		KYCStatus: enums.KYCStatusVerified,
		IsActive:  true,
	}
	repo.add(partner)

	sent, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: partner.Phone})
	if err != nil {
		t.Fatalf("send otp: %v", err)
	}
	resp, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Phone: partner.Phone, Code: *sent.DevCode})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}
	if resp.IsNewUser {
		t.Fatal("expected existing user")
	}
	if resp.User.Role != enums.UserRoleChannelPartner {
		t.Fatalf("expected channel partner role got %s", resp.User.Role)
	}
	if len(repo.created) != 0 {
		t.Fatal("expected no user created")
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, _, _ := buildAuthService(t)
	if _, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: "+919876543210"}); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	_, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Phone: "+919876543210", Code: "000000"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestVerifyOTPLocksAfterMaxAttempts(t *testing.T) {
	svc, _, _, store := buildAuthService(t)
	sent, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: "+919876543210"})
	if err != nil {
		t.Fatalf("send otp: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, err = svc.VerifyOTP(context.Background(), VerifyOTPRequest{Phone: "+919876543210", Code: "000000"})
		expectCode(t, err, pkgerrors.CodeUnauthorized)
	}
	_, err = svc.VerifyOTP(context.Background(), VerifyOTPRequest{Phone: "+919876543210", Code: *sent.DevCode})
	expectCode(t, err, pkgerrors.CodeRateLimit)
	if _, ok := store.values["ps:otp:+919876543210"]; ok {
		t.Fatal("expected otp discarded after lockout")
	}
}

func TestAdminLogin(t *testing.T) {
	svc, repo, _, _ := buildAuthService(t)
	password := "admin-secret"
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	email := "ops@propshare.example"
	repo.add(&models.User{
		ID:           uuid.New(),
		Phone:        "+911112223334",
		Email:        &email,
		FullName:     "Ops Admin",
		Role:         enums.UserRoleAdmin,
		PasswordHash: &hash,
		IsActive:     true,
	})

	resp, err := svc.AdminLogin(context.Background(), AdminLoginRequest{Email: "Ops@propshare.example", Password: password})
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("expected admin role got %s", claims.Role)
	}

	_, err = svc.AdminLogin(context.Background(), AdminLoginRequest{Email: email, Password: "wrong"})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	svc, repo, _, _ := buildAuthService(t)
	password := "investor-secret"
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	email := "user@propshare.example"
	repo.add(&models.User{
		ID:           uuid.New(),
		Phone:        "+911112223335",
		Email:        &email,
		Role:         enums.UserRoleInvestor,
		PasswordHash: &hash,
		IsActive:     true,
	})

	_, err = svc.AdminLogin(context.Background(), AdminLoginRequest{Email: email, Password: password})
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, repo, _, _ := buildAuthService(t)
	user := &models.User{
		ID:       uuid.New(),
		Phone:    "+919876543210",
		Role:     enums.UserRoleInvestor,
		IsActive: true,
	}
	repo.add(user)

	sent, err := svc.SendOTP(context.Background(), SendOTPRequest{Phone: user.Phone})
	if err != nil {
		t.Fatalf("send otp: %v", err)
	}
	login, err := svc.VerifyOTP(context.Background(), VerifyOTPRequest{Phone: user.Phone, Code: *sent.DevCode})
	if err != nil {
		t.Fatalf("verify otp: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "rotated-refresh-token" {
		t.Fatalf("expected rotated token got %s", resp.RefreshToken)
	}
	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID != "rotated-access-id" {
		t.Fatalf("expected rotated access id got %s", claims.ID)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, sessions, _ := buildAuthService(t)
	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-123" {
		t.Fatalf("expected revoke call got %v", sessions.revoked)
	}
	err := svc.Logout(context.Background(), strings.Repeat(" ", 3))
	expectCode(t, err, pkgerrors.CodeUnauthorized)
}
