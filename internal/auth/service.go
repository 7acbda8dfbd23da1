package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/propshare/propshare-backend/internal/users"
	pkgAuth "github.com/propshare/propshare-backend/pkg/auth"
	"github.com/propshare/propshare-backend/pkg/auth/session"
	"github.com/propshare/propshare-backend/pkg/config"
	"github.com/propshare/propshare-backend/pkg/db/models"
	"github.com/propshare/propshare-backend/pkg/enums"
	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/security"
)

const (
	invalidCredentialsMessage = "invalid credentials"
	invalidCodeMessage        = "invalid or expired code"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// Service defines the behavior needed by the auth controllers.
type Service interface {
	SendOTP(ctx context.Context, req SendOTPRequest) (*SendOTPResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
	Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
}

type userRepository interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	OTPKey(phone string) string
	OTPAttemptsKey(phone string) string
}

type service struct {
	users   userRepository
	session sessionManager
	otp     otpStore
	jwtCfg  config.JWTConfig
	otpCfg  config.OTPConfig
	rateCfg config.AuthRateLimitConfig
	devEcho bool
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	OTPStore       otpStore
	JWTConfig      config.JWTConfig
	OTPConfig      config.OTPConfig
	RateLimit      config.AuthRateLimitConfig
	DevEcho        bool
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.OTPStore == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	return &service{
		users:   params.UserRepo,
		session: params.SessionManager,
		otp:     params.OTPStore,
		jwtCfg:  params.JWTConfig,
		otpCfg:  params.OTPConfig,
		rateCfg: params.RateLimit,
		devEcho: params.DevEcho,
	}, nil
}

func (s *service) SendOTP(ctx context.Context, req SendOTPRequest) (*SendOTPResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	allowed, _, err := s.otp.FixedWindowAllow(ctx, "otp:phone:"+phone, int64(s.rateCfg.OTPPhoneLimit), s.rateCfg.OTPWindow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "otp rate limit")
	}
	if !allowed {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many codes requested for this phone")
	}
	if ip := strings.TrimSpace(req.IP); ip != "" {
		allowed, _, err = s.otp.FixedWindowAllow(ctx, "otp:ip:"+ip, int64(s.rateCfg.OTPIPLimit), s.rateCfg.OTPWindow)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "otp rate limit")
		}
		if !allowed {
			return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many codes requested from this address")
		}
	}

	code, err := security.GenerateOTP(s.otpCfg.Length)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.otp.Set(ctx, s.otp.OTPKey(phone), security.HashOTP(code), s.otpCfg.TTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	// Fresh code resets the attempt counter.
	if err := s.otp.Del(ctx, s.otp.OTPAttemptsKey(phone)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset otp attempts")
	}

	resp := &SendOTPResponse{ExpiresInSeconds: int(s.otpCfg.TTL.Seconds())}
	if s.devEcho {
		resp.DevCode = &code
	}
	return resp, nil
}

func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*LoginResponse, error) {
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code required")
	}

	attempts, err := s.otp.IncrWithTTL(ctx, s.otp.OTPAttemptsKey(phone), s.otpCfg.TTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count otp attempt")
	}
	if attempts > int64(s.otpCfg.MaxAttempts) {
		_ = s.otp.Del(ctx, s.otp.OTPKey(phone))
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many attempts, request a new code")
	}

	stored, err := s.otp.Get(ctx, s.otp.OTPKey(phone))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCodeMessage)
	}
	if !security.VerifyOTP(code, stored) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCodeMessage)
	}
	if err := s.otp.Del(ctx, s.otp.OTPKey(phone), s.otp.OTPAttemptsKey(phone)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear otp")
	}

	user, isNew, err := s.findOrCreateUser(ctx, phone, req.FullName)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	resp, err := s.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.IsNewUser = isNew
	return resp, nil
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	if user.Role != enums.UserRoleAdmin || user.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	valid, err := security.VerifyPassword(req.Password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return s.startSession(ctx, user)
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}

	accessToken, err := s.mintToken(user, newAccessID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return users.FromModel(user), nil
}

func (s *service) findOrCreateUser(ctx context.Context, phone, fullName string) (*models.User, bool, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup user")
	}

	created, err := s.users.Create(ctx, users.CreateUserDTO{
		Phone:    phone,
		FullName: strings.TrimSpace(fullName),
		Role:     enums.UserRoleInvestor,
	})
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, true, nil
}

func (s *service) startSession(ctx context.Context, user *models.User) (*LoginResponse, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now

	accessID := session.NewAccessID()
	accessToken, err := s.mintToken(user, accessID, now)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         users.FromModel(user),
	}, nil
}

func (s *service) mintToken(user *models.User, accessID string, now time.Time) (string, error) {
	kycStatus := user.KYCStatus
	payload := pkgAuth.AccessTokenPayload{
		UserID:    user.ID,
		Role:      user.Role,
		KYCStatus: &kycStatus,
		JTI:       accessID,
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return token, nil
}

func normalizePhone(phone string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	if !phonePattern.MatchString(cleaned) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid phone number")
	}
	return cleaned, nil
}
