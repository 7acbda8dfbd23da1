package auth

import (
	"github.com/propshare/propshare-backend/internal/users"
)

// SendOTPRequest asks for a one-time code to be issued for a phone number.
type SendOTPRequest struct {
	Phone string
	IP    string
}

// SendOTPResponse reports the issued code's lifetime. DevCode carries the
// plain code only when dev echo is enabled, so local clients can log in
// without an SMS provider.
type SendOTPResponse struct {
	ExpiresInSeconds int     `json:"expires_in_seconds"`
	DevCode          *string `json:"dev_code,omitempty"`
}

// VerifyOTPRequest exchanges a phone number and code for a session.
type VerifyOTPRequest struct {
	Phone    string
	Code     string
	FullName string
}

// AdminLoginRequest is the password login used by back-office users.
type AdminLoginRequest struct {
	Email    string
	Password string
}

// LoginResponse carries the minted session and the user profile.
type LoginResponse struct {
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
	IsNewUser    bool           `json:"is_new_user,omitempty"`
	User         *users.UserDTO `json:"user"`
}

// RefreshRequest rotates a refresh token. The expired access token provides
// the session identity.
type RefreshRequest struct {
	AccessToken  string
	RefreshToken string
}

// RefreshResponse carries the rotated token pair.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
