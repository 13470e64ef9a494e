package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) (TokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
}
