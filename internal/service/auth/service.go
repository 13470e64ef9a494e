package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/otp"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	passwordHash string
	hrEmail      string
	codes        *otp.Generator
	store        otp.Store
	jwt.Service
	email.EmailService
	now func() time.Time
}

func NewAuthService(passwordHash, hrEmail string, codes *otp.Generator, store otp.Store, jwtService jwt.Service, emailService email.EmailService) auth.AuthService {
	return &AuthServiceImpl{
		passwordHash: passwordHash,
		hrEmail:      hrEmail,
		codes:        codes,
		store:        store,
		Service:      jwtService,
		EmailService: emailService,
		now:          time.Now,
	}
}

// Login implements auth.AuthService. The code goes to the HR mailbox, never to the caller.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	now := a.now()
	sessionID := uuid.NewString()
	entry, code, err := a.codes.Issue(a.hrEmail, now)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to issue login code: %w", err)
	}

	if err := a.store.Save(ctx, sessionID, entry); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to save login code: %w", err)
	}

	if err := a.EmailService.SendLoginCode(a.hrEmail, code, entry.ExpiresAt.Format(time.Kitchen)); err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to send login code: %w", err)
	}

	slog.Info("Login code issued", "session_id", sessionID)

	return auth.LoginResponse{
		SessionID: sessionID,
		ExpiresAt: entry.ExpiresAt.Unix(),
		SentTo:    a.hrEmail,
	}, nil
}

// VerifyOTP implements auth.AuthService. A session gets one attempt.
func (a *AuthServiceImpl) VerifyOTP(ctx context.Context, req auth.VerifyOTPRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	entry, err := a.store.Take(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, otp.ErrCodeNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCode
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to load login code: %w", err)
	}

	if !a.codes.Verify(entry, req.Code, a.now()) {
		return auth.TokenResponse{}, auth.ErrInvalidCode
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(req.SessionID, a.hrEmail)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.Token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(req.Token, req.ExpiresAt)
	return nil
}
