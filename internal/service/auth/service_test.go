package auth

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testPassword = "correct horse battery"
	testHREmail  = "hr@example.com"
	testSecret   = "test-secret-key-for-jwt"
)

type capturingEmail struct {
	email.EmailService
	to   string
	code string
}

func (c *capturingEmail) SendLoginCode(to, code, expiresAt string) error {
	c.to, c.code = to, code
	return nil
}

func newTestAuthService(t *testing.T) (*AuthServiceImpl, *capturingEmail, jwt.Service) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	mail := &capturingEmail{}
	jwtService := jwt.NewJWTService(testSecret, "1h")
	svc := NewAuthService(string(hash), testHREmail, otp.NewGenerator("HR Attendance", 5*time.Minute), otp.NewMemoryStore(), jwtService, mail)
	return svc.(*AuthServiceImpl), mail, jwtService
}

func TestAuthService_LoginAndVerify(t *testing.T) {
	ctx := context.Background()
	svc, mail, _ := newTestAuthService(t)

	login, err := svc.Login(ctx, auth.LoginRequest{Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, login.SessionID)
	assert.Equal(t, testHREmail, login.SentTo)
	assert.Equal(t, testHREmail, mail.to)
	require.Len(t, mail.code, 6)

	token, err := svc.VerifyOTP(ctx, auth.VerifyOTPRequest{SessionID: login.SessionID, Code: mail.code})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Greater(t, token.ExpiresAt, time.Now().Unix())

	_, err = svc.VerifyOTP(ctx, auth.VerifyOTPRequest{SessionID: login.SessionID, Code: mail.code})
	assert.ErrorIs(t, err, auth.ErrInvalidCode, "codes are single use")
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, mail, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Empty(t, mail.code)
}

func TestAuthService_VerifyOTP_WrongCodeConsumesSession(t *testing.T) {
	ctx := context.Background()
	svc, mail, _ := newTestAuthService(t)

	login, err := svc.Login(ctx, auth.LoginRequest{Password: testPassword})
	require.NoError(t, err)

	wrong := "000000"
	if mail.code == wrong {
		wrong = "111111"
	}
	_, err = svc.VerifyOTP(ctx, auth.VerifyOTPRequest{SessionID: login.SessionID, Code: wrong})
	assert.ErrorIs(t, err, auth.ErrInvalidCode)

	_, err = svc.VerifyOTP(ctx, auth.VerifyOTPRequest{SessionID: login.SessionID, Code: mail.code})
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

func TestAuthService_VerifyOTP_Expired(t *testing.T) {
	ctx := context.Background()
	svc, mail, _ := newTestAuthService(t)

	login, err := svc.Login(ctx, auth.LoginRequest{Password: testPassword})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(6 * time.Minute) }
	_, err = svc.VerifyOTP(ctx, auth.VerifyOTPRequest{SessionID: login.SessionID, Code: mail.code})
	assert.ErrorIs(t, err, auth.ErrInvalidCode)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, jwtService := newTestAuthService(t)

	assert.ErrorIs(t, svc.Logout(context.Background(), auth.LogoutRequest{}), auth.ErrInvalidToken)

	require.NoError(t, svc.Logout(context.Background(), auth.LogoutRequest{Token: "abc", ExpiresAt: time.Now().Add(time.Hour).Unix()}))
	assert.True(t, jwtService.IsTokenRevoked("abc"))
}
