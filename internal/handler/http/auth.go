package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	VerifyOTP(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate DTO
	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	resp, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "remote_addr", r.RemoteAddr, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login code sent", resp)
}

// VerifyOTP implements AuthHandler.
func (a *AuthHandlerImpl) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var verifyReq auth.VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&verifyReq); err != nil {
		slog.Error("VerifyOTP decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := verifyReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	token, err := a.authService.VerifyOTP(r.Context(), verifyReq)
	if err != nil {
		slog.Warn("Login code verification failed", "remote_addr", r.RemoteAddr, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", token)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	req := auth.LogoutRequest{
		Token:     jwtauth.TokenFromHeader(r),
		ExpiresAt: token.Expiration().Unix(),
	}
	if err := a.authService.Logout(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout successful", nil)
}
