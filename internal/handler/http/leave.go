package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	ListBalances(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	IncrementMonthly(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// ListBalances implements LeaveHandler.
func (h *LeaveHandlerImpl) ListBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.leaveService.ListBalances(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balances)
}

// GetBalance implements LeaveHandler.
func (h *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.leaveService.GetBalance(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// IncrementMonthly implements LeaveHandler. An empty body credits the current month.
func (h *LeaveHandlerImpl) IncrementMonthly(w http.ResponseWriter, r *http.Request) {
	var req leave.IncrementMonthlyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Increment monthly decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.leaveService.IncrementMonthly(r.Context(), req.MonthYear)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Monthly leave credited", result)
}
