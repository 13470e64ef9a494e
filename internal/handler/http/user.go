package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	BulkUpdateSchedules(w http.ResponseWriter, r *http.Request)
	ManageExtraInfo(w http.ResponseWriter, r *http.Request)
	SetExtraInfo(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &userHandlerImpl{userService: userService}
}

// List implements UserHandler. ?active=true hides deactivated employees.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "active must be true or false", nil)
			return
		}
		activeOnly = parsed
	}

	users, err := h.userService.List(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, users)
}

// Get implements UserHandler.
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.userService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, u)
}

// Create implements UserHandler.
func (h *userHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req user.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create user decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CreatedBy = middleware.Actor(r.Context())

	created, err := h.userService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", created)
}

// Update implements UserHandler.
func (h *userHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update user decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ChangedBy = middleware.Actor(r.Context())

	updated, err := h.userService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "User updated successfully", updated)
}

// History implements UserHandler.
func (h *userHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	entries, err := h.userService.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, entries)
}

// BulkUpdateSchedules implements UserHandler.
func (h *userHandlerImpl) BulkUpdateSchedules(w http.ResponseWriter, r *http.Request) {
	var req user.BulkScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Bulk schedule decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ChangedBy = middleware.Actor(r.Context())

	result, err := h.userService.BulkUpdateSchedules(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Schedules processed", result)
}

// ManageExtraInfo implements UserHandler.
func (h *userHandlerImpl) ManageExtraInfo(w http.ResponseWriter, r *http.Request) {
	var req user.ExtraInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Extra info decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.userService.ManageExtraInfo(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Extra info updated", result)
}

// SetExtraInfo implements UserHandler.
func (h *userHandlerImpl) SetExtraInfo(w http.ResponseWriter, r *http.Request) {
	var req user.SetExtraInfoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Set extra info decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "id")

	updated, err := h.userService.SetExtraInfo(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Extra info updated", updated)
}
