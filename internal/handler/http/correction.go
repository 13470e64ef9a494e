package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Request(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{correctionService: correctionService}
}

// Request implements CorrectionHandler.
func (h *correctionHandlerImpl) Request(w http.ResponseWriter, r *http.Request) {
	var req correction.CreateCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Correction request decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.CreatedBy = middleware.Actor(r.Context())

	created, err := h.correctionService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction request submitted", created)
}

// List implements CorrectionHandler. Filters: ?status= and ?user_id=.
func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := correction.ListFilter{
		Status: correction.Status(r.URL.Query().Get("status")),
		UserID: r.URL.Query().Get("user_id"),
	}

	requests, err := h.correctionService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, requests)
}

// Get implements CorrectionHandler.
func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.correctionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, c)
}

// Approve implements CorrectionHandler. Reached from the emailed link.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, correction.ActionApprove)
}

// Reject implements CorrectionHandler. Reached from the emailed link.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, correction.ActionReject)
}

func (h *correctionHandlerImpl) resolve(w http.ResponseWriter, r *http.Request, action correction.Action) {
	req := correction.ResolveRequest{
		ID:     chi.URLParam(r, "id"),
		Action: action,
		Token:  r.URL.Query().Get("token"),
		Reason: r.URL.Query().Get("reason"),
	}

	resolved, err := h.correctionService.Resolve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request "+string(resolved.Status), resolved)
}
