package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const (
	maxImportSize = 20 << 20
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type AttendanceHandler interface {
	Import(w http.ResponseWriter, r *http.Request)
	MachineFormats(w http.ResponseWriter, r *http.Request)
	Summary(w http.ResponseWriter, r *http.Request)
	Report(w http.ResponseWriter, r *http.Request)
	GetMonth(w http.ResponseWriter, r *http.Request)
	UpdateDay(w http.ResponseWriter, r *http.Request)
	AbsentRecords(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Import implements AttendanceHandler. Expects multipart fields "machine" and "file".
func (h *attendanceHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Invalid multipart form or file too large", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required", map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	req := attendance.ImportRequest{
		Machine:  r.FormValue("machine"),
		FileName: fileHeader.Filename,
		File:     file,
	}

	result, err := h.attendanceService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance imported", result)
}

// MachineFormats implements AttendanceHandler.
func (h *attendanceHandlerImpl) MachineFormats(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.attendanceService.MachineFormats(r.Context()))
}

// Summary implements AttendanceHandler.
func (h *attendanceHandlerImpl) Summary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.attendanceService.ListSummaries(r.Context(), r.URL.Query().Get("month_year"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// Report implements AttendanceHandler. Serves the month's summary workbook.
func (h *attendanceHandlerImpl) Report(w http.ResponseWriter, r *http.Request) {
	monthYear := r.URL.Query().Get("month_year")

	var buf bytes.Buffer
	if err := h.attendanceService.ExportSummaries(r.Context(), monthYear, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, xlsxMediaType, "attendance-"+monthYear+".xlsx", &buf)
}

// GetMonth implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMonth(w http.ResponseWriter, r *http.Request) {
	month, err := h.attendanceService.GetMonth(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "monthYear"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, month)
}

// UpdateDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateDay(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update day decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "userID")
	req.MonthYear = chi.URLParam(r, "monthYear")
	req.Date = chi.URLParam(r, "date")

	month, err := h.attendanceService.UpdateDay(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance day updated", month)
}

// AbsentRecords implements AttendanceHandler.
func (h *attendanceHandlerImpl) AbsentRecords(w http.ResponseWriter, r *http.Request) {
	var req attendance.AbsentRecordsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Absent records decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	resp, err := h.attendanceService.AbsentRecords(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, resp)
}
