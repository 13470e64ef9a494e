package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/machineformat"
)

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	user.UserRepository
	holiday.HolidayRepository
	leaveService leave.LeaveService
	registry     *machineformat.Registry
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	holidayRepository holiday.HolidayRepository,
	leaveService leave.LeaveService,
	registry *machineformat.Registry,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		HolidayRepository:    holidayRepository,
		leaveService:         leaveService,
		registry:             registry,
	}
}

// MachineFormats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MachineFormats(ctx context.Context) []machineformat.Template {
	return s.registry.List()
}

// loadMonth returns the stored user-month or an empty one.
func (s *AttendanceServiceImpl) loadMonth(ctx context.Context, userID, monthYear string) (attendance.MonthlyAttendance, error) {
	month, err := s.AttendanceRepository.GetMonth(ctx, userID, monthYear)
	if errors.Is(err, attendance.ErrMonthNotFound) {
		return attendance.NewMonthlyAttendance(userID, monthYear), nil
	}
	if err != nil {
		return attendance.MonthlyAttendance{}, fmt.Errorf("failed to get attendance month: %w", err)
	}
	if month.Days == nil {
		month.Days = make(map[string]attendance.DailyRecord)
	}
	return month, nil
}

// saveMonth re-derives the summary from the days and stores the month.
func (s *AttendanceServiceImpl) saveMonth(ctx context.Context, month attendance.MonthlyAttendance) (attendance.MonthlyAttendance, error) {
	month.Summary = attendance.Summarize(month.Days)
	saved, err := s.AttendanceRepository.UpsertMonth(ctx, month)
	if err != nil {
		return attendance.MonthlyAttendance{}, fmt.Errorf("failed to save attendance month: %w", err)
	}
	return saved, nil
}

// GetMonth implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonth(ctx context.Context, userID, monthYear string) (attendance.MonthlyAttendance, error) {
	if _, err := s.UserRepository.GetByID(ctx, userID); err != nil {
		return attendance.MonthlyAttendance{}, err
	}
	return s.AttendanceRepository.GetMonth(ctx, userID, monthYear)
}

// UpdateDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateDay(ctx context.Context, req attendance.UpdateDayRequest) (attendance.MonthlyAttendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.MonthlyAttendance{}, err
	}

	rec := attendance.DailyRecord{
		Date:         req.Date,
		CheckIn:      req.CheckIn,
		CheckOut:     req.CheckOut,
		TotalHours:   attendance.HoursBetween(req.CheckIn, req.CheckOut),
		PresenceType: req.PresenceType,
		Late:         req.Late,
		Remarks:      req.Remarks,
		Source:       attendance.SourceManual,
	}
	return s.ApplyDay(ctx, req.UserID, rec)
}

// ApplyDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ApplyDay(ctx context.Context, userID string, rec attendance.DailyRecord) (attendance.MonthlyAttendance, error) {
	if !rec.PresenceType.IsValid() {
		return attendance.MonthlyAttendance{}, attendance.ErrInvalidPresenceType
	}

	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.MonthlyAttendance{}, err
	}
	rec = reconcileDay(rec, u.Schedule)
	monthYear := attendance.MonthYearOf(rec.Date)

	var saved attendance.MonthlyAttendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		month, err := s.loadMonth(ctx, userID, monthYear)
		if err != nil {
			return err
		}
		previous, hadPrevious := month.Days[rec.Date]
		month.Days[rec.Date] = rec

		switch {
		case rec.PresenceType.IsLeave():
			if _, err := s.leaveService.RecordLeaveUsage(ctx, userID, rec.Date, rec.PresenceType.LeaveDebit()); err != nil {
				return fmt.Errorf("failed to record leave usage: %w", err)
			}
		case hadPrevious && previous.PresenceType.IsLeave():
			if _, err := s.leaveService.ReleaseLeaveUsage(ctx, userID, rec.Date); err != nil {
				return fmt.Errorf("failed to release leave usage: %w", err)
			}
		}

		saved, err = s.saveMonth(ctx, month)
		return err
	})
	if err != nil {
		return attendance.MonthlyAttendance{}, err
	}
	return saved, nil
}

// reconcileDay judges a worked day against the employee's shift. Lateness set
// by hand is kept. Every hour worked on a holiday is excess.
func reconcileDay(rec attendance.DailyRecord, schedule user.Schedule) attendance.DailyRecord {
	if rec.PresenceType == attendance.PresenceHoliday {
		rec.ExcessHours = rec.TotalHours
		return rec.Normalize()
	}
	if !rec.Late && rec.CheckIn != "" && rec.TotalHours > 0 {
		rec.Late = schedule.IsLate(rec.CheckIn)
	}
	rec.ExcessHours = schedule.ExcessHours(rec.TotalHours)
	return rec.Normalize()
}
