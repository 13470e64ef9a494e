package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
)

// LeaveJobs credits monthly leave. Accruals are keyed by month so a rerun is harmless.
type LeaveJobs struct {
	leaveService leave.LeaveService
	loc          *time.Location
	now          func() time.Time
}

func NewLeaveJobs(leaveService leave.LeaveService, loc *time.Location) *LeaveJobs {
	return &LeaveJobs{
		leaveService: leaveService,
		loc:          loc,
		now:          time.Now,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("monthly_leave_accrual", spec, j.IncrementMonthlyLeave)
}

func (j *LeaveJobs) IncrementMonthlyLeave(ctx context.Context) error {
	monthYear := j.now().In(j.loc).Format("2006-01")
	slog.Info("Cron: Starting monthly leave accrual", "month_year", monthYear)

	result, err := j.leaveService.IncrementMonthly(ctx, monthYear)
	if err != nil {
		return fmt.Errorf("failed to increment monthly leave: %w", err)
	}

	slog.Info("Cron: Monthly leave accrual finished",
		"month_year", result.MonthYear,
		"credited", result.Credited,
		"skipped", result.Skipped,
		"failed", len(result.Failures),
	)
	return nil
}
