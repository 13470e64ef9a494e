package cron

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLeaveService struct {
	leave.LeaveService
	months []string
}

func (r *recordingLeaveService) IncrementMonthly(ctx context.Context, monthYear string) (leave.IncrementResult, error) {
	r.months = append(r.months, monthYear)
	return leave.IncrementResult{MonthYear: monthYear, Amount: decimal.NewFromInt(2), Credited: 1}, nil
}

func TestLeaveJobs_UsesConfiguredTimeZone(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	svc := &recordingLeaveService{}
	jobs := NewLeaveJobs(svc, loc)
	// 20:00 UTC on Jan 31 is already Feb 1 in India
	jobs.now = func() time.Time { return time.Date(2026, 1, 31, 20, 0, 0, 0, time.UTC) }

	require.NoError(t, jobs.IncrementMonthlyLeave(context.Background()))
	assert.Equal(t, []string{"2026-02"}, svc.months)
}

func TestLeaveJobs_RegisterAndRunOnce(t *testing.T) {
	svc := &recordingLeaveService{}
	jobs := NewLeaveJobs(svc, time.UTC)
	jobs.now = func() time.Time { return time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC) }

	scheduler := NewScheduler(time.UTC)
	require.NoError(t, jobs.RegisterJobs(scheduler, "5 0 1 * *"))
	scheduler.RunOnce(context.Background())
	assert.Equal(t, []string{"2026-03"}, svc.months)

	assert.Error(t, jobs.RegisterJobs(scheduler, "every month"))
}
