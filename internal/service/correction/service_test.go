package correction

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/machineformat"
	attendancesvc "github.com/cmlabs-hris/hris-attendance-go/internal/service/attendance"
	leavesvc "github.com/cmlabs-hris/hris-attendance-go/internal/service/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type correctionFixture struct {
	svc         *CorrectionServiceImpl
	corrections *servicetest.Corrections
	months      *servicetest.Attendance
	usages      *servicetest.LeaveUsages
	mailer      *servicetest.Mailer
}

func newCorrectionFixture(t *testing.T) correctionFixture {
	t.Helper()

	registry, err := machineformat.LoadRegistry("")
	require.NoError(t, err)

	tx := &servicetest.Transactor{}
	users := servicetest.NewUsers(
		user.User{ID: "u1", Name: "John Doe", Email: "john@example.com", PartnerName: "Priya Sharma", IsActive: true, Schedule: user.DefaultSchedule()},
		user.User{ID: "u2", Name: "Priya.Sharma", Email: "priya@example.com", IsActive: true, Schedule: user.DefaultSchedule()},
		user.User{ID: "u3", Name: "Alex Kim", Email: "alex@example.com", PartnerName: "Jane X", IsActive: true, Schedule: user.DefaultSchedule()},
	)
	f := correctionFixture{
		corrections: servicetest.NewCorrections(users),
		months:      servicetest.NewAttendance(),
		usages:      servicetest.NewLeaveUsages(),
		mailer:      &servicetest.Mailer{},
	}
	leaveService := leavesvc.NewLeaveService(tx, users, servicetest.NewLeaveBalances(), servicetest.NewLeaveAccruals(), f.usages, decimal.NewFromInt(2), time.UTC)
	attendanceService := attendancesvc.NewAttendanceService(tx, f.months, users, servicetest.NewHolidays(), leaveService, registry)

	svc := NewCorrectionService(tx, f.corrections, users, attendanceService, f.mailer, "https://hr.example.com/", "hr@example.com")
	f.svc = svc.(*CorrectionServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC) }
	return f
}

func tokenFrom(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

func TestCreate_RoutesToPartner(t *testing.T) {
	f := newCorrectionFixture(t)

	c, err := f.svc.Create(context.Background(), correction.CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-02-03",
		RequestedStatus: attendance.PresencePresent,
		Reason:          "forgot to punch",
		FromTime:        "09:00",
		ToTime:          "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusPending, c.Status)
	assert.Equal(t, "priya@example.com", c.ApproverEmail)
	assert.NotEmpty(t, c.Token)

	require.Len(t, f.mailer.Requests, 1)
	sent := f.mailer.Requests[0]
	assert.Equal(t, "priya@example.com", sent.To)
	assert.Equal(t, "09:00 - 18:00", sent.Data.TimeRange)
	assert.True(t, strings.HasPrefix(sent.Data.ApproveLink, "https://hr.example.com/api/v1/corrections/"+c.ID+"/approve?token="))
	assert.Contains(t, sent.Data.RejectLink, "/reject?token=")
	assert.Equal(t, c.Token, tokenFrom(t, sent.Data.ApproveLink))
}

func TestCreate_FallsBackToHR(t *testing.T) {
	f := newCorrectionFixture(t)

	c, err := f.svc.Create(context.Background(), correction.CreateCorrectionRequest{
		UserID:          "u3",
		Date:            "2026-02-03",
		RequestedStatus: attendance.PresenceWFH,
		Reason:          "worked remotely",
	})
	require.NoError(t, err)
	assert.Equal(t, "hr@example.com", c.ApproverEmail)
}

func TestCreate_EmailFailureIsNotFatal(t *testing.T) {
	f := newCorrectionFixture(t)
	f.mailer.Err = errors.New("smtp down")

	_, err := f.svc.Create(context.Background(), correction.CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-02-03",
		RequestedStatus: attendance.PresenceWFH,
		Reason:          "worked remotely",
	})
	assert.NoError(t, err)
}

func TestCreate_Validation(t *testing.T) {
	f := newCorrectionFixture(t)

	_, err := f.svc.Create(context.Background(), correction.CreateCorrectionRequest{UserID: "u1", Date: "03-02-2026", RequestedStatus: "Sick"})
	assert.Error(t, err)

	_, err = f.svc.Create(context.Background(), correction.CreateCorrectionRequest{UserID: "nobody", Date: "2026-02-03", RequestedStatus: attendance.PresenceWFH, Reason: "x"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestResolve_ApproveAppliesDayOnce(t *testing.T) {
	ctx := context.Background()
	f := newCorrectionFixture(t)

	c, err := f.svc.Create(ctx, correction.CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-02-03",
		RequestedStatus: attendance.PresenceLeave,
		Reason:          "sick",
	})
	require.NoError(t, err)

	req := correction.ResolveRequest{ID: c.ID, Action: correction.ActionApprove, Token: c.Token}
	resolved, err := f.svc.Resolve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusApproved, resolved.Status)
	assert.Equal(t, "priya@example.com", resolved.ResolvedBy)
	require.NotNil(t, resolved.ResolvedAt)

	month, err := f.months.GetMonth(ctx, "u1", "2026-02")
	require.NoError(t, err)
	day := month.Days["2026-02-03"]
	assert.Equal(t, attendance.PresenceLeave, day.PresenceType)
	assert.Equal(t, attendance.SourceCorrection, day.Source)
	assert.Equal(t, 1.0, month.Summary.LeaveDays)
	assert.Equal(t, 1, f.usages.Len())

	require.Len(t, f.mailer.Resolutions, 1)
	assert.Equal(t, "john@example.com", f.mailer.Resolutions[0].To)
	assert.Equal(t, "approved", f.mailer.Resolutions[0].Data.Status)

	_, err = f.svc.Resolve(ctx, req)
	assert.ErrorIs(t, err, correction.ErrCorrectionAlreadyResolved)

	req.Action = correction.ActionReject
	_, err = f.svc.Resolve(ctx, req)
	assert.ErrorIs(t, err, correction.ErrCorrectionAlreadyResolved)
	assert.Len(t, f.mailer.Resolutions, 1)
}

func TestResolve_ApprovedDayIsJudgedAgainstSchedule(t *testing.T) {
	ctx := context.Background()
	f := newCorrectionFixture(t)

	c, err := f.svc.Create(ctx, correction.CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-02-04",
		RequestedStatus: attendance.PresencePresent,
		Reason:          "machine was down",
		FromTime:        "10:30",
		ToTime:          "20:30",
	})
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, correction.ResolveRequest{ID: c.ID, Action: correction.ActionApprove, Token: c.Token})
	require.NoError(t, err)

	month, err := f.months.GetMonth(ctx, "u1", "2026-02")
	require.NoError(t, err)
	day := month.Days["2026-02-04"]
	assert.Equal(t, 10.0, day.TotalHours)
	assert.Equal(t, 1.0, day.ExcessHours, "hours past the 9h shift")
	assert.True(t, day.Late, "10:30 is past 09:00 plus 15 minutes grace")
	assert.Equal(t, 1, month.Summary.LateArrivals)
	assert.Equal(t, 1.0, month.Summary.TotalExcessHours)
}

func TestResolve_RejectLeavesAttendanceAlone(t *testing.T) {
	ctx := context.Background()
	f := newCorrectionFixture(t)

	c, err := f.svc.Create(ctx, correction.CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-02-04",
		RequestedStatus: attendance.PresencePresent,
		Reason:          "card reader broken",
	})
	require.NoError(t, err)

	resolved, err := f.svc.Resolve(ctx, correction.ResolveRequest{ID: c.ID, Action: correction.ActionReject, Token: c.Token, Reason: " no evidence "})
	require.NoError(t, err)
	assert.Equal(t, correction.StatusRejected, resolved.Status)
	assert.Equal(t, "no evidence", resolved.RejectionReason)

	_, err = f.months.GetMonth(ctx, "u1", "2026-02")
	assert.ErrorIs(t, err, attendance.ErrMonthNotFound)
}

func TestResolve_BadTokenAndUnknownID(t *testing.T) {
	ctx := context.Background()
	f := newCorrectionFixture(t)

	c, err := f.svc.Create(ctx, correction.CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-02-04",
		RequestedStatus: attendance.PresencePresent,
		Reason:          "card reader broken",
	})
	require.NoError(t, err)

	_, err = f.svc.Resolve(ctx, correction.ResolveRequest{ID: c.ID, Action: correction.ActionApprove, Token: "guess"})
	assert.ErrorIs(t, err, correction.ErrInvalidToken)

	_, err = f.svc.Resolve(ctx, correction.ResolveRequest{ID: "missing", Action: correction.ActionApprove, Token: "guess"})
	assert.ErrorIs(t, err, correction.ErrCorrectionNotFound)

	stored, err := f.svc.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, correction.StatusPending, stored.Status)
}

func TestList_FiltersByStatus(t *testing.T) {
	ctx := context.Background()
	f := newCorrectionFixture(t)

	for _, date := range []string{"2026-02-05", "2026-02-06"} {
		_, err := f.svc.Create(ctx, correction.CreateCorrectionRequest{UserID: "u1", Date: date, RequestedStatus: attendance.PresenceWFH, Reason: "remote"})
		require.NoError(t, err)
	}
	all, err := f.svc.List(ctx, correction.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	_, err = f.svc.Resolve(ctx, correction.ResolveRequest{ID: all[0].ID, Action: correction.ActionApprove, Token: all[0].Token})
	require.NoError(t, err)

	pending, err := f.svc.List(ctx, correction.ListFilter{Status: correction.StatusPending})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.svc.List(ctx, correction.ListFilter{Status: "done"})
	assert.Error(t, err)
}
