package correction

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrectionRequest_Record(t *testing.T) {
	c := CorrectionRequest{
		Date:            "2026-01-12",
		RequestedStatus: attendance.PresencePresent,
		Reason:          "forgot to punch",
		FromTime:        "09:00",
		ToTime:          "17:30",
	}
	rec := c.Record()
	assert.Equal(t, 8.5, rec.TotalHours)
	assert.Equal(t, attendance.SourceCorrection, rec.Source)
	assert.Equal(t, "09:00 - 17:30", c.TimeRange())

	c.FromTime, c.ToTime = "", ""
	assert.Zero(t, c.Record().TotalHours)
	assert.Empty(t, c.TimeRange())
}

func TestStatus_IsFinal(t *testing.T) {
	assert.False(t, StatusPending.IsFinal())
	assert.True(t, StatusApproved.IsFinal())
	assert.True(t, StatusRejected.IsFinal())
	assert.Equal(t, StatusApproved, ActionApprove.Status())
	assert.Equal(t, StatusRejected, ActionReject.Status())
}

func TestCreateCorrectionRequest_Validate(t *testing.T) {
	req := CreateCorrectionRequest{
		UserID:          "u1",
		Date:            "2026-01-12",
		RequestedStatus: attendance.PresenceWFH,
		Reason:          "worked from home",
	}
	require.NoError(t, req.Validate())

	req.ToTime = "17:00"
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from_time is required")

	req.FromTime = "18:00"
	assert.ErrorContains(t, req.Validate(), "to_time must be after from_time")

	req = CreateCorrectionRequest{RequestedStatus: "Sick"}
	err = req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requested_status")
	assert.Contains(t, err.Error(), "reason is required")
}

func TestListFilter_Validate(t *testing.T) {
	assert.NoError(t, ListFilter{}.Validate())
	assert.NoError(t, ListFilter{Status: StatusPending}.Validate())
	assert.Error(t, ListFilter{Status: "done"}.Validate())
}
