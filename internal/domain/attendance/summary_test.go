package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMonth() map[string]DailyRecord {
	days := map[string]DailyRecord{
		"2026-01-05": {PresenceType: PresenceThumbMachine, CheckIn: "09:00", CheckOut: "18:30", TotalHours: 9.5, ExcessHours: 0.5},
		"2026-01-06": {PresenceType: PresenceThumbMachine, CheckIn: "09:40", CheckOut: "18:00", TotalHours: 8.33, Late: true},
		"2026-01-07": {PresenceType: PresenceThumbMachine},
		"2026-01-08": {PresenceType: PresenceHalfDay, TotalHours: 4},
		"2026-01-09": {PresenceType: PresenceLeave},
		"2026-01-12": {PresenceType: PresenceHalfDayLeave, TotalHours: 4},
		"2026-01-13": {PresenceType: PresenceWFH},
		"2026-01-14": {PresenceType: PresencePresentOvertime, TotalHours: 11, ExcessHours: 2},
		"2026-01-15": {PresenceType: PresenceAbsent, Late: true},
		"2026-01-26": {PresenceType: PresenceHoliday},
	}
	for date, rec := range days {
		rec.Date = date
		days[date] = rec.Normalize()
	}
	return days
}

func TestSummarize_CountsAndSums(t *testing.T) {
	s := Summarize(sampleMonth())

	assert.Equal(t, 10, s.RecordedDays)
	assert.Equal(t, 4, s.PresentDays, "two machine days with hours, WFH, overtime")
	assert.Equal(t, 2, s.AbsentDays, "zero-hour machine day and explicit absent")
	assert.Equal(t, 2, s.HalfDays)
	assert.Equal(t, 1.5, s.LeaveDays)
	assert.Equal(t, 1, s.Holidays)
	assert.Equal(t, 1, s.LateArrivals, "late flag on an absent day is ignored")
	assert.Equal(t, 36.83, s.TotalHours)
	assert.Equal(t, 2.5, s.TotalExcessHours)
	// 1 + 1 + 0 + 0.75 + 1 + 0.5 + 1 + 1.2 + 0 + 1
	assert.Equal(t, 7.45, s.TotalValue)
}

func TestSummarize_TotalValueEqualsSumOfDayValues(t *testing.T) {
	days := sampleMonth()
	var sum float64
	for _, rec := range days {
		sum += rec.Value
	}
	assert.InDelta(t, sum, Summarize(days).TotalValue, 0.001)
}

func TestSummarize_Idempotent(t *testing.T) {
	days := sampleMonth()
	assert.Equal(t, Summarize(days), Summarize(days))
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, MonthlySummary{}, Summarize(nil))
}

func TestDailyRecord_ThumbMachineZeroHoursIsAbsent(t *testing.T) {
	rec := DailyRecord{PresenceType: PresenceThumbMachine, CheckIn: "09:00"}.Normalize()
	assert.True(t, rec.IsAbsent())
	assert.Equal(t, 0.0, rec.Value)

	rec.TotalHours = 8
	assert.False(t, rec.IsAbsent())
	assert.Equal(t, 1.0, rec.Normalize().Value)
}

func TestDailyRecord_ValueFollowsPresenceType(t *testing.T) {
	cases := map[PresenceType]float64{
		PresenceManual:          1.0,
		PresenceRemote:          1.0,
		PresencePresent:         1.0,
		PresencePresentOvertime: 1.2,
		PresenceWFH:             1.0,
		PresenceHalfDay:         0.75,
		PresenceWFHHalfDay:      0.5,
		PresenceLeave:           1.0,
		PresenceHalfDayLeave:    0.5,
		PresenceHoliday:         1.0,
		PresenceAbsent:          0.0,
	}
	for presence, want := range cases {
		rec := DailyRecord{PresenceType: presence, Value: 0.99}.Normalize()
		assert.Equal(t, want, rec.Value, presence)
		assert.GreaterOrEqual(t, rec.Value, 0.0)
		assert.LessOrEqual(t, rec.Value, 1.2)
	}
}

func TestDailyRecord_Protection(t *testing.T) {
	assert.True(t, DailyRecord{PresenceType: PresenceLeave, Source: SourceImport}.IsProtected())
	assert.True(t, DailyRecord{PresenceType: PresencePresent, Source: SourceManual}.IsProtected())
	assert.True(t, DailyRecord{PresenceType: PresenceWFH, Source: SourceCorrection}.IsProtected())
	assert.False(t, DailyRecord{PresenceType: PresenceThumbMachine, Source: SourceImport}.IsProtected())
	assert.False(t, DailyRecord{PresenceType: PresenceHoliday, Source: SourceHoliday}.IsProtected())
}

func TestPresenceType_LeaveDebit(t *testing.T) {
	assert.Equal(t, "1", PresenceLeave.LeaveDebit().String())
	assert.Equal(t, "0.5", PresenceHalfDayLeave.LeaveDebit().String())
	assert.True(t, PresenceWFH.LeaveDebit().IsZero())
	assert.False(t, PresenceType("Vacation").IsValid())
}

func TestUpdateDayRequest_Validate(t *testing.T) {
	req := UpdateDayRequest{
		UserID:       "u1",
		MonthYear:    "2026-01",
		Date:         "2026-01-12",
		PresenceType: PresencePresent,
		CheckIn:      "09:00",
		CheckOut:     "18:00",
	}
	require.NoError(t, req.Validate())

	bad := req
	bad.Date = "2026-02-01"
	bad.CheckOut = "08:00"
	bad.PresenceType = "Vacation"
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date must fall inside month_year")
	assert.Contains(t, err.Error(), "presence_type")
	assert.Contains(t, err.Error(), "check_out must be after check_in")
}

func TestHoursBetween(t *testing.T) {
	assert.Equal(t, 9.0, HoursBetween("09:00", "18:00"))
	assert.Equal(t, 8.33, HoursBetween("09:40", "18:00"))
	assert.Equal(t, 0.0, HoursBetween("09:00", ""))
	assert.Equal(t, 0.0, HoursBetween("18:00", "09:00"))
}
