package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_Match(t *testing.T) {
	dir := NewDirectory([]User{
		{ID: "u1", EmployeeCode: "E001", Name: "John.Doe"},
		{ID: "u2", EmployeeCode: "E002", Name: "Priya Sharma"},
		{ID: "u3", Name: "  Alex   Kim "},
	})

	u, ok := dir.Match("e001", "someone else")
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID, "code wins over name")

	u, ok = dir.Match("", "John Doe")
	require.True(t, ok)
	assert.Equal(t, "u1", u.ID, "spaces fall back to dots")

	u, ok = dir.Match("E999", " priya sharma ")
	require.True(t, ok)
	assert.Equal(t, "u2", u.ID, "unknown code falls back to name")

	u, ok = dir.Match("", "alex kim")
	require.True(t, ok)
	assert.Equal(t, "u3", u.ID)

	_, ok = dir.Match("", "Jane X")
	assert.False(t, ok)

	_, ok = dir.Match("", "")
	assert.False(t, ok)
}

func TestDirectory_AmbiguousNameNeverMatches(t *testing.T) {
	dir := NewDirectory([]User{
		{ID: "u1", EmployeeCode: "E001", Name: "Sam Lee"},
		{ID: "u2", EmployeeCode: "E002", Name: "sam lee"},
		{ID: "u3", Name: "Ana.Ruiz"},
	})

	_, ok := dir.MatchName("Sam Lee")
	assert.False(t, ok)
	assert.True(t, dir.Ambiguous(" SAM LEE "))

	u, ok := dir.Match("E002", "Sam Lee")
	require.True(t, ok)
	assert.Equal(t, "u2", u.ID, "the code still resolves")

	assert.False(t, dir.Ambiguous("Ana Ruiz"))
	u, ok = dir.MatchName("Ana Ruiz")
	require.True(t, ok)
	assert.Equal(t, "u3", u.ID)
}

func TestSchedule_LateAndHours(t *testing.T) {
	s := DefaultSchedule()
	assert.Equal(t, 9.0, s.ShiftHours())
	assert.False(t, s.IsLate("09:15"))
	assert.True(t, s.IsLate("09:16"))
	assert.False(t, s.IsLate(""))

	assert.Equal(t, 0.0, Schedule{ShiftStart: "18:00", ShiftEnd: "09:00"}.ShiftHours())

	assert.Equal(t, 1.5, s.ExcessHours(10.5))
	assert.Equal(t, 0.0, s.ExcessHours(8))
	assert.Equal(t, 0.0, Schedule{}.ExcessHours(12), "no shift, no excess")
}

func TestExtraInfo_UniqueByLabel(t *testing.T) {
	var info ExtraInfo
	assert.True(t, info.Add("Blood Group"))
	assert.False(t, info.Add("Blood Group"))
	assert.True(t, info.Add("T-Shirt Size"))
	assert.True(t, info.Set("T-Shirt Size", "L"))
	assert.False(t, info.Set("Missing", "x"))

	v, ok := info.Get("T-Shirt Size")
	assert.True(t, ok)
	assert.Equal(t, "L", v)

	assert.True(t, info.Remove("Blood Group"))
	assert.False(t, info.Remove("Blood Group"))
	assert.Equal(t, ExtraInfo{{Label: "T-Shirt Size", Value: "L"}}, info)
}

func TestDiff_TracksConstrainedFields(t *testing.T) {
	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	before := User{ID: "u1", Name: "John Doe", Email: "john@example.com", IsActive: true, Schedule: DefaultSchedule()}
	after := before
	after.Name = "John A. Doe"
	after.IsActive = false
	after.Schedule.GraceMinutes = 10
	after.ExtraInfo = ExtraInfo{{Label: "x", Value: "y"}}

	entries := Diff(before, after, "hr@example.com", at)
	require.Len(t, entries, 3)

	fields := map[string]History{}
	for _, e := range entries {
		fields[e.Field] = e
		assert.Equal(t, "u1", e.UserID)
		assert.Equal(t, "hr@example.com", e.ChangedBy)
		assert.Equal(t, at, e.ChangedAt)
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, "John Doe", fields["name"].OldValue)
	assert.Equal(t, "John A. Doe", fields["name"].NewValue)
	assert.Equal(t, "false", fields["is_active"].NewValue)
	assert.Equal(t, "10", fields["grace_minutes"].NewValue)

	assert.Empty(t, Diff(before, before, "hr@example.com", at))
}

func TestCreateUserRequest_Validate(t *testing.T) {
	req := CreateUserRequest{Name: "John Doe", Email: "john@example.com"}
	assert.NoError(t, req.Validate())

	req.Schedule = &ScheduleInput{ShiftStart: "18:00", ShiftEnd: "09:00", GraceMinutes: -1}
	req.Email = "not-an-email"
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule.shift_end")
	assert.Contains(t, err.Error(), "schedule.grace_minutes")
	assert.Contains(t, err.Error(), "invalid email format")
}

func TestUpdateUserRequest_Apply(t *testing.T) {
	name := " Jane Roe "
	active := false
	req := UpdateUserRequest{ID: "u1", Name: &name, IsActive: &active}
	u := req.Apply(User{ID: "u1", Name: "Jane", Email: "jane@example.com", IsActive: true})
	assert.Equal(t, "Jane Roe", u.Name)
	assert.False(t, u.IsActive)
	assert.Equal(t, "jane@example.com", u.Email)
}
