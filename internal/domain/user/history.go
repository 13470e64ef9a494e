package user

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// History is one field-level change to an employee. Entries are appended, never edited.
type History struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Field     string    `bson:"field" json:"field"`
	OldValue  string    `bson:"old_value" json:"old_value"`
	NewValue  string    `bson:"new_value" json:"new_value"`
	ChangedBy string    `bson:"changed_by" json:"changed_by"`
	ChangedAt time.Time `bson:"changed_at" json:"changed_at"`
}

type trackedField struct {
	name  string
	value func(User) string
}

var trackedFields = []trackedField{
	{"employee_code", func(u User) string { return u.EmployeeCode }},
	{"name", func(u User) string { return u.Name }},
	{"email", func(u User) string { return u.Email }},
	{"designation", func(u User) string { return u.Designation }},
	{"partner_name", func(u User) string { return u.PartnerName }},
	{"is_active", func(u User) string { return strconv.FormatBool(u.IsActive) }},
	{"shift_start", func(u User) string { return u.Schedule.ShiftStart }},
	{"shift_end", func(u User) string { return u.Schedule.ShiftEnd }},
	{"grace_minutes", func(u User) string { return strconv.Itoa(u.Schedule.GraceMinutes) }},
}

// Diff returns history entries for tracked fields that differ between before and after.
func Diff(before, after User, changedBy string, at time.Time) []History {
	var entries []History
	for _, f := range trackedFields {
		oldValue, newValue := f.value(before), f.value(after)
		if oldValue == newValue {
			continue
		}
		entries = append(entries, History{
			ID:        uuid.NewString(),
			UserID:    after.ID,
			Field:     f.name,
			OldValue:  oldValue,
			NewValue:  newValue,
			ChangedBy: changedBy,
			ChangedAt: at,
		})
	}
	return entries
}
