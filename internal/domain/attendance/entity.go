package attendance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type PresenceType string

const (
	PresenceThumbMachine    PresenceType = "ThumbMachine"
	PresenceManual          PresenceType = "Manual"
	PresenceRemote          PresenceType = "Remote"
	PresencePresent         PresenceType = "Present"
	PresencePresentOvertime PresenceType = "PresentOvertime"
	PresenceWFH             PresenceType = "WFH"
	PresenceHalfDay         PresenceType = "HalfDay"
	PresenceWFHHalfDay      PresenceType = "WFHHalfDay"
	PresenceLeave           PresenceType = "Leave"
	PresenceHalfDayLeave    PresenceType = "HalfDayLeave"
	PresenceHoliday         PresenceType = "Holiday"
	PresenceAbsent          PresenceType = "Absent"
)

type category int

const (
	categoryPresent category = iota
	categoryHalfDay
	categoryLeave
	categoryHalfDayLeave
	categoryHoliday
	categoryAbsent
)

type presenceRule struct {
	value    float64
	category category
}

var presenceRules = map[PresenceType]presenceRule{
	PresenceThumbMachine:    {1.0, categoryPresent},
	PresenceManual:          {1.0, categoryPresent},
	PresenceRemote:          {1.0, categoryPresent},
	PresencePresent:         {1.0, categoryPresent},
	PresencePresentOvertime: {1.2, categoryPresent},
	PresenceWFH:             {1.0, categoryPresent},
	PresenceHalfDay:         {0.75, categoryHalfDay},
	PresenceWFHHalfDay:      {0.5, categoryHalfDay},
	PresenceLeave:           {1.0, categoryLeave},
	PresenceHalfDayLeave:    {0.5, categoryHalfDayLeave},
	PresenceHoliday:         {1.0, categoryHoliday},
	PresenceAbsent:          {0.0, categoryAbsent},
}

// PresenceTypes lists the accepted tags in display order.
func PresenceTypes() []PresenceType {
	return []PresenceType{
		PresenceThumbMachine, PresenceManual, PresenceRemote, PresencePresent,
		PresencePresentOvertime, PresenceWFH, PresenceHalfDay, PresenceWFHHalfDay,
		PresenceLeave, PresenceHalfDayLeave, PresenceHoliday, PresenceAbsent,
	}
}

func (p PresenceType) IsValid() bool {
	_, ok := presenceRules[p]
	return ok
}

// IsLeave reports whether the type draws on the leave balance.
func (p PresenceType) IsLeave() bool {
	rule := presenceRules[p]
	return rule.category == categoryLeave || rule.category == categoryHalfDayLeave
}

// LeaveDebit is the balance consumed by one day of this type.
func (p PresenceType) LeaveDebit() decimal.Decimal {
	switch presenceRules[p].category {
	case categoryLeave:
		return decimal.NewFromInt(1)
	case categoryHalfDayLeave:
		return decimal.NewFromFloat(0.5)
	default:
		return decimal.Zero
	}
}

type Source string

const (
	SourceImport     Source = "import"
	SourceManual     Source = "manual"
	SourceCorrection Source = "correction"
	SourceHoliday    Source = "holiday"
)

// DailyRecord is one calendar day of a user-month. Value is always derived from the presence type.
type DailyRecord struct {
	Date         string       `json:"date"`
	CheckIn      string       `json:"check_in,omitempty"`
	CheckOut     string       `json:"check_out,omitempty"`
	TotalHours   float64      `json:"total_hours"`
	ExcessHours  float64      `json:"excess_hours"`
	PresenceType PresenceType `json:"presence_type"`
	HalfDay      bool         `json:"half_day"`
	Late         bool         `json:"late"`
	Value        float64      `json:"value"`
	Remarks      string       `json:"remarks,omitempty"`
	Source       Source       `json:"source"`
}

// IsAbsent is the single absence rule: tagged Absent, or machine-sourced with no hours.
func (d DailyRecord) IsAbsent() bool {
	if d.PresenceType == PresenceAbsent {
		return true
	}
	return d.PresenceType == PresenceThumbMachine && d.TotalHours <= 0
}

// ComputeValue returns the attendance value implied by the presence type.
func (d DailyRecord) ComputeValue() float64 {
	if d.IsAbsent() {
		return 0
	}
	return presenceRules[d.PresenceType].value
}

// Normalize derives Value and HalfDay. Every write path calls it before storing.
func (d DailyRecord) Normalize() DailyRecord {
	d.Value = d.ComputeValue()
	cat := presenceRules[d.PresenceType].category
	d.HalfDay = cat == categoryHalfDay || cat == categoryHalfDayLeave
	d.TotalHours = round2(d.TotalHours)
	d.ExcessHours = round2(d.ExcessHours)
	return d
}

// IsProtected reports whether an import must leave the day alone.
func (d DailyRecord) IsProtected() bool {
	if d.Source == SourceManual || d.Source == SourceCorrection {
		return true
	}
	return d.PresenceType.IsLeave()
}

// MonthlySummary is derived from the day map and never edited directly.
type MonthlySummary struct {
	TotalHours       float64 `json:"total_hours"`
	TotalExcessHours float64 `json:"total_excess_hours"`
	LateArrivals     int     `json:"late_arrivals"`
	HalfDays         int     `json:"half_days"`
	PresentDays      int     `json:"present_days"`
	AbsentDays       int     `json:"absent_days"`
	LeaveDays        float64 `json:"leave_days"`
	Holidays         int     `json:"holidays"`
	TotalValue       float64 `json:"total_value"`
	RecordedDays     int     `json:"recorded_days"`
}

// MonthlyAttendance is the stored user-month document.
type MonthlyAttendance struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	MonthYear string                 `json:"month_year"`
	Days      map[string]DailyRecord `json:"days"`
	Summary   MonthlySummary         `json:"summary"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func NewMonthlyAttendance(userID, monthYear string) MonthlyAttendance {
	return MonthlyAttendance{
		UserID:    userID,
		MonthYear: monthYear,
		Days:      make(map[string]DailyRecord),
	}
}

// MonthYearOf returns the YYYY-MM partition of a YYYY-MM-DD date.
func MonthYearOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
