package user

import (
	"time"
)

// Schedule is the daily shift an employee's punches are judged against.
type Schedule struct {
	ShiftStart   string `json:"shift_start"`
	ShiftEnd     string `json:"shift_end"`
	GraceMinutes int    `json:"grace_minutes"`
}

func DefaultSchedule() Schedule {
	return Schedule{ShiftStart: "09:00", ShiftEnd: "18:00", GraceMinutes: 15}
}

// ShiftHours is the scheduled length of a working day.
func (s Schedule) ShiftHours() float64 {
	start, ok := parseClock(s.ShiftStart)
	if !ok {
		return 0
	}
	end, ok := parseClock(s.ShiftEnd)
	if !ok || !end.After(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// ExcessHours is the part of hours beyond the shift length.
func (s Schedule) ExcessHours(hours float64) float64 {
	shift := s.ShiftHours()
	if shift <= 0 || hours <= shift {
		return 0
	}
	return hours - shift
}

// IsLate reports a check-in after shift start plus grace.
func (s Schedule) IsLate(checkIn string) bool {
	in, ok := parseClock(checkIn)
	if !ok {
		return false
	}
	start, ok := parseClock(s.ShiftStart)
	if !ok {
		return false
	}
	return in.After(start.Add(time.Duration(s.GraceMinutes) * time.Minute))
}

func parseClock(v string) (time.Time, bool) {
	t, err := time.Parse("15:04", v)
	return t, err == nil
}

// ExtraField is one free-form label on an employee.
type ExtraField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ExtraInfo keeps labels unique and in insertion order.
type ExtraInfo []ExtraField

func (e ExtraInfo) index(label string) int {
	for i, f := range e {
		if f.Label == label {
			return i
		}
	}
	return -1
}

func (e ExtraInfo) Has(label string) bool {
	return e.index(label) >= 0
}

func (e ExtraInfo) Get(label string) (string, bool) {
	if i := e.index(label); i >= 0 {
		return e[i].Value, true
	}
	return "", false
}

// Add appends label with an empty value. Returns false when it already exists.
func (e *ExtraInfo) Add(label string) bool {
	if e.Has(label) {
		return false
	}
	*e = append(*e, ExtraField{Label: label})
	return true
}

// Remove drops label. Returns false when it was absent.
func (e *ExtraInfo) Remove(label string) bool {
	i := e.index(label)
	if i < 0 {
		return false
	}
	*e = append((*e)[:i], (*e)[i+1:]...)
	return true
}

// Set updates the value of an existing label.
func (e ExtraInfo) Set(label, value string) bool {
	i := e.index(label)
	if i < 0 {
		return false
	}
	e[i].Value = value
	return true
}

type User struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Designation  string    `json:"designation,omitempty"`
	PartnerName  string    `json:"partner_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	Schedule     Schedule  `json:"schedule"`
	ExtraInfo    ExtraInfo `json:"extra_info"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
