package correction

import (
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsFinal reports a terminal state. Only pending requests can move.
func (s Status) IsFinal() bool {
	return s == StatusApproved || s == StatusRejected
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

func (a Action) Status() Status {
	if a == ActionApprove {
		return StatusApproved
	}
	return StatusRejected
}

type CorrectionRequest struct {
	ID              string                  `json:"id"`
	UserID          string                  `json:"user_id"`
	UserName        string                  `json:"user_name"`
	Date            string                  `json:"date"`
	RequestedStatus attendance.PresenceType `json:"requested_status"`
	Reason          string                  `json:"reason"`
	FromTime        string                  `json:"from_time,omitempty"`
	ToTime          string                  `json:"to_time,omitempty"`
	ApproverEmail   string                  `json:"approver_email"`
	Token           string                  `json:"-"`
	Status          Status                  `json:"status"`
	ResolvedBy      string                  `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time              `json:"resolved_at,omitempty"`
	RejectionReason string                  `json:"rejection_reason,omitempty"`
	CreatedBy       string                  `json:"created_by"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// TimeRange renders the optional requested hours for emails.
func (c CorrectionRequest) TimeRange() string {
	switch {
	case c.FromTime != "" && c.ToTime != "":
		return c.FromTime + " - " + c.ToTime
	case c.FromTime != "":
		return "from " + c.FromTime
	default:
		return ""
	}
}

// Record builds the daily record an approval writes.
func (c CorrectionRequest) Record() attendance.DailyRecord {
	return attendance.DailyRecord{
		Date:         c.Date,
		CheckIn:      c.FromTime,
		CheckOut:     c.ToTime,
		TotalHours:   attendance.HoursBetween(c.FromTime, c.ToTime),
		PresenceType: c.RequestedStatus,
		Remarks:      c.Reason,
		Source:       attendance.SourceCorrection,
	}
}

// Resolution is the outcome written by the conditional pending -> final update.
type Resolution struct {
	ID              string
	Status          Status
	ResolvedBy      string
	ResolvedAt      time.Time
	RejectionReason string
}
