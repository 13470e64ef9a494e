package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveBalance is a user's ledger. Remaining is only ever set from Earned and Used.
type LeaveBalance struct {
	UserID    string          `json:"user_id"`
	Earned    decimal.Decimal `json:"earned"`
	Used      decimal.Decimal `json:"used"`
	Remaining decimal.Decimal `json:"remaining"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewLeaveBalance(userID string) LeaveBalance {
	return LeaveBalance{
		UserID:    userID,
		Earned:    decimal.Zero,
		Used:      decimal.Zero,
		Remaining: decimal.Zero,
	}
}

// Credit adds accrued leave.
func (b *LeaveBalance) Credit(amount decimal.Decimal) {
	b.Earned = b.Earned.Add(amount)
	b.recompute()
}

// Debit records leave taken. Remaining may go negative; the dashboard shows the deficit.
func (b *LeaveBalance) Debit(amount decimal.Decimal) {
	b.Used = b.Used.Add(amount)
	b.recompute()
}

// Restore gives back a previous debit.
func (b *LeaveBalance) Restore(amount decimal.Decimal) {
	b.Used = b.Used.Sub(amount)
	if b.Used.IsNegative() {
		b.Used = decimal.Zero
	}
	b.recompute()
}

func (b *LeaveBalance) recompute() {
	b.Remaining = b.Earned.Sub(b.Used)
}

// LeaveAccrual marks that a user was credited for a month. One per (user, month).
type LeaveAccrual struct {
	ID        string
	UserID    string
	MonthYear string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// LeaveUsage is the debit recorded for one leave day. One per (user, date).
type LeaveUsage struct {
	ID        string
	UserID    string
	Date      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}
