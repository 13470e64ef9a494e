package leave

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLeaveBalance_RemainingTracksEarnedMinusUsed(t *testing.T) {
	b := NewLeaveBalance("u1")
	check := func() {
		assert.True(t, b.Remaining.Equal(b.Earned.Sub(b.Used)), "remaining %s earned %s used %s", b.Remaining, b.Earned, b.Used)
	}

	b.Credit(decimal.NewFromInt(2))
	check()
	b.Debit(decimal.NewFromInt(1))
	check()
	b.Debit(decimal.NewFromFloat(0.5))
	check()
	assert.Equal(t, "0.5", b.Remaining.String())

	b.Restore(decimal.NewFromInt(1))
	check()
	assert.Equal(t, "1.5", b.Remaining.String())

	b.Restore(decimal.NewFromInt(5))
	check()
	assert.True(t, b.Used.IsZero())
}

func TestIncrementMonthlyRequest_Validate(t *testing.T) {
	assert.NoError(t, (&IncrementMonthlyRequest{}).Validate())
	assert.NoError(t, (&IncrementMonthlyRequest{MonthYear: "2026-01"}).Validate())
	assert.Error(t, (&IncrementMonthlyRequest{MonthYear: "January"}).Validate())
}
