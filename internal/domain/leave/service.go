package leave

import (
	"context"

	"github.com/shopspring/decimal"
)

type LeaveService interface {
	IncrementMonthly(ctx context.Context, monthYear string) (IncrementResult, error)
	RecordLeaveUsage(ctx context.Context, userID, date string, amount decimal.Decimal) (LeaveBalance, error)
	ReleaseLeaveUsage(ctx context.Context, userID, date string) (LeaveBalance, error)
	GetBalance(ctx context.Context, userID string) (BalanceResponse, error)
	ListBalances(ctx context.Context) ([]BalanceResponse, error)
}
