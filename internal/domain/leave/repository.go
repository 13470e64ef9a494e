package leave

import "context"

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	Get(ctx context.Context, userID string) (LeaveBalance, error)
	Upsert(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)
	List(ctx context.Context) ([]LeaveBalance, error)
}

// LeaveAccrualRepository - interface for leave_accruals table
type LeaveAccrualRepository interface {
	// Create returns false without error when the (user, month) accrual already exists.
	Create(ctx context.Context, accrual LeaveAccrual) (bool, error)
}

// LeaveUsageRepository - interface for leave_usages table
type LeaveUsageRepository interface {
	Get(ctx context.Context, userID, date string) (LeaveUsage, error)
	Upsert(ctx context.Context, usage LeaveUsage) error
	Delete(ctx context.Context, userID, date string) error
}
