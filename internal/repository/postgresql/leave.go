package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

// Get implements leave.LeaveBalanceRepository. Inside a transaction the row is locked.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, userID string) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT user_id, earned, used, remaining, updated_at FROM leave_balances WHERE user_id = $1`
	if _, inTx := q.(pgx.Tx); inTx {
		query += ` FOR UPDATE`
	}

	var b leave.LeaveBalance
	err := q.QueryRow(ctx, query, userID).Scan(&b.UserID, &b.Earned, &b.Used, &b.Remaining, &b.UpdatedAt)
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveBalance{}, leave.ErrBalanceNotFound
		}
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// Upsert implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Upsert(ctx context.Context, b leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (user_id, earned, used, remaining)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id)
		DO UPDATE SET earned = EXCLUDED.earned, used = EXCLUDED.used,
			remaining = EXCLUDED.remaining, updated_at = NOW()
		RETURNING user_id, earned, used, remaining, updated_at
	`

	var saved leave.LeaveBalance
	err := q.QueryRow(ctx, query, b.UserID, b.Earned, b.Used, b.Remaining).
		Scan(&saved.UserID, &saved.Earned, &saved.Used, &saved.Remaining, &saved.UpdatedAt)
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return saved, nil
}

// List implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) List(ctx context.Context) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT user_id, earned, used, remaining, updated_at FROM leave_balances ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	balances := make([]leave.LeaveBalance, 0)
	for rows.Next() {
		var b leave.LeaveBalance
		if err := rows.Scan(&b.UserID, &b.Earned, &b.Used, &b.Remaining, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

type leaveAccrualRepositoryImpl struct {
	db *database.DB
}

func NewLeaveAccrualRepository(db *database.DB) leave.LeaveAccrualRepository {
	return &leaveAccrualRepositoryImpl{db: db}
}

// Create implements leave.LeaveAccrualRepository.
func (r *leaveAccrualRepositoryImpl) Create(ctx context.Context, a leave.LeaveAccrual) (bool, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		INSERT INTO leave_accruals (user_id, month_year, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, month_year) DO NOTHING
	`, a.UserID, a.MonthYear, a.Amount)
	if err != nil {
		return false, fmt.Errorf("failed to create leave accrual: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

type leaveUsageRepositoryImpl struct {
	db *database.DB
}

func NewLeaveUsageRepository(db *database.DB) leave.LeaveUsageRepository {
	return &leaveUsageRepositoryImpl{db: db}
}

// Get implements leave.LeaveUsageRepository.
func (r *leaveUsageRepositoryImpl) Get(ctx context.Context, userID, date string) (leave.LeaveUsage, error) {
	q := GetQuerier(ctx, r.db)

	var u leave.LeaveUsage
	err := q.QueryRow(ctx, `
		SELECT id, user_id, to_char(date, 'YYYY-MM-DD'), amount, created_at
		FROM leave_usages WHERE user_id = $1 AND date = $2::date
	`, userID, date).Scan(&u.ID, &u.UserID, &u.Date, &u.Amount, &u.CreatedAt)
	if err != nil {
		if isNotFound(err) {
			return leave.LeaveUsage{}, leave.ErrUsageNotFound
		}
		return leave.LeaveUsage{}, fmt.Errorf("failed to get leave usage: %w", err)
	}
	return u, nil
}

// Upsert implements leave.LeaveUsageRepository.
func (r *leaveUsageRepositoryImpl) Upsert(ctx context.Context, u leave.LeaveUsage) error {
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx, `
		INSERT INTO leave_usages (user_id, date, amount)
		VALUES ($1, $2::date, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET amount = EXCLUDED.amount
	`, u.UserID, u.Date, u.Amount)
	if err != nil {
		return fmt.Errorf("failed to upsert leave usage: %w", err)
	}
	return nil
}

// Delete implements leave.LeaveUsageRepository.
func (r *leaveUsageRepositoryImpl) Delete(ctx context.Context, userID, date string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_usages WHERE user_id = $1 AND date = $2::date`, userID, date)
	if err != nil {
		return fmt.Errorf("failed to delete leave usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrUsageNotFound
	}
	return nil
}
