package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	leave.LeaveBalanceRepository
	leave.LeaveAccrualRepository
	leave.LeaveUsageRepository
	monthlyAccrual decimal.Decimal
	loc            *time.Location
	now            func() time.Time
}

func NewLeaveService(
	tx database.Transactor,
	userRepository user.UserRepository,
	balanceRepository leave.LeaveBalanceRepository,
	accrualRepository leave.LeaveAccrualRepository,
	usageRepository leave.LeaveUsageRepository,
	monthlyAccrual decimal.Decimal,
	loc *time.Location,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		tx:                     tx,
		UserRepository:         userRepository,
		LeaveBalanceRepository: balanceRepository,
		LeaveAccrualRepository: accrualRepository,
		LeaveUsageRepository:   usageRepository,
		monthlyAccrual:         monthlyAccrual,
		loc:                    loc,
		now:                    time.Now,
	}
}

// balance loads the user's ledger, starting an empty one for first-time users.
func (s *LeaveServiceImpl) balance(ctx context.Context, userID string) (leave.LeaveBalance, error) {
	b, err := s.LeaveBalanceRepository.Get(ctx, userID)
	if errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.NewLeaveBalance(userID), nil
	}
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// IncrementMonthly implements leave.LeaveService.
func (s *LeaveServiceImpl) IncrementMonthly(ctx context.Context, monthYear string) (leave.IncrementResult, error) {
	req := leave.IncrementMonthlyRequest{MonthYear: monthYear}
	if err := req.Validate(); err != nil {
		return leave.IncrementResult{}, err
	}
	if monthYear == "" {
		monthYear = s.now().In(s.loc).Format("2006-01")
	}

	users, err := s.UserRepository.List(ctx, true)
	if err != nil {
		return leave.IncrementResult{}, fmt.Errorf("failed to list active users: %w", err)
	}

	result := leave.IncrementResult{
		MonthYear: monthYear,
		Amount:    s.monthlyAccrual,
		Failures:  make([]leave.UserFailure, 0),
	}

	for _, u := range users {
		credited := false
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			created, err := s.LeaveAccrualRepository.Create(ctx, leave.LeaveAccrual{
				UserID:    u.ID,
				MonthYear: monthYear,
				Amount:    s.monthlyAccrual,
			})
			if err != nil || !created {
				return err
			}

			b, err := s.balance(ctx, u.ID)
			if err != nil {
				return err
			}
			b.Credit(s.monthlyAccrual)
			if _, err := s.LeaveBalanceRepository.Upsert(ctx, b); err != nil {
				return fmt.Errorf("failed to save leave balance: %w", err)
			}
			credited = true
			return nil
		})

		switch {
		case err != nil:
			slog.Error("Monthly leave accrual failed", "user_id", u.ID, "month_year", monthYear, "error", err)
			result.Failures = append(result.Failures, leave.UserFailure{UserID: u.ID, Error: err.Error()})
		case credited:
			result.Credited++
		default:
			result.Skipped++
		}
	}

	return result, nil
}

// RecordLeaveUsage implements leave.LeaveService. Recording the same day again
// only applies the difference from the previous amount.
func (s *LeaveServiceImpl) RecordLeaveUsage(ctx context.Context, userID, date string, amount decimal.Decimal) (leave.LeaveBalance, error) {
	if !amount.IsPositive() {
		return leave.LeaveBalance{}, leave.ErrInvalidAmount
	}

	var saved leave.LeaveBalance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		previous := decimal.Zero
		usage, err := s.LeaveUsageRepository.Get(ctx, userID, date)
		switch {
		case err == nil:
			previous = usage.Amount
		case !errors.Is(err, leave.ErrUsageNotFound):
			return fmt.Errorf("failed to get leave usage: %w", err)
		}

		b, err := s.balance(ctx, userID)
		if err != nil {
			return err
		}

		if delta := amount.Sub(previous); !delta.IsZero() {
			if err := s.LeaveUsageRepository.Upsert(ctx, leave.LeaveUsage{UserID: userID, Date: date, Amount: amount}); err != nil {
				return fmt.Errorf("failed to save leave usage: %w", err)
			}
			if delta.IsPositive() {
				b.Debit(delta)
			} else {
				b.Restore(delta.Neg())
			}
		}

		saved, err = s.LeaveBalanceRepository.Upsert(ctx, b)
		if err != nil {
			return fmt.Errorf("failed to save leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	return saved, nil
}

// ReleaseLeaveUsage implements leave.LeaveService. Releasing a day with no usage is a no-op.
func (s *LeaveServiceImpl) ReleaseLeaveUsage(ctx context.Context, userID, date string) (leave.LeaveBalance, error) {
	var saved leave.LeaveBalance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		b, err := s.balance(ctx, userID)
		if err != nil {
			return err
		}

		usage, err := s.LeaveUsageRepository.Get(ctx, userID, date)
		if errors.Is(err, leave.ErrUsageNotFound) {
			saved = b
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get leave usage: %w", err)
		}

		if err := s.LeaveUsageRepository.Delete(ctx, userID, date); err != nil {
			return fmt.Errorf("failed to delete leave usage: %w", err)
		}
		b.Restore(usage.Amount)

		saved, err = s.LeaveBalanceRepository.Upsert(ctx, b)
		if err != nil {
			return fmt.Errorf("failed to save leave balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.LeaveBalance{}, err
	}
	return saved, nil
}

func toBalanceResponse(u user.User, b leave.LeaveBalance) leave.BalanceResponse {
	resp := leave.BalanceResponse{
		UserID:       u.ID,
		EmployeeCode: u.EmployeeCode,
		Name:         u.Name,
		Earned:       b.Earned,
		Used:         b.Used,
		Remaining:    b.Remaining,
	}
	if !b.UpdatedAt.IsZero() {
		updatedAt := b.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// GetBalance implements leave.LeaveService.
func (s *LeaveServiceImpl) GetBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	b, err := s.balance(ctx, userID)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return toBalanceResponse(u, b), nil
}

// ListBalances implements leave.LeaveService. Every user appears, including those never credited.
func (s *LeaveServiceImpl) ListBalances(ctx context.Context) ([]leave.BalanceResponse, error) {
	users, err := s.UserRepository.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	balances, err := s.LeaveBalanceRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}

	byUser := make(map[string]leave.LeaveBalance, len(balances))
	for _, b := range balances {
		byUser[b.UserID] = b
	}

	resp := make([]leave.BalanceResponse, 0, len(users))
	for _, u := range users {
		b, ok := byUser[u.ID]
		if !ok {
			b = leave.NewLeaveBalance(u.ID)
		}
		resp = append(resp, toBalanceResponse(u, b))
	}
	return resp, nil
}
