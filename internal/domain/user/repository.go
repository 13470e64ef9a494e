package user

import (
	"context"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, activeOnly bool) ([]User, error)
	Update(ctx context.Context, u User) (User, error)
	UpdateSchedule(ctx context.Context, id string, schedule Schedule) error
	UpdateExtraInfo(ctx context.Context, id string, info ExtraInfo) error
}

// HistoryRepository - append-only employee_history collection
type HistoryRepository interface {
	Append(ctx context.Context, entries []History) error
	ListByUser(ctx context.Context, userID string) ([]History, error)
	ListAll(ctx context.Context) ([]History, error)
}
