package user

import "context"

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (User, error)
	Get(ctx context.Context, id string) (User, error)
	List(ctx context.Context, activeOnly bool) ([]User, error)
	Update(ctx context.Context, req UpdateUserRequest) (User, error)
	History(ctx context.Context, id string) ([]History, error)
	BulkUpdateSchedules(ctx context.Context, req BulkScheduleRequest) (BulkResult, error)
	ManageExtraInfo(ctx context.Context, req ExtraInfoRequest) (BulkResult, error)
	SetExtraInfo(ctx context.Context, req SetExtraInfoRequest) (User, error)
}
