package holiday

import "context"

type HolidayService interface {
	Create(ctx context.Context, req CreateHolidayRequest) (Holiday, error)
	Update(ctx context.Context, req UpdateHolidayRequest) (Holiday, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListHolidayFilter) ([]Holiday, error)
}
