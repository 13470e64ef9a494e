package holiday

import "context"

type HolidayRepository interface {
	Create(ctx context.Context, h Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Update(ctx context.Context, h Holiday) (Holiday, error)
	Delete(ctx context.Context, id string) error
	// List returns holidays ordered by date. Empty year lists all.
	List(ctx context.Context, year string) ([]Holiday, error)
	// ListBetween returns holidays with from <= date <= to.
	ListBetween(ctx context.Context, from, to string) ([]Holiday, error)
}
