package correction

import "context"

type CorrectionRepository interface {
	Create(ctx context.Context, req CorrectionRequest) (CorrectionRequest, error)
	GetByID(ctx context.Context, id string) (CorrectionRequest, error)
	List(ctx context.Context, filter ListFilter) ([]CorrectionRequest, error)
	// Resolve moves a pending request to its final status. It returns
	// ErrCorrectionAlreadyResolved when the row is no longer pending.
	Resolve(ctx context.Context, res Resolution) (CorrectionRequest, error)
}
