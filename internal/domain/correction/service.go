package correction

import "context"

type CorrectionService interface {
	Create(ctx context.Context, req CreateCorrectionRequest) (CorrectionRequest, error)
	Resolve(ctx context.Context, req ResolveRequest) (CorrectionRequest, error)
	Get(ctx context.Context, id string) (CorrectionRequest, error)
	List(ctx context.Context, filter ListFilter) ([]CorrectionRequest, error)
}
