package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const correctionColumns = `c.id, c.user_id, u.name, to_char(c.date, 'YYYY-MM-DD'), c.requested_status, c.reason,
		c.from_time, c.to_time, c.approver_email, c.token, c.status, c.resolved_by, c.resolved_at,
		c.rejection_reason, c.created_by, c.created_at, c.updated_at`

type correctionRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRepository(db *database.DB) correction.CorrectionRepository {
	return &correctionRepositoryImpl{db: db}
}

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var c correction.CorrectionRequest
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.UserName,
		&c.Date,
		&c.RequestedStatus,
		&c.Reason,
		&c.FromTime,
		&c.ToTime,
		&c.ApproverEmail,
		&c.Token,
		&c.Status,
		&c.ResolvedBy,
		&c.ResolvedAt,
		&c.RejectionReason,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// Create implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) Create(ctx context.Context, req correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	var id string
	err := q.QueryRow(ctx, `
		INSERT INTO correction_requests (
			user_id, date, requested_status, reason, from_time, to_time,
			approver_email, token, status, created_by
		)
		VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`,
		req.UserID,
		req.Date,
		req.RequestedStatus,
		req.Reason,
		req.FromTime,
		req.ToTime,
		req.ApproverEmail,
		req.Token,
		correction.StatusPending,
		req.CreatedBy,
	).Scan(&id)
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}

	return r.GetByID(ctx, id)
}

// GetByID implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + correctionColumns + `
		FROM correction_requests c JOIN users u ON u.id = c.user_id
		WHERE c.id = $1`

	c, err := scanCorrection(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request: %w", err)
	}
	return c, nil
}

// List implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) List(ctx context.Context, filter correction.ListFilter) ([]correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + correctionColumns + `
		FROM correction_requests c JOIN users u ON u.id = c.user_id
		WHERE ($1 = '' OR c.status = $1) AND ($2 = '' OR c.user_id::text = $2)
		ORDER BY c.created_at DESC`

	rows, err := q.Query(ctx, query, string(filter.Status), filter.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list correction requests: %w", err)
	}
	defer rows.Close()

	list := make([]correction.CorrectionRequest, 0)
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan correction request: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Resolve implements correction.CorrectionRepository.
func (r *correctionRepositoryImpl) Resolve(ctx context.Context, res correction.Resolution) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE correction_requests
		SET status = $1, resolved_by = $2, resolved_at = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $5 AND status = $6
	`, res.Status, res.ResolvedBy, res.ResolvedAt, res.RejectionReason, res.ID, correction.StatusPending)
	if isNotFound(err) {
		return correction.CorrectionRequest{}, correction.ErrCorrectionNotFound
	}
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to resolve correction request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, res.ID); err != nil {
			return correction.CorrectionRequest{}, err
		}
		return correction.CorrectionRequest{}, correction.ErrCorrectionAlreadyResolved
	}

	return r.GetByID(ctx, res.ID)
}
