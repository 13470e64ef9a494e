package correction

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/correction"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/email"
	"github.com/google/uuid"
)

type CorrectionServiceImpl struct {
	tx database.Transactor
	correction.CorrectionRepository
	user.UserRepository
	attendanceService attendance.AttendanceService
	email.EmailService
	publicURL string
	hrEmail   string
	now       func() time.Time
}

func NewCorrectionService(
	tx database.Transactor,
	correctionRepository correction.CorrectionRepository,
	userRepository user.UserRepository,
	attendanceService attendance.AttendanceService,
	emailService email.EmailService,
	publicURL string,
	hrEmail string,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		tx:                   tx,
		CorrectionRepository: correctionRepository,
		UserRepository:       userRepository,
		attendanceService:    attendanceService,
		EmailService:         emailService,
		publicURL:            strings.TrimRight(publicURL, "/"),
		hrEmail:              hrEmail,
		now:                  time.Now,
	}
}

// approver resolves the partner who signs off u's corrections, falling back to HR.
func (s *CorrectionServiceImpl) approver(ctx context.Context, u user.User) (string, error) {
	if strings.TrimSpace(u.PartnerName) == "" {
		return s.hrEmail, nil
	}
	users, err := s.UserRepository.List(ctx, true)
	if err != nil {
		return "", fmt.Errorf("failed to list users: %w", err)
	}
	dir := user.NewDirectory(users)
	partner, ok := dir.MatchName(u.PartnerName)
	if !ok || partner.ID == u.ID || partner.Email == "" {
		slog.Warn("Correction partner not found, routing to HR", "user_id", u.ID, "partner_name", u.PartnerName, "ambiguous", dir.Ambiguous(u.PartnerName))
		return s.hrEmail, nil
	}
	return partner.Email, nil
}

func (s *CorrectionServiceImpl) link(c correction.CorrectionRequest, action correction.Action) string {
	return fmt.Sprintf("%s/api/v1/corrections/%s/%s?token=%s", s.publicURL, c.ID, action, url.QueryEscape(c.Token))
}

// Create implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Create(ctx context.Context, req correction.CreateCorrectionRequest) (correction.CorrectionRequest, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionRequest{}, err
	}

	u, err := s.UserRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	approverEmail, err := s.approver(ctx, u)
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	created, err := s.CorrectionRepository.Create(ctx, correction.CorrectionRequest{
		UserID:          u.ID,
		UserName:        u.Name,
		Date:            req.Date,
		RequestedStatus: req.RequestedStatus,
		Reason:          strings.TrimSpace(req.Reason),
		FromTime:        req.FromTime,
		ToTime:          req.ToTime,
		ApproverEmail:   approverEmail,
		Token:           uuid.NewString(),
		Status:          correction.StatusPending,
		CreatedBy:       req.CreatedBy,
	})
	if err != nil {
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}
	if created.UserName == "" {
		created.UserName = u.Name
	}

	data := email.CorrectionRequestEmail{
		EmployeeName:    created.UserName,
		Date:            created.Date,
		RequestedStatus: string(created.RequestedStatus),
		Reason:          created.Reason,
		TimeRange:       created.TimeRange(),
		ApproveLink:     s.link(created, correction.ActionApprove),
		RejectLink:      s.link(created, correction.ActionReject),
	}
	if err := s.EmailService.SendCorrectionRequest(approverEmail, data); err != nil {
		slog.Error("Failed to send correction request email", "correction_id", created.ID, "to", approverEmail, "error", err)
	}

	return created, nil
}

// Resolve implements correction.CorrectionService. The status change, the
// attendance write and the leave ledger update share one transaction.
func (s *CorrectionServiceImpl) Resolve(ctx context.Context, req correction.ResolveRequest) (correction.CorrectionRequest, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionRequest{}, err
	}

	var resolved correction.CorrectionRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.CorrectionRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if subtle.ConstantTimeCompare([]byte(existing.Token), []byte(req.Token)) != 1 {
			return correction.ErrInvalidToken
		}
		if existing.Status.IsFinal() {
			return correction.ErrCorrectionAlreadyResolved
		}

		res := correction.Resolution{
			ID:         existing.ID,
			Status:     req.Action.Status(),
			ResolvedBy: existing.ApproverEmail,
			ResolvedAt: s.now(),
		}
		if req.Action == correction.ActionReject {
			res.RejectionReason = strings.TrimSpace(req.Reason)
		}

		resolved, err = s.CorrectionRepository.Resolve(ctx, res)
		if err != nil {
			return err
		}

		if req.Action == correction.ActionApprove {
			if _, err := s.attendanceService.ApplyDay(ctx, resolved.UserID, resolved.Record()); err != nil {
				return fmt.Errorf("failed to apply correction: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return correction.CorrectionRequest{}, err
	}

	slog.Info("Correction request resolved", "correction_id", resolved.ID, "status", resolved.Status, "resolved_by", resolved.ResolvedBy)
	s.notifyResolved(ctx, resolved)
	return resolved, nil
}

func (s *CorrectionServiceImpl) notifyResolved(ctx context.Context, c correction.CorrectionRequest) {
	u, err := s.UserRepository.GetByID(ctx, c.UserID)
	if err != nil || u.Email == "" {
		slog.Warn("Skipping correction resolution email", "correction_id", c.ID, "error", err)
		return
	}
	data := email.CorrectionResolvedEmail{
		EmployeeName:    u.Name,
		Date:            c.Date,
		RequestedStatus: string(c.RequestedStatus),
		Status:          string(c.Status),
		ResolvedBy:      c.ResolvedBy,
		RejectionReason: c.RejectionReason,
	}
	if err := s.EmailService.SendCorrectionResolved(u.Email, data); err != nil {
		slog.Error("Failed to send correction resolution email", "correction_id", c.ID, "to", u.Email, "error", err)
	}
}

// Get implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Get(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	return s.CorrectionRepository.GetByID(ctx, id)
}

// List implements correction.CorrectionService.
func (s *CorrectionServiceImpl) List(ctx context.Context, filter correction.ListFilter) ([]correction.CorrectionRequest, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.CorrectionRepository.List(ctx, filter)
}
