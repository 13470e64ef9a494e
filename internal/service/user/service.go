package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
)

type UserServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	user.HistoryRepository
	now func() time.Time
}

func NewUserService(tx database.Transactor, userRepository user.UserRepository, historyRepository user.HistoryRepository) user.UserService {
	return &UserServiceImpl{
		tx:                tx,
		UserRepository:    userRepository,
		HistoryRepository: historyRepository,
		now:               time.Now,
	}
}

// recordHistory appends field changes. History lives outside Postgres, so a
// failed append is logged and never undoes the committed change.
func (s *UserServiceImpl) recordHistory(ctx context.Context, before, after user.User, changedBy string) {
	entries := user.Diff(before, after, changedBy, s.now())
	if len(entries) == 0 {
		return
	}
	if err := s.HistoryRepository.Append(ctx, entries); err != nil {
		slog.Error("Failed to append employee history", "user_id", after.ID, "error", err)
	}
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	schedule := user.DefaultSchedule()
	if req.Schedule != nil {
		schedule = req.Schedule.ToSchedule()
	}

	created, err := s.UserRepository.Create(ctx, user.User{
		EmployeeCode: strings.TrimSpace(req.EmployeeCode),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Designation:  strings.TrimSpace(req.Designation),
		PartnerName:  strings.TrimSpace(req.PartnerName),
		IsActive:     true,
		Schedule:     schedule,
		ExtraInfo:    s.sharedLabels(ctx),
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) || errors.Is(err, user.ErrEmployeeCodeExists) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.recordHistory(ctx, user.User{ID: created.ID}, created, req.CreatedBy)
	return created, nil
}

// sharedLabels gives a new employee the labels everyone else already carries, with empty values.
func (s *UserServiceImpl) sharedLabels(ctx context.Context) user.ExtraInfo {
	users, err := s.UserRepository.List(ctx, false)
	if err != nil || len(users) == 0 {
		return user.ExtraInfo{}
	}
	info := user.ExtraInfo{}
	for _, f := range users[0].ExtraInfo {
		info.Add(f.Label)
	}
	return info
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.User, error) {
	return s.UserRepository.GetByID(ctx, id)
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, activeOnly bool) ([]user.User, error) {
	return s.UserRepository.List(ctx, activeOnly)
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	var before, after user.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		before, err = s.UserRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		after, err = s.UserRepository.Update(ctx, req.Apply(before))
		return err
	})
	if err != nil {
		return user.User{}, err
	}

	s.recordHistory(ctx, before, after, req.ChangedBy)
	return after, nil
}

// History implements user.UserService.
func (s *UserServiceImpl) History(ctx context.Context, id string) ([]user.History, error) {
	if _, err := s.UserRepository.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.HistoryRepository.ListByUser(ctx, id)
}

// BulkUpdateSchedules implements user.UserService.
func (s *UserServiceImpl) BulkUpdateSchedules(ctx context.Context, req user.BulkScheduleRequest) (user.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return user.BulkResult{}, err
	}

	result := user.BulkResult{Failures: make([]user.ItemFailure, 0)}
	for _, item := range req.Items {
		if err := s.updateSchedule(ctx, item, req.ChangedBy); err != nil {
			result.Failures = append(result.Failures, user.ItemFailure{UserID: item.UserID, Error: err.Error()})
			continue
		}
		result.Updated++
	}
	return result, nil
}

func (s *UserServiceImpl) updateSchedule(ctx context.Context, item user.ScheduleUpdate, changedBy string) error {
	if err := item.ScheduleInput.Validate(); err != nil {
		return err
	}
	before, err := s.UserRepository.GetByID(ctx, item.UserID)
	if err != nil {
		return err
	}
	schedule := item.ToSchedule()
	if err := s.UserRepository.UpdateSchedule(ctx, item.UserID, schedule); err != nil {
		return err
	}
	after := before
	after.Schedule = schedule
	s.recordHistory(ctx, before, after, changedBy)
	return nil
}

// ManageExtraInfo implements user.UserService. The label is added to or removed
// from every employee; users already in the target state count as skipped.
func (s *UserServiceImpl) ManageExtraInfo(ctx context.Context, req user.ExtraInfoRequest) (user.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return user.BulkResult{}, err
	}
	label := strings.TrimSpace(req.Label)

	users, err := s.UserRepository.List(ctx, false)
	if err != nil {
		return user.BulkResult{}, fmt.Errorf("failed to list users: %w", err)
	}

	result := user.BulkResult{Failures: make([]user.ItemFailure, 0)}
	for _, u := range users {
		info := append(user.ExtraInfo(nil), u.ExtraInfo...)
		var changed bool
		if req.Action == user.ExtraInfoAdd {
			changed = info.Add(label)
		} else {
			changed = info.Remove(label)
		}
		if !changed {
			result.Skipped++
			continue
		}
		if err := s.UserRepository.UpdateExtraInfo(ctx, u.ID, info); err != nil {
			result.Failures = append(result.Failures, user.ItemFailure{UserID: u.ID, Error: err.Error()})
			continue
		}
		result.Updated++
	}

	if result.Updated == 0 && len(result.Failures) == 0 && len(users) > 0 {
		if req.Action == user.ExtraInfoAdd {
			return result, user.ErrExtraInfoLabelExists
		}
		return result, user.ErrExtraInfoLabelMissing
	}
	return result, nil
}

// SetExtraInfo implements user.UserService.
func (s *UserServiceImpl) SetExtraInfo(ctx context.Context, req user.SetExtraInfoRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	var updated user.User
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		u, err := s.UserRepository.GetByID(ctx, req.UserID)
		if err != nil {
			return err
		}
		info := append(user.ExtraInfo(nil), u.ExtraInfo...)
		if !info.Set(strings.TrimSpace(req.Label), strings.TrimSpace(req.Value)) {
			return user.ErrExtraInfoLabelMissing
		}
		if err := s.UserRepository.UpdateExtraInfo(ctx, u.ID, info); err != nil {
			return err
		}
		u.ExtraInfo = info
		updated = u
		return nil
	})
	if err != nil {
		return user.User{}, err
	}
	return updated, nil
}
