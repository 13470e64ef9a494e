package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, COALESCE(employee_code, ''), name, email, designation, partner_name, is_active,
		shift_start, shift_end, grace_minutes, extra_info, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.EmployeeCode,
		&u.Name,
		&u.Email,
		&u.Designation,
		&u.PartnerName,
		&u.IsActive,
		&u.Schedule.ShiftStart,
		&u.Schedule.ShiftEnd,
		&u.Schedule.GraceMinutes,
		&u.ExtraInfo,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// translateUserErr maps unique violations to domain errors.
func translateUserErr(err error) error {
	switch {
	case isUniqueViolation(err, "users_email_key"):
		return user.ErrUserEmailExists
	case isUniqueViolation(err, "users_employee_code_key"):
		return user.ErrEmployeeCodeExists
	case isNotFound(err):
		return user.ErrUserNotFound
	}
	return err
}

func nonNilExtraInfo(info user.ExtraInfo) user.ExtraInfo {
	if info == nil {
		return user.ExtraInfo{}
	}
	return info
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			employee_code, name, email, designation, partner_name, is_active,
			shift_start, shift_end, grace_minutes, extra_info
		)
		VALUES (NULLIF($1, ''), $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.EmployeeCode,
		newUser.Name,
		newUser.Email,
		newUser.Designation,
		newUser.PartnerName,
		newUser.IsActive,
		newUser.Schedule.ShiftStart,
		newUser.Schedule.ShiftEnd,
		newUser.Schedule.GraceMinutes,
		nonNilExtraInfo(newUser.ExtraInfo),
	))
	if err != nil {
		return user.User{}, translateUserErr(err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if isNotFound(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, activeOnly bool) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name, id`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Update implements user.UserRepository. Every editable column is written.
func (r *userRepositoryImpl) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET employee_code = NULLIF($1, ''), name = $2, email = $3, designation = $4,
			partner_name = $5, is_active = $6, shift_start = $7, shift_end = $8,
			grace_minutes = $9, extra_info = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING ` + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query,
		u.EmployeeCode,
		u.Name,
		u.Email,
		u.Designation,
		u.PartnerName,
		u.IsActive,
		u.Schedule.ShiftStart,
		u.Schedule.ShiftEnd,
		u.Schedule.GraceMinutes,
		nonNilExtraInfo(u.ExtraInfo),
		u.ID,
	))
	if err != nil {
		return user.User{}, translateUserErr(err)
	}
	return updated, nil
}

// UpdateSchedule implements user.UserRepository.
func (r *userRepositoryImpl) UpdateSchedule(ctx context.Context, id string, schedule user.Schedule) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users
		SET shift_start = $1, shift_end = $2, grace_minutes = $3, updated_at = NOW()
		WHERE id = $4
	`, schedule.ShiftStart, schedule.ShiftEnd, schedule.GraceMinutes, id)
	if isNotFound(err) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateExtraInfo implements user.UserRepository.
func (r *userRepositoryImpl) UpdateExtraInfo(ctx context.Context, id string, info user.ExtraInfo) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE users SET extra_info = $1, updated_at = NOW() WHERE id = $2
	`, nonNilExtraInfo(info), id)
	if isNotFound(err) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update extra info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
