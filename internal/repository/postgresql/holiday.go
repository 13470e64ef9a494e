package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const holidayColumns = `id, to_char(date, 'YYYY-MM-DD'), name, description, created_at, updated_at`

type holidayRepositoryImpl struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepositoryImpl{db: db}
}

func scanHoliday(row pgx.Row) (holiday.Holiday, error) {
	var h holiday.Holiday
	err := row.Scan(&h.ID, &h.Date, &h.Name, &h.Description, &h.CreatedAt, &h.UpdatedAt)
	return h, err
}

func (r *holidayRepositoryImpl) Create(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO holidays (date, name, description)
		VALUES ($1::date, $2, $3)
		RETURNING ` + holidayColumns

	created, err := scanHoliday(q.QueryRow(ctx, query, h.Date, h.Name, h.Description))
	if err != nil {
		if isUniqueViolation(err, "") {
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return created, nil
}

func (r *holidayRepositoryImpl) GetByID(ctx context.Context, id string) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	h, err := scanHoliday(q.QueryRow(ctx, `SELECT `+holidayColumns+` FROM holidays WHERE id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		}
		return holiday.Holiday{}, fmt.Errorf("failed to get holiday: %w", err)
	}
	return h, nil
}

func (r *holidayRepositoryImpl) Update(ctx context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE holidays
		SET date = $1::date, name = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + holidayColumns

	updated, err := scanHoliday(q.QueryRow(ctx, query, h.Date, h.Name, h.Description, h.ID))
	if err != nil {
		switch {
		case isNotFound(err):
			return holiday.Holiday{}, holiday.ErrHolidayNotFound
		case isUniqueViolation(err, ""):
			return holiday.Holiday{}, holiday.ErrHolidayExists
		}
		return holiday.Holiday{}, fmt.Errorf("failed to update holiday: %w", err)
	}
	return updated, nil
}

func (r *holidayRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM holidays WHERE id = $1`, id)
	if isNotFound(err) {
		return holiday.ErrHolidayNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return holiday.ErrHolidayNotFound
	}
	return nil
}

func (r *holidayRepositoryImpl) List(ctx context.Context, year string) ([]holiday.Holiday, error) {
	query := `SELECT ` + holidayColumns + ` FROM holidays`
	var args []interface{}
	if year != "" {
		query += ` WHERE to_char(date, 'YYYY') = $1`
		args = append(args, year)
	}
	query += ` ORDER BY date`
	return r.query(ctx, query, args...)
}

func (r *holidayRepositoryImpl) ListBetween(ctx context.Context, from, to string) ([]holiday.Holiday, error) {
	return r.query(ctx, `
		SELECT `+holidayColumns+` FROM holidays
		WHERE date BETWEEN $1::date AND $2::date
		ORDER BY date
	`, from, to)
}

func (r *holidayRepositoryImpl) query(ctx context.Context, query string, args ...interface{}) ([]holiday.Holiday, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	holidays := make([]holiday.Holiday, 0)
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}
