package holiday

import (
	"context"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/holiday"
)

type HolidayServiceImpl struct {
	holiday.HolidayRepository
}

func NewHolidayService(holidayRepository holiday.HolidayRepository) holiday.HolidayService {
	return &HolidayServiceImpl{HolidayRepository: holidayRepository}
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}
	return s.HolidayRepository.Create(ctx, holiday.Holiday{
		Date:        req.Date,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
}

// Update implements holiday.HolidayService.
func (s *HolidayServiceImpl) Update(ctx context.Context, req holiday.UpdateHolidayRequest) (holiday.Holiday, error) {
	if err := req.Validate(); err != nil {
		return holiday.Holiday{}, err
	}
	existing, err := s.HolidayRepository.GetByID(ctx, req.ID)
	if err != nil {
		return holiday.Holiday{}, err
	}
	return s.HolidayRepository.Update(ctx, req.Apply(existing))
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) error {
	return s.HolidayRepository.Delete(ctx, id)
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.ListHolidayFilter) ([]holiday.Holiday, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.HolidayRepository.List(ctx, filter.Year)
}
