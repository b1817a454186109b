package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
)

// HolidayService manages the authoritative set of non-working dates.
type HolidayService struct {
	db *Database
}

func NewHolidayService(db *Database) *HolidayService {
	return &HolidayService{db: db}
}

func (s *HolidayService) Create(ctx context.Context, date time.Time, name, description string, mandatory bool) (*model.Holiday, error) {
	h := model.Holiday{
		Date:        utils.DateOf(date),
		Name:        name,
		Description: description,
		IsMandatory: mandatory,
	}
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Holiday{}).Where("date = ?", h.Date).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check holiday date: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("holiday on %s: %w", utils.DateKey(h.Date), ErrConflict)
		}
		return tx.Create(&h).Error
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HolidayService) Update(ctx context.Context, id uint, name, description *string, mandatory *bool) (*model.Holiday, error) {
	var h model.Holiday
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&h, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("holiday %d: %w", id, ErrNotFound)
			}
			return err
		}
		if name != nil {
			h.Name = *name
		}
		if description != nil {
			h.Description = *description
		}
		if mandatory != nil {
			h.IsMandatory = *mandatory
		}
		return tx.Save(&h).Error
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *HolidayService) Delete(ctx context.Context, id uint) error {
	res := s.db.DB(ctx).Delete(&model.Holiday{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("holiday %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *HolidayService) List(ctx context.Context, year int) ([]model.Holiday, error) {
	var holidays []model.Holiday
	from, to := yearBounds(year)
	if err := s.db.DB(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date").
		Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

// ListDates returns the holiday dates of a year as a YYYY-MM-DD set, the
// shape the reporting and leave-counting paths consume.
func (s *HolidayService) ListDates(ctx context.Context, year int) (map[string]bool, error) {
	return holidayDates(s.db.DB(ctx), yearStart(year), yearEnd(year))
}

func holidayDates(tx *gorm.DB, from, to time.Time) (map[string]bool, error) {
	var holidays []model.Holiday
	if err := tx.Where("date >= ? AND date <= ?", utils.DateOf(from), utils.DateOf(to)).
		Find(&holidays).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	dates := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		dates[utils.DateKey(h.Date)] = true
	}
	return dates, nil
}

func yearStart(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
}

func yearBounds(year int) (time.Time, time.Time) {
	return yearStart(year), yearEnd(year)
}
