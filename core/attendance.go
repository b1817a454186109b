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

// AttendanceService owns the one-record-per-(user, date) store and the
// precedence rules between manual edits, leave approvals and the biometric
// batch.
type AttendanceService struct {
	db *Database
}

func NewAttendanceService(db *Database) *AttendanceService {
	return &AttendanceService{db: db}
}

type AttendanceInput struct {
	UserID        uint
	Date          time.Time
	Status        model.AttendanceStatus
	FirstInTime   *time.Time
	LastOutTime   *time.Time
	TotalDuration int32
	Notes         string
}

// Create is the strict admin entry point: a record already existing for
// (user, date) is a conflict, not an update.
func (s *AttendanceService) Create(ctx context.Context, in AttendanceInput) (*model.AttendanceRecord, error) {
	rec := newRecord(in, model.SourceManual)
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.AttendanceRecord{}).
			Where("user_id = ? AND date = ?", rec.UserID, rec.Date).
			Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check attendance record: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("attendance for user %d on %s: %w",
				rec.UserID, utils.DateKey(rec.Date), ErrConflict)
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Upsert writes a record according to the source precedence rules. This is
// the only entry point the biometric sync collaborator gets.
func (s *AttendanceService) Upsert(ctx context.Context, in AttendanceInput, source model.AttendanceSource) (*model.AttendanceRecord, error) {
	var rec *model.AttendanceRecord
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		r, err := upsertAttendance(tx, in, source)
		rec = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Update applies a partial admin edit to an existing record and marks it
// manually overridden so the next biometric run leaves it alone.
func (s *AttendanceService) Update(ctx context.Context, id uint, status *model.AttendanceStatus, notes *string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := tx.First(&rec, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("attendance record %d: %w", id, ErrNotFound)
			}
			return err
		}
		if status != nil {
			rec.Status = *status
		}
		if notes != nil {
			rec.Notes = *notes
		}
		rec.ManualOverride = true
		return tx.Save(&rec).Error
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *AttendanceService) List(ctx context.Context, userID uint, from, to time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	if err := s.db.DB(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, utils.DateOf(from), utils.DateOf(to)).
		Order("date").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// MonthlySummary groups a user's records for [year, month] into per-status
// counts for the dashboard.
type MonthlySummary struct {
	UserID      uint `json:"userId"`
	Year        int  `json:"year"`
	Month       int  `json:"month"`
	Present     int  `json:"present"`
	Absent      int  `json:"absent"`
	HalfDay     int  `json:"halfDay"`
	CasualLeave int  `json:"casualLeave"`
	Weekend     int  `json:"weekend"`
	Holiday     int  `json:"holiday"`
}

func (s *AttendanceService) MonthlySummary(ctx context.Context, userID uint, year, month int) (*MonthlySummary, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	var rows []struct {
		Status model.AttendanceStatus
		Count  int
	}
	if err := s.db.DB(ctx).Model(&model.AttendanceRecord{}).
		Select("status, count(*) as count").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, first, last).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	summary := MonthlySummary{UserID: userID, Year: year, Month: month}
	for _, row := range rows {
		switch row.Status {
		case model.AttendancePresent:
			summary.Present = row.Count
		case model.AttendanceAbsent:
			summary.Absent = row.Count
		case model.AttendanceHalfDay:
			summary.HalfDay = row.Count
		case model.AttendanceCasualLeave:
			summary.CasualLeave = row.Count
		case model.AttendanceWeekend:
			summary.Weekend = row.Count
		case model.AttendanceHoliday:
			summary.Holiday = row.Count
		}
	}
	return &summary, nil
}

// upsertAttendance implements the source precedence: MANUAL and
// LEAVE_APPROVAL overwrite unconditionally and set the override flag;
// BIOMETRIC_SYNC is a no-op against a manually overridden record.
func upsertAttendance(tx *gorm.DB, in AttendanceInput, source model.AttendanceSource) (*model.AttendanceRecord, error) {
	date := utils.DateOf(in.Date)

	var existing model.AttendanceRecord
	err := tx.Where("user_id = ? AND date = ?", in.UserID, date).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to fetch attendance record: %w", err)
		}
		rec := newRecord(in, source)
		if err := tx.Create(rec).Error; err != nil {
			return nil, fmt.Errorf("failed to create attendance record: %w", err)
		}
		return rec, nil
	}

	if existing.ManualOverride && source == model.SourceBiometricSync {
		// Manual wins; the punch data is dropped for this day.
		return &existing, nil
	}

	existing.Status = in.Status
	existing.FirstInTime = in.FirstInTime
	existing.LastOutTime = in.LastOutTime
	existing.TotalDuration = in.TotalDuration
	if in.Notes != "" {
		existing.Notes = in.Notes
	}
	switch source {
	case model.SourceBiometricSync:
		existing.BiometricSynced = true
	default:
		existing.ManualOverride = true
	}
	if err := tx.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to update attendance record: %w", err)
	}
	return &existing, nil
}

func newRecord(in AttendanceInput, source model.AttendanceSource) *model.AttendanceRecord {
	return &model.AttendanceRecord{
		UserID:          in.UserID,
		Date:            utils.DateOf(in.Date),
		Status:          in.Status,
		FirstInTime:     in.FirstInTime,
		LastOutTime:     in.LastOutTime,
		TotalDuration:   in.TotalDuration,
		Notes:           in.Notes,
		ManualOverride:  source != model.SourceBiometricSync,
		BiometricSynced: source == model.SourceBiometricSync,
	}
}
