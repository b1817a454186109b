package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
)

// Notifier receives best-effort messages after a state change commits.
// Failures are logged, never propagated into the transaction result.
type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

type LeaveOptions struct {
	// ExcludeHolidays removes calendar holidays from the working-day count
	// and from the approval upsert loop. Off by default: a holiday inside a
	// leave range still costs a leave day, matching the platform's
	// historical accounting.
	ExcludeHolidays bool
}

// LeaveService drives the application lifecycle:
//
//	PENDING -> APPROVED | REJECTED | CANCELLED
//
// Every transition mutates the ledger and, on approval, the attendance
// store inside one transaction, so readers never observe an application
// whose balance reservation is missing or stale.
type LeaveService struct {
	db       *Database
	opts     LeaveOptions
	notifier Notifier
}

func NewLeaveService(db *Database, opts LeaveOptions, notifier Notifier) *LeaveService {
	return &LeaveService{db: db, opts: opts, notifier: notifier}
}

type ApplyInput struct {
	UserID    uint
	LeaveType model.LeaveType
	FromDate  time.Time
	ToDate    time.Time
	Reason    string
}

// Apply validates the range, counts its working days, reserves them on the
// ledger and creates the PENDING application atomically.
func (s *LeaveService) Apply(ctx context.Context, in ApplyInput) (*model.LeaveApplication, error) {
	from := utils.DateOf(in.FromDate)
	to := utils.DateOf(in.ToDate)
	if from.After(to) {
		return nil, fmt.Errorf("from %s after to %s: %w",
			utils.DateKey(from), utils.DateKey(to), ErrInvalidRange)
	}

	leaveType := in.LeaveType
	if leaveType == "" {
		leaveType = model.LeaveCasual
	}

	var app *model.LeaveApplication
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		holidays, err := s.holidaySet(tx, from, to)
		if err != nil {
			return err
		}
		totalDays := CountWorkingDays(from, to, holidays)
		if totalDays == 0 {
			return fmt.Errorf("range %s..%s: %w", utils.DateKey(from), utils.DateKey(to), ErrNoWorkingDays)
		}

		// Balance is locked for the rest of the transaction so concurrent
		// applications for the same user/year serialize here.
		bal, err := getBalanceLocked(tx, in.UserID, from.Year())
		if err != nil {
			return err
		}
		if bal.CasualLeaveAvailable < totalDays {
			return &InsufficientBalanceError{
				UserID:    in.UserID,
				Year:      from.Year(),
				Available: bal.CasualLeaveAvailable,
				Requested: totalDays,
			}
		}

		var overlapping int64
		if err := tx.Model(&model.LeaveApplication{}).
			Where("user_id = ? AND status IN ?", in.UserID,
				[]model.LeaveStatus{model.LeavePending, model.LeaveApproved}).
			Where("from_date <= ? AND to_date >= ?", to, from).
			Count(&overlapping).Error; err != nil {
			return fmt.Errorf("failed to check overlapping applications: %w", err)
		}
		if overlapping > 0 {
			return fmt.Errorf("range %s..%s: %w", utils.DateKey(from), utils.DateKey(to), ErrOverlappingApplication)
		}

		bal.CasualLeavePending += totalDays
		bal.CasualLeaveAvailable -= totalDays
		if err := saveBalance(tx, bal); err != nil {
			return err
		}

		app = &model.LeaveApplication{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			LeaveType: leaveType,
			FromDate:  from,
			ToDate:    to,
			TotalDays: totalDays,
			Reason:    in.Reason,
			Status:    model.LeavePending,
			AppliedAt: time.Now().UTC(),
		}
		return tx.Create(app).Error
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// Approve commits the reservation and writes a CASUAL_LEAVE attendance
// record for every working day in range, overwriting any biometric-derived
// status. All of it commits or none of it does.
func (s *LeaveService) Approve(ctx context.Context, applicationID string, reviewerID uint, notes string) (*model.LeaveApplication, error) {
	var app *model.LeaveApplication
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		a, err := getApplicationLocked(tx, applicationID)
		if err != nil {
			return err
		}
		if a.Status != model.LeavePending {
			return fmt.Errorf("application %s is %s: %w", a.ID, a.Status, ErrInvalidStateTransition)
		}

		now := time.Now().UTC()
		a.Status = model.LeaveApproved
		a.ReviewedByID = &reviewerID
		a.ReviewedAt = &now
		a.ReviewNotes = notes
		if err := tx.Save(a).Error; err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}

		if err := commitBalance(tx, a.UserID, a.FromDate.Year(), a.TotalDays); err != nil {
			return err
		}

		holidays, err := s.holidaySet(tx, a.FromDate, a.ToDate)
		if err != nil {
			return err
		}
		for _, day := range WorkingDays(a.FromDate, a.ToDate, holidays) {
			if _, err := upsertAttendance(tx, AttendanceInput{
				UserID: a.UserID,
				Date:   day,
				Status: leaveAttendanceStatus(a.LeaveType),
				Notes:  "Approved leave " + a.ID,
			}, model.SourceLeaveApproval); err != nil {
				return err
			}
		}
		app = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "Leave approved", fmt.Sprintf("Application %s approved for %d day(s), %s to %s.",
		app.ID, app.TotalDays, utils.DateKey(app.FromDate), utils.DateKey(app.ToDate)))
	return app, nil
}

// Reject releases the reservation. Attendance records are untouched.
func (s *LeaveService) Reject(ctx context.Context, applicationID string, reviewerID uint, notes string) (*model.LeaveApplication, error) {
	var app *model.LeaveApplication
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		a, err := getApplicationLocked(tx, applicationID)
		if err != nil {
			return err
		}
		if a.Status != model.LeavePending {
			return fmt.Errorf("application %s is %s: %w", a.ID, a.Status, ErrInvalidStateTransition)
		}

		now := time.Now().UTC()
		a.Status = model.LeaveRejected
		a.ReviewedByID = &reviewerID
		a.ReviewedAt = &now
		a.ReviewNotes = notes
		if err := tx.Save(a).Error; err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		app = a
		return releaseBalance(tx, a.UserID, a.FromDate.Year(), a.TotalDays)
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, "Leave rejected", fmt.Sprintf("Application %s rejected: %s", app.ID, notes))
	return app, nil
}

// Cancel is owner-only and releases the reservation.
func (s *LeaveService) Cancel(ctx context.Context, applicationID string, requesterID uint) (*model.LeaveApplication, error) {
	var app *model.LeaveApplication
	err := s.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		a, err := getApplicationLocked(tx, applicationID)
		if err != nil {
			return err
		}
		if a.UserID != requesterID {
			return fmt.Errorf("application %s belongs to user %d: %w", a.ID, a.UserID, ErrForbidden)
		}
		if a.Status != model.LeavePending {
			return fmt.Errorf("application %s is %s: %w", a.ID, a.Status, ErrInvalidStateTransition)
		}

		a.Status = model.LeaveCancelled
		if err := tx.Save(a).Error; err != nil {
			return fmt.Errorf("failed to update application: %w", err)
		}
		app = a
		return releaseBalance(tx, a.UserID, a.FromDate.Year(), a.TotalDays)
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *LeaveService) Get(ctx context.Context, applicationID string) (*model.LeaveApplication, error) {
	var app model.LeaveApplication
	err := s.db.DB(ctx).Where("id = ?", applicationID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("application %s: %w", applicationID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (s *LeaveService) ListByUser(ctx context.Context, userID uint) ([]model.LeaveApplication, error) {
	var apps []model.LeaveApplication
	if err := s.db.DB(ctx).
		Where("user_id = ?", userID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *LeaveService) ListPending(ctx context.Context) ([]model.LeaveApplication, error) {
	var apps []model.LeaveApplication
	if err := s.db.DB(ctx).
		Where("status = ?", model.LeavePending).
		Order("applied_at").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (s *LeaveService) holidaySet(tx *gorm.DB, from, to time.Time) (map[string]bool, error) {
	if !s.opts.ExcludeHolidays {
		return nil, nil
	}
	return holidayDates(tx, from, to)
}

func (s *LeaveService) notify(ctx context.Context, subject, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, subject, message); err != nil {
		log.Printf("leave notification failed: %v", err)
	}
}

func getApplicationLocked(tx *gorm.DB, id string) (*model.LeaveApplication, error) {
	var app model.LeaveApplication
	err := lockForUpdate(tx).Where("id = ?", id).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &app, nil
}

func leaveAttendanceStatus(t model.LeaveType) model.AttendanceStatus {
	switch t {
	case model.LeaveCasual:
		return model.AttendanceCasualLeave
	default:
		return model.AttendanceCasualLeave
	}
}
