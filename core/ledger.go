package core

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"stafflow.com/stafflow/model"
)

// Ledger maintains the per (user, year) casual leave counters. The three
// mutating operations are only ever invoked by the leave state machine and
// always run on a row locked for the duration of the enclosing transaction.
type Ledger struct {
	db *Database
}

func NewLedger(db *Database) *Ledger {
	return &Ledger{db: db}
}

// Get returns the balance for (userID, year), creating the default
// entitlement row on first access. A missing row is not an error.
func (l *Ledger) Get(ctx context.Context, userID uint, year int) (*model.LeaveBalance, error) {
	var bal *model.LeaveBalance
	err := l.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		b, err := getBalanceLocked(tx, userID, year)
		bal = b
		return err
	})
	return bal, err
}

// Reserve moves days from available to pending. Fails with
// InsufficientBalanceError when available < days.
func (l *Ledger) Reserve(ctx context.Context, userID uint, year, days int) error {
	return l.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return reserveBalance(tx, userID, year, days)
	})
}

// Commit moves days from pending to used after an approval.
func (l *Ledger) Commit(ctx context.Context, userID uint, year, days int) error {
	return l.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return commitBalance(tx, userID, year, days)
	})
}

// Release returns pending days to available after a rejection or cancel.
func (l *Ledger) Release(ctx context.Context, userID uint, year, days int) error {
	return l.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		return releaseBalance(tx, userID, year, days)
	})
}

// getBalanceLocked selects the balance row FOR UPDATE, creating it with the
// default entitlement when absent. Concurrent first-access races resolve via
// the (user_id, year) unique index: the loser re-reads the winner's row.
func getBalanceLocked(tx *gorm.DB, userID uint, year int) (*model.LeaveBalance, error) {
	var bal model.LeaveBalance
	err := lockForUpdate(tx).
		Where("user_id = ? AND year = ?", userID, year).
		First(&bal).Error
	if err == nil {
		return &bal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch leave balance: %w", err)
	}

	bal = model.LeaveBalance{
		UserID:               userID,
		Year:                 year,
		CasualLeaveTotal:     model.DefaultCasualLeaveTotal,
		CasualLeaveUsed:      0,
		CasualLeavePending:   0,
		CasualLeaveAvailable: model.DefaultCasualLeaveTotal,
	}
	if err := tx.Create(&bal).Error; err != nil {
		// Lost the creation race; the row exists now.
		var existing model.LeaveBalance
		if err2 := lockForUpdate(tx).
			Where("user_id = ? AND year = ?", userID, year).
			First(&existing).Error; err2 == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("failed to create leave balance: %w", err)
	}
	return &bal, nil
}

func reserveBalance(tx *gorm.DB, userID uint, year, days int) error {
	bal, err := getBalanceLocked(tx, userID, year)
	if err != nil {
		return err
	}
	if bal.CasualLeaveAvailable < days {
		return &InsufficientBalanceError{
			UserID:    userID,
			Year:      year,
			Available: bal.CasualLeaveAvailable,
			Requested: days,
		}
	}
	bal.CasualLeavePending += days
	bal.CasualLeaveAvailable -= days
	return saveBalance(tx, bal)
}

func commitBalance(tx *gorm.DB, userID uint, year, days int) error {
	bal, err := getBalanceLocked(tx, userID, year)
	if err != nil {
		return err
	}
	bal.CasualLeaveUsed += days
	bal.CasualLeavePending -= days
	return saveBalance(tx, bal)
}

func releaseBalance(tx *gorm.DB, userID uint, year, days int) error {
	bal, err := getBalanceLocked(tx, userID, year)
	if err != nil {
		return err
	}
	bal.CasualLeavePending -= days
	bal.CasualLeaveAvailable += days
	return saveBalance(tx, bal)
}

func saveBalance(tx *gorm.DB, bal *model.LeaveBalance) error {
	// The counters are coupled increments/decrements; a negative value means
	// the callers got out of step, so refuse to persist it.
	if bal.CasualLeavePending < 0 || bal.CasualLeaveAvailable < 0 || bal.CasualLeaveUsed < 0 {
		return fmt.Errorf("leave balance for user %d year %d would go negative (used=%d pending=%d available=%d)",
			bal.UserID, bal.Year, bal.CasualLeaveUsed, bal.CasualLeavePending, bal.CasualLeaveAvailable)
	}
	if err := tx.Model(&model.LeaveBalance{}).
		Where("id = ?", bal.ID).
		Updates(map[string]interface{}{
			"casual_leave_used":      bal.CasualLeaveUsed,
			"casual_leave_pending":   bal.CasualLeavePending,
			"casual_leave_available": bal.CasualLeaveAvailable,
		}).Error; err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	return nil
}
