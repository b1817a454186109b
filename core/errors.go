package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for every failure the services surface. The HTTP layer
// maps these to status codes; nothing here is retried or swallowed.
var (
	// ErrInvalidRange is returned when fromDate is after toDate.
	ErrInvalidRange = errors.New("invalid date range: from after to")

	// ErrNoWorkingDays is returned when a leave range contains no Mon-Fri days.
	ErrNoWorkingDays = errors.New("no working days in range")

	// ErrInsufficientBalance is returned when a reservation exceeds the
	// available casual leave.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrOverlappingApplication is returned when the range intersects an
	// existing PENDING or APPROVED application of the same user.
	ErrOverlappingApplication = errors.New("overlapping leave application")

	// ErrConflict is returned on duplicate attendance create or duplicate
	// holiday date.
	ErrConflict = errors.New("record already exists")

	// ErrNotFound is returned for a missing application, record, user or holiday.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidStateTransition is returned when operating on a non-PENDING
	// leave application.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrForbidden is returned when the caller's role or identity does not
	// permit the operation.
	ErrForbidden = errors.New("forbidden")
)

// InsufficientBalanceError carries the shortfall details for the caller.
type InsufficientBalanceError struct {
	UserID    uint
	Year      int
	Available int
	Requested int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance for user %d in %d: available %d, requested %d",
		e.UserID, e.Year, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// IsClientError reports whether the failure is due to the caller's input
// rather than the system.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNoWorkingDays) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrOverlappingApplication) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalidStateTransition)
}
