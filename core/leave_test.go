package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stafflow.com/stafflow/model"
)

func newLeaveFixture(t *testing.T) (*Database, *LeaveService, *Ledger, *model.User) {
	t.Helper()
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP200", "")
	return db, NewLeaveService(db, LeaveOptions{}, nil), NewLedger(db), user
}

func TestLeaveApplyReservesWorkingDays(t *testing.T) {
	_, leave, ledger, user := newLeaveFixture(t)
	ctx := context.Background()

	// Mon 2026-02-02 to Fri 2026-02-06
	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 6),
		Reason:   "family function",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, app.ID)
	assert.Equal(t, model.LeavePending, app.Status)
	assert.Equal(t, 5, app.TotalDays)
	assert.Equal(t, model.LeaveCasual, app.LeaveType)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 5, bal.CasualLeavePending)
	assert.Equal(t, 7, bal.CasualLeaveAvailable)
	assert.Equal(t, 0, bal.CasualLeaveUsed)
}

func TestLeaveApplySpanningWeekend(t *testing.T) {
	_, leave, _, user := newLeaveFixture(t)

	// Fri 2026-02-06 to Mon 2026-02-09: the weekend costs nothing.
	app, err := leave.Apply(context.Background(), ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 6),
		ToDate:   date(2026, 2, 9),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, app.TotalDays)
}

func TestLeaveApplyInvalidRange(t *testing.T) {
	_, leave, _, user := newLeaveFixture(t)

	_, err := leave.Apply(context.Background(), ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 6),
		ToDate:   date(2026, 2, 2),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestLeaveApplyWeekendOnly(t *testing.T) {
	_, leave, _, user := newLeaveFixture(t)

	_, err := leave.Apply(context.Background(), ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 7),
		ToDate:   date(2026, 2, 8),
	})
	assert.ErrorIs(t, err, ErrNoWorkingDays)
}

func TestLeaveApplyInsufficientBalance(t *testing.T) {
	_, leave, ledger, user := newLeaveFixture(t)
	ctx := context.Background()

	// 2026-02-02 .. 2026-02-20 is 15 working days against an entitlement of 12.
	_, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 20),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 12, bal.CasualLeaveAvailable)
	assert.Equal(t, 0, bal.CasualLeavePending)
}

func TestLeaveApplyOverlapRejected(t *testing.T) {
	_, leave, _, user := newLeaveFixture(t)
	ctx := context.Background()

	_, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 4),
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		from int
		to   int
	}{
		{"Identical range", 2, 4},
		{"Overlaps tail", 4, 6},
		{"Contains existing", 1, 5},
		{"Inside existing", 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := leave.Apply(ctx, ApplyInput{
				UserID:   user.ID,
				FromDate: date(2026, 2, tt.from),
				ToDate:   date(2026, 2, tt.to),
			})
			assert.ErrorIs(t, err, ErrOverlappingApplication)
		})
	}

	// An adjacent, non-overlapping range is fine.
	_, err = leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 5),
		ToDate:   date(2026, 2, 6),
	})
	assert.NoError(t, err)
}

func TestLeaveApplyAfterTerminalStateDoesNotOverlap(t *testing.T) {
	_, leave, _, user := newLeaveFixture(t)
	ctx := context.Background()

	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 4),
	})
	require.NoError(t, err)

	_, err = leave.Cancel(ctx, app.ID, user.ID)
	require.NoError(t, err)

	// Cancelled applications stop blocking the range.
	_, err = leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 4),
	})
	assert.NoError(t, err)
}

func TestLeaveApproveWritesAttendance(t *testing.T) {
	db, leave, ledger, user := newLeaveFixture(t)
	reviewer := createTestUser(t, db, "EMP201", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	// Fri 2026-02-06 to Tue 2026-02-10: Fri, Mon, Tue are working days.
	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 6),
		ToDate:   date(2026, 2, 10),
	})
	require.NoError(t, err)

	approved, err := leave.Approve(ctx, app.ID, reviewer.ID, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveApproved, approved.Status)
	require.NotNil(t, approved.ReviewedByID)
	assert.Equal(t, reviewer.ID, *approved.ReviewedByID)
	assert.NotNil(t, approved.ReviewedAt)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 3, bal.CasualLeaveUsed)
	assert.Equal(t, 0, bal.CasualLeavePending)
	assert.Equal(t, 9, bal.CasualLeaveAvailable)

	records, err := attendance.List(ctx, user.ID, date(2026, 2, 6), date(2026, 2, 10))
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		assert.Equal(t, model.AttendanceCasualLeave, rec.Status)
		assert.True(t, rec.ManualOverride)
		assert.False(t, IsWeekend(rec.Date))
	}
}

func TestLeaveApproveOverwritesBiometricRecord(t *testing.T) {
	db, leave, _, user := newLeaveFixture(t)
	reviewer := createTestUser(t, db, "EMP202", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	// Biometric data already marked the day PRESENT.
	_, err := attendance.Upsert(ctx, AttendanceInput{
		UserID: user.ID,
		Date:   date(2026, 2, 4),
		Status: model.AttendancePresent,
	}, model.SourceBiometricSync)
	require.NoError(t, err)

	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 4),
		ToDate:   date(2026, 2, 4),
	})
	require.NoError(t, err)
	_, err = leave.Approve(ctx, app.ID, reviewer.ID, "")
	require.NoError(t, err)

	records, err := attendance.List(ctx, user.ID, date(2026, 2, 4), date(2026, 2, 4))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, model.AttendanceCasualLeave, records[0].Status)
	assert.True(t, records[0].ManualOverride)
}

func TestLeaveRejectReleasesReservation(t *testing.T) {
	db, leave, ledger, user := newLeaveFixture(t)
	reviewer := createTestUser(t, db, "EMP203", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 3),
	})
	require.NoError(t, err)

	rejected, err := leave.Reject(ctx, app.ID, reviewer.ID, "short staffed")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveRejected, rejected.Status)
	assert.Equal(t, "short staffed", rejected.ReviewNotes)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.CasualLeaveUsed)
	assert.Equal(t, 0, bal.CasualLeavePending)
	assert.Equal(t, 12, bal.CasualLeaveAvailable)

	records, err := attendance.List(ctx, user.ID, date(2026, 2, 2), date(2026, 2, 3))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLeaveCancelOwnerOnly(t *testing.T) {
	db, leave, ledger, user := newLeaveFixture(t)
	other := createTestUser(t, db, "EMP204", "")
	ctx := context.Background()

	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 3),
	})
	require.NoError(t, err)

	_, err = leave.Cancel(ctx, app.ID, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := leave.Cancel(ctx, app.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeaveCancelled, cancelled.Status)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 12, bal.CasualLeaveAvailable)
}

func TestLeaveTerminalStatesRejectTransitions(t *testing.T) {
	db, leave, _, user := newLeaveFixture(t)
	reviewer := createTestUser(t, db, "EMP205", "")
	ctx := context.Background()

	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 3),
	})
	require.NoError(t, err)
	approved, err := leave.Approve(ctx, app.ID, reviewer.ID, "")
	require.NoError(t, err)
	assert.True(t, approved.Status.IsTerminal())

	_, err = leave.Approve(ctx, app.ID, reviewer.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = leave.Reject(ctx, app.ID, reviewer.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	_, err = leave.Cancel(ctx, app.ID, user.ID)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

func TestLeaveApproveUnknownApplication(t *testing.T) {
	_, leave, _, user := newLeaveFixture(t)

	_, err := leave.Approve(context.Background(), "no-such-id", user.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLeaveHolidayExclusionOption(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP206", "")
	holidays := NewHolidayService(db)
	ctx := context.Background()

	// Mon 2026-01-26 is a holiday inside the requested week.
	_, err := holidays.Create(ctx, date(2026, 1, 26), "Republic Day", "", true)
	require.NoError(t, err)

	// Default accounting: the holiday still costs a leave day.
	leave := NewLeaveService(db, LeaveOptions{}, nil)
	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 1, 26),
		ToDate:   date(2026, 1, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, app.TotalDays)

	// With the option on, the holiday is free.
	user2 := createTestUser(t, db, "EMP207", "")
	excluding := NewLeaveService(db, LeaveOptions{ExcludeHolidays: true}, nil)
	app2, err := excluding.Apply(ctx, ApplyInput{
		UserID:   user2.ID,
		FromDate: date(2026, 1, 26),
		ToDate:   date(2026, 1, 30),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, app2.TotalDays)
}

func TestLeaveApproveRollsBackWhenAttendanceWriteFails(t *testing.T) {
	db, leave, ledger, user := newLeaveFixture(t)
	reviewer := createTestUser(t, db, "EMP210", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	// Mon 2026-02-02 to Wed 2026-02-04: 3 working days.
	app, err := leave.Apply(ctx, ApplyInput{
		UserID:   user.ID,
		FromDate: date(2026, 2, 2),
		ToDate:   date(2026, 2, 4),
	})
	require.NoError(t, err)

	// Reject the last day's attendance insert so the approval fails after
	// the first two days have already been written inside the transaction.
	require.NoError(t, db.DB(ctx).Exec(`
		CREATE TRIGGER reject_last_leave_day BEFORE INSERT ON attendance_records
		WHEN date(NEW.date) = '2026-02-04'
		BEGIN SELECT RAISE(ABORT, 'attendance write rejected'); END`).Error)

	_, err = leave.Approve(ctx, app.ID, reviewer.ID, "")
	require.Error(t, err)

	// Nothing committed: the application is still pending, the reservation
	// is intact and no attendance record survived the rollback.
	reloaded, err := leave.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeavePending, reloaded.Status)
	assert.Nil(t, reloaded.ReviewedByID)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.CasualLeaveUsed)
	assert.Equal(t, 3, bal.CasualLeavePending)
	assert.Equal(t, 9, bal.CasualLeaveAvailable)

	records, err := attendance.List(ctx, user.ID, date(2026, 2, 2), date(2026, 2, 4))
	require.NoError(t, err)
	assert.Empty(t, records)

	// With the failure gone the same approval goes through.
	require.NoError(t, db.DB(ctx).Exec(`DROP TRIGGER reject_last_leave_day`).Error)
	approved, err := leave.Approve(ctx, app.ID, reviewer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, model.LeaveApproved, approved.Status)

	records, err = attendance.List(ctx, user.ID, date(2026, 2, 2), date(2026, 2, 4))
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLeaveApplyConcurrentReservations(t *testing.T) {
	_, leave, ledger, user := newLeaveFixture(t)
	ctx := context.Background()

	// Two racing applications of 10 working days each against an
	// entitlement of 12: the balance lock serializes them, so exactly one
	// wins and the loser sees the winner's reservation.
	ranges := []struct{ from, to time.Time }{
		{date(2026, 2, 2), date(2026, 2, 13)},
		{date(2026, 3, 2), date(2026, 3, 13)},
	}
	errs := make(chan error, len(ranges))
	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(from, to time.Time) {
			defer wg.Done()
			_, err := leave.Apply(ctx, ApplyInput{UserID: user.ID, FromDate: from, ToDate: to})
			errs <- err
		}(r.from, r.to)
	}
	wg.Wait()
	close(errs)

	var succeeded, insufficient int
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientBalance):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, insufficient)

	bal, err := ledger.Get(ctx, user.ID, 2026)
	require.NoError(t, err)
	assert.Equal(t, 10, bal.CasualLeavePending)
	assert.Equal(t, 2, bal.CasualLeaveAvailable)
	assert.Equal(t, 0, bal.CasualLeaveUsed)
	assert.Equal(t, bal.CasualLeaveTotal,
		bal.CasualLeaveUsed+bal.CasualLeavePending+bal.CasualLeaveAvailable)
}

func TestLeaveListPendingOrdersByAppliedAt(t *testing.T) {
	db, leave, _, user := newLeaveFixture(t)
	other := createTestUser(t, db, "EMP208", "")
	reviewer := createTestUser(t, db, "EMP209", "")
	ctx := context.Background()

	first, err := leave.Apply(ctx, ApplyInput{UserID: user.ID, FromDate: date(2026, 2, 2), ToDate: date(2026, 2, 3)})
	require.NoError(t, err)
	second, err := leave.Apply(ctx, ApplyInput{UserID: other.ID, FromDate: date(2026, 2, 2), ToDate: date(2026, 2, 3)})
	require.NoError(t, err)

	_, err = leave.Approve(ctx, first.ID, reviewer.ID, "")
	require.NoError(t, err)

	pending, err := leave.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
