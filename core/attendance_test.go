package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
)

func TestAttendanceCreateConflictsOnSecondWrite(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP300", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	in := AttendanceInput{
		UserID: user.ID,
		Date:   date(2026, 3, 2),
		Status: model.AttendancePresent,
	}

	rec, err := attendance.Create(ctx, in)
	require.NoError(t, err)
	assert.True(t, rec.ManualOverride)
	assert.False(t, rec.BiometricSynced)

	_, err = attendance.Create(ctx, in)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestAttendanceUpsertRespectsManualOverride(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP301", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	_, err := attendance.Create(ctx, AttendanceInput{
		UserID: user.ID,
		Date:   date(2026, 3, 3),
		Status: model.AttendanceAbsent,
		Notes:  "approved absence",
	})
	require.NoError(t, err)

	// Biometric sync must not overwrite the manual record.
	rec, err := attendance.Upsert(ctx, AttendanceInput{
		UserID: user.ID,
		Date:   date(2026, 3, 3),
		Status: model.AttendancePresent,
	}, model.SourceBiometricSync)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceAbsent, rec.Status)
	assert.True(t, rec.ManualOverride)

	// A manual upsert still wins.
	rec, err = attendance.Upsert(ctx, AttendanceInput{
		UserID: user.ID,
		Date:   date(2026, 3, 3),
		Status: model.AttendanceHalfDay,
	}, model.SourceManual)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceHalfDay, rec.Status)
}

func TestAttendanceBiometricUpsertThenManual(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP302", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	firstIn := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	lastOut := time.Date(2026, 3, 4, 17, 30, 0, 0, time.UTC)

	rec, err := attendance.Upsert(ctx, AttendanceInput{
		UserID:        user.ID,
		Date:          date(2026, 3, 4),
		Status:        model.AttendancePresent,
		FirstInTime:   &firstIn,
		LastOutTime:   &lastOut,
		TotalDuration: 510,
	}, model.SourceBiometricSync)
	require.NoError(t, err)
	assert.True(t, rec.BiometricSynced)
	assert.False(t, rec.ManualOverride)

	// Biometric re-sync updates the same row.
	rec, err = attendance.Upsert(ctx, AttendanceInput{
		UserID:        user.ID,
		Date:          date(2026, 3, 4),
		Status:        model.AttendanceHalfDay,
		TotalDuration: 180,
	}, model.SourceBiometricSync)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceHalfDay, rec.Status)

	var count int64
	require.NoError(t, db.DB(ctx).Model(&model.AttendanceRecord{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAttendanceUpdateMarksOverride(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP303", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	rec, err := attendance.Upsert(ctx, AttendanceInput{
		UserID: user.ID,
		Date:   date(2026, 3, 5),
		Status: model.AttendancePresent,
	}, model.SourceBiometricSync)
	require.NoError(t, err)
	require.False(t, rec.ManualOverride)

	status := model.AttendanceAbsent
	notes := "left site without punching out"
	updated, err := attendance.Update(ctx, rec.ID, &status, &notes)
	require.NoError(t, err)
	assert.Equal(t, model.AttendanceAbsent, updated.Status)
	assert.Equal(t, notes, updated.Notes)
	assert.True(t, updated.ManualOverride)

	_, err = attendance.Update(ctx, 9999, &status, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttendanceListRange(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP304", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	for d := 2; d <= 6; d++ {
		_, err := attendance.Create(ctx, AttendanceInput{
			UserID: user.ID,
			Date:   date(2026, 3, d),
			Status: model.AttendancePresent,
		})
		require.NoError(t, err)
	}

	records, err := attendance.List(ctx, user.ID, date(2026, 3, 3), date(2026, 3, 5))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2026-03-03", utils.DateKey(records[0].Date))
	assert.Equal(t, "2026-03-05", utils.DateKey(records[2].Date))
}

func TestAttendanceMonthlySummary(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "EMP305", "")
	other := createTestUser(t, db, "EMP306", "")
	attendance := NewAttendanceService(db)
	ctx := context.Background()

	seed := []struct {
		day    int
		status model.AttendanceStatus
	}{
		{2, model.AttendancePresent},
		{3, model.AttendancePresent},
		{4, model.AttendanceHalfDay},
		{5, model.AttendanceCasualLeave},
		{6, model.AttendanceAbsent},
		{7, model.AttendanceWeekend},
	}
	for _, s := range seed {
		_, err := attendance.Create(ctx, AttendanceInput{
			UserID: user.ID,
			Date:   date(2026, 3, s.day),
			Status: s.status,
		})
		require.NoError(t, err)
	}
	// Another user and another month stay out of the summary.
	_, err := attendance.Create(ctx, AttendanceInput{UserID: other.ID, Date: date(2026, 3, 2), Status: model.AttendancePresent})
	require.NoError(t, err)
	_, err = attendance.Create(ctx, AttendanceInput{UserID: user.ID, Date: date(2026, 4, 1), Status: model.AttendancePresent})
	require.NoError(t, err)

	summary, err := attendance.MonthlySummary(ctx, user.ID, 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Present)
	assert.Equal(t, 1, summary.HalfDay)
	assert.Equal(t, 1, summary.CasualLeave)
	assert.Equal(t, 1, summary.Absent)
	assert.Equal(t, 1, summary.Weekend)
	assert.Equal(t, 0, summary.Holiday)
}
