package core

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"gorm.io/gorm/clause"

	"stafflow.com/stafflow/model"
	"stafflow.com/stafflow/utils"
)

// HalfDayMinutes is the cutoff under which a synced day counts as HALF_DAY.
const HalfDayMinutes = 240

// BiometricService ingests raw device punches and projects them into
// attendance records. It only ever writes attendance through the
// BIOMETRIC_SYNC source, so manual overrides stay untouched.
type BiometricService struct {
	db         *Database
	attendance *AttendanceService
}

func NewBiometricService(db *Database, attendance *AttendanceService) *BiometricService {
	return &BiometricService{db: db, attendance: attendance}
}

type PunchInput struct {
	ID        string    `json:"id" binding:"required"`
	Tag       string    `json:"tag" binding:"required"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp" binding:"required"`
	DeviceID  string    `json:"deviceId"`
}

// IngestPunches bulk-upserts raw punches keyed by the device event id, so a
// device re-pushing the same batch deduplicates instead of duplicating.
func (s *BiometricService) IngestPunches(ctx context.Context, punches []PunchInput) (int, error) {
	if len(punches) == 0 {
		return 0, nil
	}
	records := utils.Map(punches, func(p PunchInput) model.BiometricLog {
		return model.BiometricLog{
			ID:            p.ID,
			Tag:           p.Tag,
			Date:          utils.DateKey(p.Timestamp),
			Kind:          p.Kind,
			Timestamp:     p.Timestamp.Format(time.RFC3339),
			DeviceID:      p.DeviceID,
			ProcessStatus: model.PunchPending,
		}
	})
	if err := s.db.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&records).Error; err != nil {
		return 0, fmt.Errorf("failed to upsert punches: %w", err)
	}
	return len(records), nil
}

type ReconcileStats struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// Reconcile maps the day's pending punches onto attendance records:
// first punch in, last punch out, duration-derived status. Days already
// manually overridden are counted as skipped, per the precedence rule.
func (s *BiometricService) Reconcile(ctx context.Context, date time.Time) (*ReconcileStats, error) {
	dateStr := utils.DateKey(date)

	var users []model.User
	if err := s.db.DB(ctx).
		Where("device_tag <> '' AND status = ?", model.UserActive).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}
	tagMap := make(map[string]model.User)
	for _, u := range users {
		tagMap[u.DeviceTag] = u
	}

	var logs []*model.BiometricLog
	if err := s.db.DB(ctx).
		Where("date = ? AND process_status = ?", dateStr, model.PunchPending).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch punches: %w", err)
	}

	stats := &ReconcileStats{}
	var processedIDs, skippedIDs, errorIDs []string

	for _, group := range groupPunches(logs) {
		groupIDs := make([]string, len(group.Records))
		for i, r := range group.Records {
			groupIDs[i] = r.ID
		}

		user, ok := tagMap[group.Tag]
		if !ok {
			log.Printf("no user found for tag %s", group.Tag)
			errorIDs = append(errorIDs, groupIDs...)
			continue
		}

		firstIn, err1 := utils.ParseISOTime(group.FirstPunch())
		lastOut, err2 := utils.ParseISOTime(group.LastPunch())
		if err1 != nil || err2 != nil {
			log.Printf("failed to parse punch times for tag %s: %v, %v", group.Tag, err1, err2)
			errorIDs = append(errorIDs, groupIDs...)
			continue
		}

		duration := int32(lastOut.Sub(*firstIn).Minutes())
		status := model.AttendancePresent
		if duration < HalfDayMinutes {
			status = model.AttendanceHalfDay
		}

		rec, err := s.attendance.Upsert(ctx, AttendanceInput{
			UserID:        user.ID,
			Date:          utils.MustParseDate(group.Date),
			Status:        status,
			FirstInTime:   firstIn,
			LastOutTime:   lastOut,
			TotalDuration: duration,
		}, model.SourceBiometricSync)
		if err != nil {
			log.Printf("upsert failed for user %d on %s: %v", user.ID, group.Date, err)
			errorIDs = append(errorIDs, groupIDs...)
			continue
		}

		if rec.ManualOverride {
			// Write was a no-op: an admin or leave approval owns this day.
			skippedIDs = append(skippedIDs, groupIDs...)
			continue
		}
		processedIDs = append(processedIDs, groupIDs...)
	}

	s.updatePunchStatuses(ctx, processedIDs, model.PunchProcessed)
	s.updatePunchStatuses(ctx, skippedIDs, model.PunchSkipped)
	s.updatePunchStatuses(ctx, errorIDs, model.PunchError)

	stats.Processed = len(processedIDs)
	stats.Skipped = len(skippedIDs)
	stats.Errors = len(errorIDs)
	return stats, nil
}

func (s *BiometricService) updatePunchStatuses(ctx context.Context, ids []string, status string) {
	if len(ids) == 0 {
		return
	}
	if err := s.db.DB(ctx).Model(&model.BiometricLog{}).
		Where("id IN ?", ids).
		Update("process_status", status).Error; err != nil {
		log.Printf("failed to update punch status %s: %v", status, err)
	}
}

type punchGroup struct {
	Tag     string
	Date    string
	Records []*model.BiometricLog
}

func (g *punchGroup) FirstPunch() string {
	if len(g.Records) == 0 {
		return ""
	}
	return g.Records[0].Timestamp
}

func (g *punchGroup) LastPunch() string {
	if len(g.Records) == 0 {
		return ""
	}
	return g.Records[len(g.Records)-1].Timestamp
}

func groupPunches(logs []*model.BiometricLog) []*punchGroup {
	var groups []*punchGroup
	byDate := utils.GroupBy(logs, func(r *model.BiometricLog) string { return r.Date })

	for date, recs := range byDate {
		byTag := utils.GroupBy(recs, func(r *model.BiometricLog) string { return r.Tag })
		for tag, r2 := range byTag {
			sort.Slice(r2, func(i, j int) bool {
				return r2[i].Timestamp < r2[j].Timestamp
			})
			groups = append(groups, &punchGroup{Tag: tag, Date: date, Records: r2})
		}
	}
	return groups
}
