package model

import "time"

const (
	PunchPending   = "pending"
	PunchProcessed = "processed"
	PunchSkipped   = "skipped"
	PunchError     = "error"
)

// BiometricLog is one raw punch event as pushed by a device. The ID is the
// device-side event id, so re-pushing the same batch upserts instead of
// duplicating.
type BiometricLog struct {
	ID        string `gorm:"primaryKey;size:64" json:"id"`
	Tag       string `gorm:"index;size:64" json:"tag"`
	Date      string `gorm:"index;size:10" json:"date"` // YYYY-MM-DD
	Kind      string `gorm:"size:10" json:"kind"`       // "in" or "out"
	Timestamp string `gorm:"size:40" json:"timestamp"`  // RFC3339
	DeviceID  string `gorm:"size:64" json:"device_id"`

	ProcessStatus string    `gorm:"index;size:20;default:pending" json:"process_status"`
	CreatedAt     time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (BiometricLog) TableName() string {
	return "biometric_logs"
}
