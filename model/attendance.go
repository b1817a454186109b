package model

import "time"

type AttendanceStatus string

const (
	AttendancePresent     AttendanceStatus = "PRESENT"
	AttendanceAbsent      AttendanceStatus = "ABSENT"
	AttendanceHalfDay     AttendanceStatus = "HALF_DAY"
	AttendanceCasualLeave AttendanceStatus = "CASUAL_LEAVE"
	AttendanceWeekend     AttendanceStatus = "WEEKEND"
	AttendanceHoliday     AttendanceStatus = "HOLIDAY"
)

// AttendanceSource identifies who is writing an attendance record. Manual
// edits and leave approvals take precedence over the biometric batch.
type AttendanceSource string

const (
	SourceManual        AttendanceSource = "MANUAL"
	SourceLeaveApproval AttendanceSource = "LEAVE_APPROVAL"
	SourceBiometricSync AttendanceSource = "BIOMETRIC_SYNC"
)

type AttendanceRecord struct {
	ID     uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint             `gorm:"uniqueIndex:idx_attendance_user_date;not null" json:"userId"`
	Date   time.Time        `gorm:"uniqueIndex:idx_attendance_user_date;type:date;not null" json:"date"`
	Status AttendanceStatus `gorm:"size:20;not null" json:"status"`

	FirstInTime   *time.Time `json:"firstInTime"`
	LastOutTime   *time.Time `json:"lastOutTime"`
	TotalDuration int32      `gorm:"default:0" json:"totalDuration"` // minutes

	// ManualOverride marks the record as admin/leave authoritative; the
	// biometric batch must not overwrite it.
	ManualOverride  bool   `gorm:"not null;default:false" json:"manualOverride"`
	BiometricSynced bool   `gorm:"not null;default:false" json:"biometricSynced"`
	Notes           string `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}
