package model

import "time"

type LeaveType string

const (
	LeaveCasual LeaveType = "CASUAL"
)

type LeaveStatus string

const (
	LeavePending   LeaveStatus = "PENDING"
	LeaveApproved  LeaveStatus = "APPROVED"
	LeaveRejected  LeaveStatus = "REJECTED"
	LeaveCancelled LeaveStatus = "CANCELLED"
)

// IsTerminal reports whether no further transitions are allowed.
func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveApproved || s == LeaveRejected || s == LeaveCancelled
}

type LeaveApplication struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint        `gorm:"index;not null" json:"userId"`
	LeaveType LeaveType   `gorm:"size:20;not null;default:CASUAL" json:"leaveType"`
	FromDate  time.Time   `gorm:"type:date;not null" json:"fromDate"`
	ToDate    time.Time   `gorm:"type:date;not null" json:"toDate"`
	TotalDays int         `gorm:"not null" json:"totalDays"` // working days only
	Reason    string      `gorm:"size:500" json:"reason"`
	Status    LeaveStatus `gorm:"index;size:10;not null;default:PENDING" json:"status"`

	AppliedAt    time.Time  `gorm:"not null" json:"appliedAt"`
	ReviewedByID *uint      `json:"reviewedBy"`
	ReviewedAt   *time.Time `json:"reviewedAt"`
	ReviewNotes  string     `gorm:"size:500" json:"reviewNotes"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`

	User       User  `gorm:"foreignKey:UserID;references:ID" json:"-"`
	ReviewedBy *User `gorm:"foreignKey:ReviewedByID;references:ID" json:"-"`
}

func (LeaveApplication) TableName() string {
	return "leave_applications"
}
