package model

import "time"

// DefaultCasualLeaveTotal is the yearly casual leave entitlement granted
// when a balance row is first created.
const DefaultCasualLeaveTotal = 12

// LeaveBalance holds the per (user, year) casual leave counters. Available is
// maintained by paired increments/decrements alongside used/pending, so
// available = total - used - pending holds after every mutation.
type LeaveBalance struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"uniqueIndex:idx_balance_user_year;not null" json:"userId"`
	Year   int  `gorm:"uniqueIndex:idx_balance_user_year;not null" json:"year"`

	CasualLeaveTotal     int `gorm:"not null;default:12" json:"casualLeaveTotal"`
	CasualLeaveUsed      int `gorm:"not null;default:0" json:"casualLeaveUsed"`
	CasualLeavePending   int `gorm:"not null;default:0" json:"casualLeavePending"`
	CasualLeaveAvailable int `gorm:"not null;default:12" json:"casualLeaveAvailable"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
}

func (LeaveBalance) TableName() string {
	return "leave_balances"
}
