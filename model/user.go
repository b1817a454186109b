package model

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleLabAdmin   Role = "LAB_ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

type UserStatus string

const (
	UserActive   UserStatus = "ACTIVE"
	UserInactive UserStatus = "INACTIVE"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	EmployeeCode string     `gorm:"uniqueIndex;size:32;not null" json:"employeeCode"`
	FirstName    string     `gorm:"size:100" json:"firstName"`
	LastName     string     `gorm:"size:100" json:"lastName"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"size:100;not null" json:"-"`
	Role         Role       `gorm:"size:20;not null;default:EMPLOYEE" json:"role"`
	Status       UserStatus `gorm:"size:10;not null;default:ACTIVE" json:"status"`
	JoinDate     *time.Time `gorm:"type:date" json:"joinDate"`
	EndDate      *time.Time `gorm:"type:date" json:"endDate"`
	// Identification tag reported by the biometric devices for this user.
	DeviceTag  string         `gorm:"index;size:64" json:"deviceTag"`
	Attributes datatypes.JSON `json:"attributes"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}
