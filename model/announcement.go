package model

import "time"

type Announcement struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Body        string     `gorm:"size:2000" json:"body"`
	CreatedByID uint       `gorm:"not null" json:"createdBy"`
	ExpiresAt   *time.Time `json:"expiresAt"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`

	CreatedBy User `gorm:"foreignKey:CreatedByID;references:ID" json:"-"`
}

func (Announcement) TableName() string {
	return "announcements"
}
