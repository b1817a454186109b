package model

import "time"

type Holiday struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Date        time.Time `gorm:"uniqueIndex;type:date;not null" json:"date"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	IsMandatory bool      `gorm:"not null;default:true" json:"isMandatory"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

func (Holiday) TableName() string {
	return "holidays"
}
