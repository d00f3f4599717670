package models

import "time"

// NotificationTypeFollow is the only notification type raised by the follow graph
const NotificationTypeFollow = "follow"

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"`
	ActorID     string    `json:"actor_id" gorm:"type:varchar(128);index"`
	RecipientID string    `json:"recipient_id" gorm:"type:varchar(128);index"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`

	Actor     *User `json:"-" gorm:"foreignKey:ActorID;references:ID;constraint:OnDelete:CASCADE"`
	Recipient *User `json:"-" gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE"`
}
