package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeInfo    = "info"
	NotificationTypeSuccess = "success"
	NotificationTypeWarning = "warning"
	NotificationTypeError   = "error"
)

func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationTypeInfo, NotificationTypeSuccess, NotificationTypeWarning, NotificationTypeError:
		return true
	}
	return false
}

// Notification is the durable record of truth for history and unread counts.
type Notification struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID"        json:"-"`
	Title     string    `gorm:"type:text;not null"       json:"title"`
	Message   string    `gorm:"type:text;not null"       json:"message"`
	Type      string    `gorm:"type:text;not null"       json:"type"`
	Read      bool      `gorm:"default:false"            json:"read"`
	Timestamp time.Time `gorm:"autoCreateTime;index"     json:"timestamp"`
}

// RecentNotification is the ephemeral copy pushed onto notifications:<userId>
// for low-latency polling. Read state is not tracked here; the durable row
// owns it.
type RecentNotification struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

func (n *Notification) ToRecent() RecentNotification {
	return RecentNotification{
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		Timestamp: n.Timestamp,
	}
}
