package domain

import (
	"time"

	"gorm.io/datatypes"
)

type DeliveryStatus string

const (
	DeliveryStatusSent      DeliveryStatus = "sent"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

// NotificationHistory is one dispatch attempt. Rows are inserted once and never updated.
type NotificationHistory struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	UserID         string         `json:"user_id" gorm:"index;not null"`
	Title          string         `json:"title" gorm:"not null"`
	Body           string         `json:"body" gorm:"not null"`
	Data           datatypes.JSON `json:"data,omitempty"`
	DeliveryStatus DeliveryStatus `json:"delivery_status" gorm:"not null"`
	SentAt         time.Time      `json:"sent_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (NotificationHistory) TableName() string {
	return "notification_history"
}
