package domain

import (
	"errors"
	"time"
)

// MessageType is the preset reply a chat message carries
type MessageType string

const (
	MessageTypePickupYes    MessageType = "pickup_yes"
	MessageTypePickupNo     MessageType = "pickup_no"
	MessageTypeRePickup     MessageType = "re_pickup"
	MessageTypeAutoResponse MessageType = "auto_response"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageTypePickupYes, MessageTypePickupNo, MessageTypeRePickup, MessageTypeAutoResponse:
		return true
	}
	return false
}

// SenderType identifies who wrote a message
type SenderType string

const (
	SenderTypeCustomer SenderType = "customer"
	SenderTypeEmployee SenderType = "employee"
	SenderTypeSystem   SenderType = "system"
)

func (t SenderType) Valid() bool {
	switch t {
	case SenderTypeCustomer, SenderTypeEmployee, SenderTypeSystem:
		return true
	}
	return false
}

// RecentWindow is how far back a conversation is loaded.
const RecentWindow = 5 * 24 * time.Hour

var ErrInvalidMessage = errors.New("receiver, message and a valid message type are required")

// ChatMessage is one message between a customer site and a courier
type ChatMessage struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	SenderID    string      `json:"sender_id" gorm:"index;not null"`
	ReceiverID  string      `json:"receiver_id" gorm:"index;not null"`
	Message     string      `json:"message" gorm:"not null"`
	MessageType MessageType `json:"message_type" gorm:"not null"`
	SenderType  SenderType  `json:"sender_type" gorm:"not null"`
	IsRead      bool        `json:"is_read" gorm:"default:false"`
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
