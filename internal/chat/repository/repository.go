package repository

import (
	"time"

	"medic-backend/internal/chat/domain"
)

// ChatRepository defines the interface for chat message data access
type ChatRepository interface {
	// Create inserts a message, assigning an id when empty
	Create(msg *domain.ChatMessage) error

	// FindConversation returns messages exchanged between two users since the
	// given time, oldest first
	FindConversation(userID, contactID string, since time.Time) ([]*domain.ChatMessage, error)

	// MarkAsRead flags unread messages from sender to receiver as read
	MarkAsRead(receiverID, senderID string) (int64, error)
}
