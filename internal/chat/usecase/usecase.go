package usecase

import (
	"context"

	"medic-backend/internal/chat/domain"
)

// ChatUsecase defines chat business logic
type ChatUsecase interface {
	// SendMessage stores the message and notifies the receiver in the
	// background. Notification failures never fail the send.
	SendMessage(ctx context.Context, senderID, receiverID, message string, messageType domain.MessageType, senderType domain.SenderType) (*domain.ChatMessage, error)

	// GetRecentMessages returns the last five days of a conversation
	GetRecentMessages(userID, contactID string) ([]*domain.ChatMessage, error)

	// MarkAsRead marks everything contactID sent to userID as read
	MarkAsRead(userID, contactID string) (int64, error)
}
