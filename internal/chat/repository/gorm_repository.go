package repository

import (
	"time"

	"medic-backend/internal/chat/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormChatRepository struct {
	db *gorm.DB
}

// NewGormChatRepository creates a new GORM-based ChatRepository
func NewGormChatRepository(db *gorm.DB) ChatRepository {
	return &gormChatRepository{db: db}
}

func (r *gormChatRepository) Create(msg *domain.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	return r.db.Create(msg).Error
}

func (r *gormChatRepository) FindConversation(userID, contactID string, since time.Time) ([]*domain.ChatMessage, error) {
	var messages []*domain.ChatMessage
	err := r.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", contactID, userID, userID, contactID).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *gormChatRepository) MarkAsRead(receiverID, senderID string) (int64, error) {
	result := r.db.Model(&domain.ChatMessage{}).
		Where("receiver_id = ? AND sender_id = ? AND is_read = ?", receiverID, senderID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}
