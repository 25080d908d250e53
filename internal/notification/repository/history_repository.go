package repository

import (
	"time"

	notifdomain "medic-backend/internal/notification/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryRepository is the append-only delivery log
type HistoryRepository interface {
	Create(record *notifdomain.NotificationHistory) error
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new instance of historyRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{
		db: db,
	}
}

func (r *historyRepository) Create(record *notifdomain.NotificationHistory) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now()
	if record.SentAt.IsZero() {
		record.SentAt = now
	}
	record.CreatedAt = now
	return r.db.Create(record).Error
}
