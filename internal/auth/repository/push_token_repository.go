package repository

import (
	"time"

	authdomain "medic-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// pushTokenRepository keeps the token on the users row itself, so a user can
// never have more than one registration stored.
type pushTokenRepository struct {
	db *gorm.DB
}

// NewPushTokenRepository creates a new instance of pushTokenRepository
func NewPushTokenRepository(db *gorm.DB) PushTokenRepository {
	return &pushTokenRepository{
		db: db,
	}
}

func (r *pushTokenRepository) SaveToken(userID, token string) error {
	return r.setToken(userID, token)
}

func (r *pushTokenRepository) ClearToken(userID string) error {
	return r.setToken(userID, "")
}

func (r *pushTokenRepository) setToken(userID, token string) error {
	res := r.db.Model(&authdomain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"fcm_token":  token,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return authdomain.ErrUserNotFound
	}
	return nil
}
