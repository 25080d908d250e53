package repository

import authdomain "medic-backend/internal/auth/domain"

// UserRepository defines user persistence. Find methods return (nil, nil)
// when no row matches.
type UserRepository interface {
	Create(user *authdomain.User) error
	FindByID(id string) (*authdomain.User, error)
	Update(user *authdomain.User) error
}

// PushTokenRepository stores the single push registration token of a user.
type PushTokenRepository interface {
	// SaveToken overwrites the user's token (last write wins).
	SaveToken(userID, token string) error
	// ClearToken sets the user's token to "". Clearing an empty token succeeds.
	ClearToken(userID string) error
}
