package usecase

import (
	authdomain "medic-backend/internal/auth/domain"
	authdto "medic-backend/internal/auth/dto"
)

// AuthUsecase defines login, token validation and push registration persistence
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (*authdomain.User, error)

	// RegisterPushToken overwrites the user's stored push token
	RegisterPushToken(userID, token, deviceInfo string) error
	// UnregisterPushToken clears the stored token; the browser subscription is left alone
	UnregisterPushToken(userID string) error
	PushStatus(userID string) (bool, error)
}
