package dto

import authdomain "medic-backend/internal/auth/domain"

type LoginRequest struct {
	ID       string `json:"id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string           `json:"access_token"`
	ExpiresAt   int64            `json:"expires_at"`
	User        *authdomain.User `json:"user"`
}

type RegisterPushTokenRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

type PushStatusResponse struct {
	Registered bool `json:"registered"`
}
