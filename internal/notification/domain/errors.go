package domain

import "errors"

var (
	ErrInvalidRequest = errors.New("missing required fields: receiverId, title, body")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoToken        = errors.New("user has no FCM token")
	ErrNotConfigured  = errors.New("firebase configuration not found")
)
