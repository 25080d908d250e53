package domain

import (
	"errors"
	"time"
)

const (
	UserTypeCustomer = "customer"
	UserTypeEmployee = "employee"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid id or password")
)

// User is a courier employee or a customer site. FCMToken holds at most one
// push registration; registering again overwrites it and disabling
// notifications sets it to "".
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Password  string    `json:"-"` // Never return password in JSON
	UserType  string    `json:"user_type" gorm:"not null"`
	Base      string    `json:"base,omitempty"`
	IsAdmin   bool      `json:"is_admin" gorm:"not null;default:false"`
	FCMToken  *string   `json:"-" gorm:"column:fcm_token"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PushToken returns the stored registration token or "".
func (u *User) PushToken() string {
	if u == nil || u.FCMToken == nil {
		return ""
	}
	return *u.FCMToken
}

// HasPushToken reports whether the user has opted in on some device.
func (u *User) HasPushToken() bool {
	return u.PushToken() != ""
}
