package pushclient

import (
	"errors"
	"fmt"
)

// WebConfig is the public browser-side messaging configuration served by
// GET /api/push/config.
type WebConfig struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
	VAPIDKey          string `json:"vapidKey"`
}

var ErrConfigIncomplete = errors.New("push configuration incomplete")

var placeholders = map[string]bool{
	"your-value-here": true,
	"your_vapid_key":  true,
	"your-api-key":    true,
	"changeme":        true,
}

// Validate fails when any value is empty or still a template placeholder.
func (c WebConfig) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"apiKey", c.APIKey},
		{"authDomain", c.AuthDomain},
		{"projectId", c.ProjectID},
		{"storageBucket", c.StorageBucket},
		{"messagingSenderId", c.MessagingSenderID},
		{"appId", c.AppID},
		{"vapidKey", c.VAPIDKey},
	}
	for _, f := range fields {
		if f.value == "" || placeholders[f.value] {
			return fmt.Errorf("%w: %s", ErrConfigIncomplete, f.name)
		}
	}
	return nil
}
