package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	DatabaseURL string

	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Server-side Firebase settings. The service account key is either inline
	// JSON (FIREBASE_SERVICE_ACCOUNT_KEY) or a file path (FIREBASE_CREDENTIALS_FILE).
	FirebaseProjectID         string
	FirebaseServiceAccountKey string
	FirebaseCredentialsFile   string
	FCMSender                 string // "http" or "admin"
	FCMEndpoint               string
	OAuthTokenURL             string
	FCMTokenCache             bool

	Push PushConfig
	Web  WebPushConfig

	PubSubTopic string
}

// PushConfig controls how provider messages are shaped.
type PushConfig struct {
	Kind               string // "webpush" or "mobile"
	Icon               string
	Badge              string
	TTL                time.Duration
	RequireInteraction bool
}

// WebPushConfig is the public browser-side Firebase configuration. It is safe
// to hand to clients; nothing secret lives here.
type WebPushConfig struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
	VAPIDKey          string `json:"vapidKey"`
}

// Load reads configuration from a local .env file (if any) and the environment.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	projectID := v.GetString("FIREBASE_PROJECT_ID")

	return &Config{
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),
		Port:     v.GetString("PORT"),

		DatabaseURL: v.GetString("DATABASE_URL"),

		JWTSecret:       v.GetString("JWT_SECRET"),
		JWTAccessExpiry: getDuration(v, "JWT_ACCESS_EXPIRY", 24*time.Hour),

		FirebaseProjectID:         projectID,
		FirebaseServiceAccountKey: v.GetString("FIREBASE_SERVICE_ACCOUNT_KEY"),
		FirebaseCredentialsFile:   v.GetString("FIREBASE_CREDENTIALS_FILE"),
		FCMSender:                 v.GetString("FCM_SENDER"),
		FCMEndpoint:               v.GetString("FCM_ENDPOINT"),
		OAuthTokenURL:             v.GetString("OAUTH_TOKEN_URL"),
		FCMTokenCache:             v.GetBool("FCM_TOKEN_CACHE"),

		Push: PushConfig{
			Kind:               v.GetString("PUSH_KIND"),
			Icon:               v.GetString("PUSH_ICON"),
			Badge:              v.GetString("PUSH_BADGE"),
			TTL:                getDuration(v, "PUSH_TTL", 24*time.Hour),
			RequireInteraction: v.GetBool("PUSH_REQUIRE_INTERACTION"),
		},
		Web: WebPushConfig{
			APIKey:            v.GetString("FIREBASE_API_KEY"),
			AuthDomain:        v.GetString("FIREBASE_AUTH_DOMAIN"),
			ProjectID:         projectID,
			StorageBucket:     v.GetString("FIREBASE_STORAGE_BUCKET"),
			MessagingSenderID: v.GetString("FIREBASE_MESSAGING_SENDER_ID"),
			AppID:             v.GetString("FIREBASE_APP_ID"),
			VAPIDKey:          v.GetString("FIREBASE_VAPID_KEY"),
		},

		PubSubTopic: v.GetString("PUBSUB_TOPIC"),
	}
}

// ServiceAccountJSON returns the raw service account key, reading the
// credentials file when no inline key is configured.
func (c *Config) ServiceAccountJSON() ([]byte, error) {
	if c.FirebaseServiceAccountKey != "" {
		return []byte(c.FirebaseServiceAccountKey), nil
	}
	if c.FirebaseCredentialsFile == "" {
		return nil, nil
	}
	return os.ReadFile(c.FirebaseCredentialsFile)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PORT", "8080")
	v.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	v.SetDefault("FCM_SENDER", "http")
	v.SetDefault("FCM_ENDPOINT", "https://fcm.googleapis.com/v1")
	v.SetDefault("OAUTH_TOKEN_URL", "https://oauth2.googleapis.com/token")
	v.SetDefault("FCM_TOKEN_CACHE", true)
	v.SetDefault("PUSH_KIND", "webpush")
	v.SetDefault("PUSH_ICON", "/favicon.png")
	v.SetDefault("PUSH_BADGE", "/favicon.png")
	v.SetDefault("PUSH_REQUIRE_INTERACTION", false)
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return def
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		return parsed
	}
	return def
}
