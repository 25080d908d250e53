package fcm

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"firebase.google.com/go/v4/messaging"
)

// Kind selects the provider message variant.
type Kind string

const (
	KindWebpush Kind = "webpush"
	KindMobile  Kind = "mobile"
)

// DefaultTTL is how long FCM keeps an undelivered message.
const DefaultTTL = 24 * time.Hour

// ParseKind maps a config value to a Kind; anything unknown is webpush.
func ParseKind(s string) Kind {
	if Kind(s) == KindMobile {
		return KindMobile
	}
	return KindWebpush
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title string
	Body  string
	Data  map[string]string // Custom data payload, string values only
}

// Presentation carries the display hints applied on the receiving side.
type Presentation struct {
	Icon               string
	Badge              string
	RequireInteraction bool
	TTL                time.Duration
}

func (p Presentation) ttl() time.Duration {
	if p.TTL <= 0 {
		return DefaultTTL
	}
	return p.TTL
}

// Message is a provider message addressed to one registration token.
type Message interface {
	Kind() Kind
	Token() string
	Firebase() *messaging.Message
}

// WebpushMessage targets a browser registration.
type WebpushMessage struct {
	To           string
	Notification NotificationData
	Presentation Presentation
}

func (m *WebpushMessage) Kind() Kind    { return KindWebpush }
func (m *WebpushMessage) Token() string { return m.To }

func (m *WebpushMessage) Firebase() *messaging.Message {
	return &messaging.Message{
		Token: m.To,
		Notification: &messaging.Notification{
			Title: m.Notification.Title,
			Body:  m.Notification.Body,
		},
		Data: m.Notification.Data,
		Webpush: &messaging.WebpushConfig{
			Headers: map[string]string{
				"TTL": strconv.FormatInt(int64(m.Presentation.ttl()/time.Second), 10),
			},
			Notification: &messaging.WebpushNotification{
				Icon:               m.Presentation.Icon,
				Badge:              m.Presentation.Badge,
				RequireInteraction: m.Presentation.RequireInteraction,
			},
		},
	}
}

// MobileMessage targets a native app installation.
type MobileMessage struct {
	To           string
	Notification NotificationData
	Presentation Presentation
}

func (m *MobileMessage) Kind() Kind    { return KindMobile }
func (m *MobileMessage) Token() string { return m.To }

func (m *MobileMessage) Firebase() *messaging.Message {
	ttl := m.Presentation.ttl()
	return &messaging.Message{
		Token: m.To,
		Notification: &messaging.Notification{
			Title: m.Notification.Title,
			Body:  m.Notification.Body,
		},
		Data: m.Notification.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			TTL:      &ttl,
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}

// NewMessage builds the variant selected by kind.
func NewMessage(kind Kind, token string, n NotificationData, p Presentation) (Message, error) {
	if token == "" {
		return nil, fmt.Errorf("fcm: empty registration token")
	}
	switch kind {
	case KindWebpush:
		return &WebpushMessage{To: token, Notification: n, Presentation: p}, nil
	case KindMobile:
		return &MobileMessage{To: token, Notification: n, Presentation: p}, nil
	default:
		return nil, fmt.Errorf("fcm: unknown message kind %q", kind)
	}
}

// StringData coerces an arbitrary payload into the string-only map FCM
// requires. Scalars use their natural text form (numbers never in exponent
// notation); nested values become JSON.
func StringData(data map[string]interface{}) map[string]string {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case float32:
			out[k] = strconv.FormatFloat(float64(val), 'f', -1, 32)
		case bool, int, int64, int32, uint, uint64, json.Number:
			out[k] = fmt.Sprint(val)
		default:
			raw, err := json.Marshal(val)
			if err != nil {
				out[k] = fmt.Sprint(val)
				continue
			}
			out[k] = string(raw)
		}
	}
	return out
}

// MaskToken shortens a registration token for logs.
func MaskToken(token string) string {
	if len(token) <= 12 {
		return token
	}
	return token[:12] + "..."
}
