package notifyview

import "time"

const (
	AppName     = "medic.web"
	DefaultBody = "新しいメッセージがあります"
	DefaultIcon = "/favicon.png"

	// ForegroundTag and BackgroundTag collapse repeated deliveries into a
	// single visible notification per path.
	ForegroundTag = "medic-web-foreground"
	BackgroundTag = "medic-web-notification"

	ActionOpen  = "open"
	ActionClose = "close"
)

// Notification is the display block of a push payload.
type Notification struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
}

// Payload is a received push message.
type Payload struct {
	Notification *Notification    `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

// Resolve picks the title and body, falling back to data fields and then to
// the app defaults.
func Resolve(p Payload) (title, body string) {
	if p.Notification != nil {
		title, body = p.Notification.Title, p.Notification.Body
	}
	if title == "" {
		title = p.Data["title"]
	}
	if body == "" {
		body = p.Data["body"]
	}
	if title == "" {
		title = AppName
	}
	if body == "" {
		body = DefaultBody
	}
	return title, body
}

type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
	Icon   string `json:"icon,omitempty"`
}

// Options is the notification shape shared by the foreground and the
// service worker paths.
type Options struct {
	Body               string            `json:"body,omitempty"`
	Icon               string            `json:"icon"`
	Badge              string            `json:"badge"`
	Tag                string            `json:"tag"`
	RequireInteraction bool              `json:"requireInteraction"`
	Renotify           bool              `json:"renotify"`
	Silent             bool              `json:"silent"`
	Vibrate            []int             `json:"vibrate"`
	Actions            []Action          `json:"actions"`
	Data               map[string]string `json:"data,omitempty"`
	Timestamp          int64             `json:"timestamp,omitempty"`
}

// BaseOptions holds everything except per-message fields.
func BaseOptions(tag, icon string) Options {
	if icon == "" {
		icon = DefaultIcon
	}
	return Options{
		Icon:               icon,
		Badge:              icon,
		Tag:                tag,
		RequireInteraction: true,
		Renotify:           true,
		Silent:             false,
		Vibrate:            []int{200, 100, 200},
		Actions: []Action{
			{Action: ActionOpen, Title: "開く", Icon: icon},
			{Action: ActionClose, Title: "閉じる", Icon: icon},
		},
	}
}

// BuildOptions shapes one message for display.
func BuildOptions(p Payload, tag, icon string, now time.Time) Options {
	opts := BaseOptions(tag, icon)
	_, opts.Body = Resolve(p)
	opts.Data = p.Data
	if opts.Data == nil {
		opts.Data = map[string]string{}
	}
	opts.Timestamp = now.UnixMilli()
	return opts
}
