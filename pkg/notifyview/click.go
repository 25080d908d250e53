package notifyview

import (
	"fmt"
	"net/url"
	"strings"
)

// ClickTarget returns where a click should lead. The close action never
// navigates.
func ClickTarget(data map[string]string, action string) (string, bool) {
	if action == ActionClose {
		return "", false
	}
	if chatID := data["chatId"]; chatID != "" {
		return "/chat/" + escapeComponent(chatID), true
	}
	return "/", true
}

// escapeComponent percent-encodes s exactly like the service worker's
// encodeURIComponent, so both click paths build the same URL.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' ||
			strings.IndexByte("-_.!~*'()", c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

// Client is an open window of the app.
type Client interface {
	URL() string
	Focus() error
	Navigate(target string) error
}

// Clients is the set of windows reachable from the service worker.
type Clients interface {
	MatchAll() ([]Client, error)
	OpenWindow(target string) error
}

type ClickOutcome string

const (
	ClickDismissed ClickOutcome = "dismissed"
	ClickFocused   ClickOutcome = "focused"
	ClickOpened    ClickOutcome = "opened"
)

// Router handles notification clicks for one origin.
type Router struct {
	origin string
}

func NewRouter(origin string) *Router {
	return &Router{origin: strings.TrimRight(origin, "/")}
}

// HandleClick focuses an open window of the app, moving it to the target,
// or opens a new one.
func (r *Router) HandleClick(clients Clients, data map[string]string, action string) (ClickOutcome, error) {
	target, navigate := ClickTarget(data, action)
	if !navigate {
		return ClickDismissed, nil
	}

	windows, err := clients.MatchAll()
	if err != nil {
		return "", fmt.Errorf("listing clients: %w", err)
	}
	for _, c := range windows {
		if !strings.HasPrefix(c.URL(), r.origin) {
			continue
		}
		if err := c.Focus(); err != nil {
			return "", fmt.Errorf("focusing client: %w", err)
		}
		if current, err := url.Parse(c.URL()); err == nil && !samePath(current, target) {
			if err := c.Navigate(r.origin + target); err != nil {
				return ClickFocused, fmt.Errorf("navigating client: %w", err)
			}
		}
		return ClickFocused, nil
	}

	if err := clients.OpenWindow(target); err != nil {
		return "", fmt.Errorf("opening window: %w", err)
	}
	return ClickOpened, nil
}

func samePath(current *url.URL, target string) bool {
	if current.EscapedPath() == target {
		return true
	}
	decoded, err := url.PathUnescape(target)
	return err == nil && current.Path == decoded
}
