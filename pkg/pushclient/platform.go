package pushclient

import (
	"context"
	"strings"
)

// ServiceWorkerPath is where the background worker script is served.
const ServiceWorkerPath = "/firebase-messaging-sw.js"

// Permission mirrors the browser's notification permission.
type Permission string

const (
	PermissionDefault Permission = "default"
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

// Platform is the browser surface the registration flow depends on.
type Platform interface {
	HasNotification() bool
	HasServiceWorker() bool
	HasPushManager() bool
	Permission() Permission
	// RequestPermission prompts the user. Only called when Permission is default.
	RequestPermission(ctx context.Context) (Permission, error)

	Hostname() string
	FrameName() string
	IsSecureContext() bool

	RegisterServiceWorker(ctx context.Context, path string) error
	MessagingSupported(ctx context.Context) (bool, error)
	GetToken(ctx context.Context, vapidKey string) (string, error)
}

// Capabilities is the read-only support report for one session.
type Capabilities struct {
	Notification  bool       `json:"notification"`
	ServiceWorker bool       `json:"serviceWorker"`
	PushManager   bool       `json:"pushManager"`
	Permission    Permission `json:"permission"`
	SecureContext bool       `json:"secureContext"`
	Sandboxed     bool       `json:"sandboxed"`
}

// Supported reports whether every subsystem push needs is present.
func (c Capabilities) Supported() bool {
	return c.Notification && c.ServiceWorker && c.PushManager
}

// CanRegisterServiceWorker is false in preview sandboxes and on insecure origins.
func (c Capabilities) CanRegisterServiceWorker() bool {
	return c.ServiceWorker && c.SecureContext && !c.Sandboxed
}

// CheckSupport probes the platform without side effects.
func CheckSupport(p Platform) Capabilities {
	caps := Capabilities{
		Notification:  p.HasNotification(),
		ServiceWorker: p.HasServiceWorker(),
		PushManager:   p.HasPushManager(),
		Permission:    PermissionDenied,
		SecureContext: p.IsSecureContext(),
		Sandboxed:     IsSandboxed(p.Hostname(), p.FrameName()),
	}
	if caps.Notification {
		caps.Permission = p.Permission()
	}
	return caps
}

var sandboxHosts = []string{"stackblitz", "webcontainer", "bolt.new"}

// IsSandboxed recognises hosted preview environments where service workers
// cannot be registered.
func IsSandboxed(hostname, frameName string) bool {
	for _, h := range sandboxHosts {
		if strings.Contains(hostname, h) {
			return true
		}
	}
	return strings.Contains(frameName, "sb-preview-iframe")
}
