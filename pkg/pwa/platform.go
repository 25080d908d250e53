package pwa

import (
	"regexp"
	"strings"

	"medic-backend/pkg/pushclient"
)

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformDesktop Platform = "desktop"
	PlatformUnknown Platform = "unknown"
)

var (
	androidRe = regexp.MustCompile(`(?i)android`)
	iosRe     = regexp.MustCompile(`(?i)iphone|ipad|ipod`)
	desktopRe = regexp.MustCompile(`(?i)windows|mac|linux`)
	safariRe  = regexp.MustCompile(`(?i)safari`)
	notSafari = regexp.MustCompile(`(?i)chrome|crios|fxios`)
	chromeRe  = regexp.MustCompile(`(?i)chrome`)
)

// ClassifyPlatform is a best-effort guess from the user agent. Android is
// checked before desktop because Android agents also mention Linux.
func ClassifyPlatform(userAgent string) Platform {
	switch {
	case androidRe.MatchString(userAgent):
		return PlatformAndroid
	case iosRe.MatchString(userAgent):
		return PlatformIOS
	case desktopRe.MatchString(userAgent):
		return PlatformDesktop
	}
	return PlatformUnknown
}

// IsIOSSafari reports Safari on iOS, where installing is manual.
func IsIOSSafari(userAgent string) bool {
	return iosRe.MatchString(userAgent) && safariRe.MatchString(userAgent) && !notSafari.MatchString(userAgent)
}

// Environment is what the page can observe about itself.
type Environment struct {
	UserAgent             string `json:"userAgent"`
	DisplayModeStandalone bool   `json:"displayModeStandalone"`
	NavigatorStandalone   bool   `json:"navigatorStandalone"`
	Referrer              string `json:"referrer"`
	SecureContext         bool   `json:"secureContext"`
	HasServiceWorker      bool   `json:"hasServiceWorker"`
	HasManifest           bool   `json:"hasManifest"`
	Hostname              string `json:"hostname"`
}

// IsInstalled is true when any standalone signal is present.
func IsInstalled(env Environment) bool {
	return env.DisplayModeStandalone ||
		env.NavigatorStandalone ||
		strings.Contains(env.Referrer, "android-app://")
}

type Requirements struct {
	Manifest        bool `json:"manifest"`
	ServiceWorker   bool `json:"serviceWorker"`
	SecureContext   bool `json:"secureContext"`
	NotSandboxed    bool `json:"notSandboxed"`
	IsAndroidChrome bool `json:"isAndroidChrome"`
}

// Met reports the minimum an install needs.
func (r Requirements) Met() bool {
	return r.Manifest && r.ServiceWorker && r.SecureContext
}

func CheckRequirements(env Environment) Requirements {
	return Requirements{
		Manifest:        env.HasManifest,
		ServiceWorker:   env.HasServiceWorker,
		SecureContext:   env.SecureContext,
		NotSandboxed:    !pushclient.IsSandboxed(env.Hostname, ""),
		IsAndroidChrome: androidRe.MatchString(env.UserAgent) && chromeRe.MatchString(env.UserAgent),
	}
}
