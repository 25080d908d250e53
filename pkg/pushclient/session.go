package pushclient

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// State is the registration progress of a session.
type State string

const (
	StateUnknown           State = "unknown"
	StateUnsupported       State = "unsupported"
	StateNoPermission      State = "supported:no-permission"
	StatePermissionDenied  State = "supported:permission-denied"
	StatePermissionGranted State = "supported:permission-granted"
	StateTokenObtained     State = "supported:token-obtained"
	StateRegistered        State = "registered"
)

// TokenStore persists the push token against a user.
type TokenStore interface {
	SaveToken(ctx context.Context, userID, token string) error
	ClearToken(ctx context.Context, userID string) error
}

// Session owns the registration state of one page lifetime. Create a new
// Session to start over.
type Session struct {
	platform Platform
	config   WebConfig
	store    TokenStore
	logger   zerolog.Logger

	mu    sync.Mutex
	state State
	caps  *Capabilities

	messagingProbed    bool
	messagingSupported bool
	workerRegistered   bool
}

func NewSession(platform Platform, config WebConfig, store TokenStore, logger zerolog.Logger) *Session {
	return &Session{
		platform: platform,
		config:   config,
		store:    store,
		logger:   logger,
		state:    StateUnknown,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Capabilities returns the support report, probing the platform on first use.
func (s *Session) Capabilities() Capabilities {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capabilitiesLocked()
}

func (s *Session) capabilitiesLocked() Capabilities {
	if s.caps == nil {
		caps := CheckSupport(s.platform)
		s.caps = &caps
		switch {
		case !caps.Supported():
			s.state = StateUnsupported
		case caps.Permission == PermissionGranted:
			s.state = StatePermissionGranted
		case caps.Permission == PermissionDenied:
			s.state = StatePermissionDenied
		default:
			s.state = StateNoPermission
		}
	}
	return *s.caps
}

// RequestPermission returns true when notifications may be shown. A denied
// permission is never re-prompted.
func (s *Session) RequestPermission(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	caps := s.capabilitiesLocked()
	if !caps.Notification {
		s.logger.Info().Msg("notifications not supported in this browser")
		return false
	}

	switch s.platform.Permission() {
	case PermissionGranted:
		s.advance(StatePermissionGranted)
		return true
	case PermissionDenied:
		s.state = StatePermissionDenied
		return false
	}

	perm, err := s.platform.RequestPermission(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("permission request failed")
		return false
	}
	if perm != PermissionGranted {
		if perm == PermissionDenied {
			s.state = StatePermissionDenied
		}
		return false
	}
	s.advance(StatePermissionGranted)
	return true
}

// RegisterServiceWorker registers the background worker once per session.
// Sandboxed previews and insecure origins skip silently.
func (s *Session) RegisterServiceWorker(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registerWorkerLocked(ctx)
}

func (s *Session) registerWorkerLocked(ctx context.Context) bool {
	if s.workerRegistered {
		return true
	}
	caps := s.capabilitiesLocked()
	if !caps.CanRegisterServiceWorker() {
		s.logger.Debug().
			Bool("sandboxed", caps.Sandboxed).
			Bool("secure", caps.SecureContext).
			Msg("service worker registration skipped")
		return false
	}
	if err := s.platform.RegisterServiceWorker(ctx, ServiceWorkerPath); err != nil {
		s.logger.Warn().Err(err).Msg("service worker registration failed")
		return false
	}
	s.workerRegistered = true
	return true
}

// GetToken returns the push token, or "" on any failure. An invalid
// configuration fails before the platform is touched.
func (s *Session) GetToken(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getTokenLocked(ctx)
}

func (s *Session) getTokenLocked(ctx context.Context) string {
	if err := s.config.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("push disabled")
		return ""
	}

	if !s.messagingProbed {
		ok, err := s.platform.MessagingSupported(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("messaging support probe failed")
			return ""
		}
		s.messagingProbed = true
		s.messagingSupported = ok
	}
	if !s.messagingSupported {
		s.logger.Info().Msg("messaging not supported in this browser")
		return ""
	}

	s.registerWorkerLocked(ctx)

	token, err := s.platform.GetToken(ctx, s.config.VAPIDKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to obtain push token")
		return ""
	}
	if token == "" {
		return ""
	}
	s.advance(StateTokenObtained)
	return token
}

// RegisterAndPersist runs permission, token and persistence in order and
// returns the stored token, or "" if any step fails.
func (s *Session) RegisterAndPersist(ctx context.Context, userID string) string {
	if !s.RequestPermission(ctx) {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	token := s.getTokenLocked(ctx)
	if token == "" {
		return ""
	}
	if err := s.store.SaveToken(ctx, userID, token); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to persist push token")
		return ""
	}
	s.state = StateRegistered
	s.logger.Info().Str("user_id", userID).Msg("push token registered")
	return token
}

// Disable clears the stored token. The browser subscription itself is left
// in place.
func (s *Session) Disable(ctx context.Context, userID string) bool {
	if err := s.store.ClearToken(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear push token")
		return false
	}

	s.mu.Lock()
	if s.state == StateRegistered || s.state == StateTokenObtained {
		s.state = StatePermissionGranted
	}
	s.mu.Unlock()
	return true
}

// advance moves forward only; it never downgrades a later state.
func (s *Session) advance(to State) {
	if rank[to] > rank[s.state] {
		s.state = to
	}
}

var rank = map[State]int{
	StateUnknown:           0,
	StateNoPermission:      1,
	StatePermissionGranted: 2,
	StateTokenObtained:     3,
	StateRegistered:        4,
}
