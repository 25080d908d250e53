package notifyview

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BannerDuration is how long the in-page fallback banner stays up.
const BannerDuration = 5 * time.Second

// Handle is a visible notification.
type Handle interface {
	Close()
}

// Display shows system-style notifications from the page.
type Display interface {
	PermissionGranted() bool
	Show(title string, opts Options) (Handle, error)
}

type Dismisser interface {
	Dismiss()
}

// Banner renders the in-page fallback when notifications are not allowed.
type Banner interface {
	ShowBanner(title, body string) Dismisser
}

// Presenter renders pushes that arrive while the page is focused.
type Presenter struct {
	display Display
	banner  Banner
	icon    string
	logger  zerolog.Logger

	now   func() time.Time
	after func(time.Duration, func()) *time.Timer

	mu     sync.Mutex
	active map[string]Handle
}

func NewPresenter(display Display, banner Banner, icon string, logger zerolog.Logger) *Presenter {
	return &Presenter{
		display: display,
		banner:  banner,
		icon:    icon,
		logger:  logger,
		now:     time.Now,
		after:   time.AfterFunc,
		active:  make(map[string]Handle),
	}
}

// HandleForeground shows the payload, replacing any notification with the
// same tag. Without permission it falls back to a transient banner.
func (p *Presenter) HandleForeground(payload Payload) {
	title, body := Resolve(payload)

	if p.display != nil && p.display.PermissionGranted() {
		if p.show(title, payload) {
			return
		}
	}
	p.showBanner(title, body)
}

func (p *Presenter) show(title string, payload Payload) bool {
	opts := BuildOptions(payload, ForegroundTag, p.icon, p.now())

	p.mu.Lock()
	defer p.mu.Unlock()

	if prev, ok := p.active[opts.Tag]; ok {
		prev.Close()
		delete(p.active, opts.Tag)
	}

	h, err := p.display.Show(title, opts)
	if err != nil {
		p.logger.Warn().Err(err).Msg("foreground notification failed, using banner")
		return false
	}
	p.active[opts.Tag] = h
	return true
}

func (p *Presenter) showBanner(title, body string) {
	if p.banner == nil {
		p.logger.Warn().Str("title", title).Msg("no banner available, notification dropped")
		return
	}
	d := p.banner.ShowBanner(title, body)
	if d != nil {
		p.after(BannerDuration, d.Dismiss)
	}
}

// Dismiss closes the notification shown under tag, if any.
func (p *Presenter) Dismiss(tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h, ok := p.active[tag]; ok {
		h.Close()
		delete(p.active, tag)
	}
}
