package pwa

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MaxEvents bounds the rolling event log.
const MaxEvents = 50

type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeDismissed Outcome = "dismissed"
)

// Prompt is a captured native install prompt.
type Prompt interface {
	Show(ctx context.Context) error
	UserChoice(ctx context.Context) (Outcome, error)
}

type State struct {
	Platform     Platform     `json:"platform"`
	Installed    bool         `json:"installed"`
	Installable  bool         `json:"installable"`
	CanPrompt    bool         `json:"canPrompt"`
	Requirements Requirements `json:"requirements"`
	LastError    string       `json:"lastError,omitempty"`
}

// Advisor tracks installability for one page lifetime.
type Advisor struct {
	logger zerolog.Logger
	now    func() time.Time

	mu     sync.Mutex
	state  State
	prompt Prompt
	events []string
}

func NewAdvisor(env Environment, logger zerolog.Logger) *Advisor {
	return newAdvisor(env, logger, time.Now)
}

func newAdvisor(env Environment, logger zerolog.Logger, now func() time.Time) *Advisor {
	a := &Advisor{logger: logger, now: now}

	req := CheckRequirements(env)
	installed := IsInstalled(env)
	a.state = State{
		Platform:     ClassifyPlatform(env.UserAgent),
		Installed:    installed,
		Installable:  req.Met() && !installed,
		Requirements: req,
	}
	if IsIOSSafari(env.UserAgent) && !env.NavigatorStandalone {
		a.state.Installable = true
	}

	a.logEvent(fmt.Sprintf("platform %s, installed %t, secure %t", a.state.Platform, installed, env.SecureContext))
	return a
}

func (a *Advisor) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Events returns a copy of the event log, oldest first.
func (a *Advisor) Events() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.events...)
}

// OnBeforeInstallPrompt retains the native prompt so Install can show it later.
func (a *Advisor) OnBeforeInstallPrompt(p Prompt) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.prompt = p
	a.state.Installable = true
	a.state.CanPrompt = true
	a.logEvent("beforeinstallprompt captured")
}

func (a *Advisor) OnAppInstalled() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.prompt = nil
	a.state.Installed = true
	a.state.Installable = false
	a.state.CanPrompt = false
	a.logEvent("appinstalled")
}

// Install shows the captured prompt and reports whether the user accepted.
func (a *Advisor) Install(ctx context.Context) bool {
	a.mu.Lock()
	p := a.prompt
	a.mu.Unlock()

	if p == nil {
		a.fail("no install prompt available")
		return false
	}

	if err := p.Show(ctx); err != nil {
		a.fail(fmt.Sprintf("error during installation: %v", err))
		return false
	}
	outcome, err := p.UserChoice(ctx)
	if err != nil {
		a.fail(fmt.Sprintf("error during installation: %v", err))
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.logEvent("user choice: " + string(outcome))
	if outcome != OutcomeAccepted {
		return false
	}
	a.prompt = nil
	a.state.CanPrompt = false
	return true
}

// Instructions returns manual steps when no prompt can be shown.
func (a *Advisor) Instructions() *Instructions {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Installed || a.state.CanPrompt {
		return nil
	}
	a.logEvent("showing instructions for " + string(a.state.Platform))
	return InstructionsFor(a.state.Platform)
}

func (a *Advisor) fail(msg string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.LastError = msg
	a.logEvent(msg)
	a.logger.Warn().Msg(msg)
}

func (a *Advisor) logEvent(event string) {
	entry := a.now().UTC().Format(time.RFC3339) + ": " + event
	a.events = append(a.events, entry)
	if len(a.events) > MaxEvents {
		a.events = a.events[len(a.events)-MaxEvents:]
	}
	a.logger.Debug().Msg(event)
}
