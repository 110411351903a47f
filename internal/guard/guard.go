// Package guard is the unconditional safety gate applied to the single
// chosen action before execution.
package guard

import (
	"time"

	"github.com/trindadeeesx/nexus/internal/model"
)

// Config holds the guard thresholds.
type Config struct {
	// MinConfidence below which actions are blocked.
	MinConfidence float64
	// Cooldown is the minimum interval between executed actions.
	Cooldown time.Duration
	// SilentStartHour..SilentEndHour is the inclusive hour window in
	// which SPEAK actions are blocked.
	SilentStartHour int
	SilentEndHour   int
}

// DefaultConfig returns the standard thresholds: confidence 0.6,
// 5 second cooldown, silent hours 00:00-06:59.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.6,
		Cooldown:        5 * time.Second,
		SilentStartHour: 0,
		SilentEndHour:   6,
	}
}

// Guard evaluates its rules in fixed order, short-circuiting on the
// first violation. The hotword rule runs before the confidence rule so
// unauthorized voice triggers are rejected regardless of how confident
// the derived action is.
type Guard struct {
	cfg Config
	now func() time.Time
}

// New creates a guard with the given thresholds.
func New(cfg Config) *Guard {
	return &Guard{cfg: cfg, now: time.Now}
}

// WithClock replaces the guard's clock. Test seam.
func (g *Guard) WithClock(now func() time.Time) *Guard {
	g.now = now
	return g
}

// Check gates the chosen action. The event is optional; when nil, the
// voice hotword rule is skipped.
func (g *Guard) Check(action model.Action, state *State, event *model.Event) model.GuardResult {
	now := g.now()

	if event != nil && event.Type == model.EventVoice && !event.HotwordInvoked() {
		return model.GuardResult{Allowed: false, Reason: model.ReasonVoiceWithoutHotword}
	}

	if action.Confidence < g.cfg.MinConfidence {
		return model.GuardResult{Allowed: false, Reason: model.ReasonConfidenceTooLow}
	}

	if last, ok := state.LastAction(); ok && now.Sub(last) < g.cfg.Cooldown {
		return model.GuardResult{Allowed: false, Reason: model.ReasonCooldownActive}
	}

	if action.Type == model.ActionSpeak {
		hour := now.Hour()
		if hour >= g.cfg.SilentStartHour && hour <= g.cfg.SilentEndHour {
			return model.GuardResult{Allowed: false, Reason: model.ReasonSilentHours}
		}
	}

	return model.GuardResult{Allowed: true}
}
