package decision

import (
	"time"

	"ceacwatch/internal/ceac"
	"ceacwatch/internal/config"
	"ceacwatch/internal/history"
)

// Decision reasons; they double as the metric label values.
const (
	ReasonFirstObservation = "first_observation"
	ReasonStatusChanged    = "status_changed"
	ReasonResendWindow     = "resend_window_elapsed"
	ReasonUnchanged        = "unchanged"
	ReasonQuietHours       = "quiet_hours"
)

// DefaultResendAfter is the heartbeat interval: an unchanged status is
// re-announced after this long so the user knows the watcher is alive.
const DefaultResendAfter = 24 * time.Hour

// refusedStatus is the one CEAC status gated by active hours; bad news can
// wait until the user is awake.
const refusedStatus = "Refused"

type Decision struct {
	Send   bool
	Reason string
}

// Engine decides whether a successful query result warrants a notification.
// It is pure: the clock and all configuration are inputs, nothing reads the
// process environment. Callers only pass successful results; a failed query
// never reaches the engine.
type Engine struct {
	// Location is the user's timezone for quiet-hours arithmetic; nil means
	// system local time.
	Location *time.Location
	// ActiveHours gates Refused notifications. Nil means no window was
	// configured and the full day is allowed; a configured window is honored
	// as given, zero-width included.
	ActiveHours *config.ActiveHours
	// ResendAfter overrides the heartbeat interval; zero means the default.
	ResendAfter time.Duration
}

func (e *Engine) Evaluate(res ceac.Result, hist []history.Record, now time.Time) Decision {
	d := e.evaluateChange(res, hist, now)
	if !d.Send {
		return d
	}
	if res.Status == refusedStatus && !e.window().Contains(now.In(e.location())) {
		return Decision{Send: false, Reason: ReasonQuietHours}
	}
	return d
}

func (e *Engine) evaluateChange(res ceac.Result, hist []history.Record, now time.Time) Decision {
	if len(hist) == 0 {
		return Decision{Send: true, Reason: ReasonFirstObservation}
	}
	last := hist[len(hist)-1]
	if res.Status != last.Status || res.CaseLastUpdated != last.LastUpdated {
		return Decision{Send: true, Reason: ReasonStatusChanged}
	}
	if now.Sub(last.NotifiedOrObserved()) >= e.resendAfter() {
		return Decision{Send: true, Reason: ReasonResendWindow}
	}
	return Decision{Send: false, Reason: ReasonUnchanged}
}

func (e *Engine) location() *time.Location {
	if e.Location != nil {
		return e.Location
	}
	return time.Local
}

func (e *Engine) window() config.ActiveHours {
	if e.ActiveHours == nil {
		return config.FullDay()
	}
	return *e.ActiveHours
}

func (e *Engine) resendAfter() time.Duration {
	if e.ResendAfter > 0 {
		return e.ResendAfter
	}
	return DefaultResendAfter
}
