package decision

import (
	"testing"
	"time"

	"ceacwatch/internal/ceac"
	"ceacwatch/internal/config"
	"ceacwatch/internal/history"
)

func successResult(status, lastUpdated string) ceac.Result {
	return ceac.Result{Success: true, Status: status, CaseLastUpdated: lastUpdated}
}

func TestFirstObservationSends(t *testing.T) {
	e := &Engine{Location: time.UTC}
	d := e.Evaluate(successResult("In Transit", "01-Jan-2023"), nil, time.Now())
	if !d.Send || d.Reason != ReasonFirstObservation {
		t.Fatalf("got %+v, want send on first observation", d)
	}
}

func TestChangeDetection(t *testing.T) {
	now := time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)
	hist := []history.Record{
		{Status: "In Transit", LastUpdated: "01-Jan-2023", ObservedAt: now.Add(-time.Hour), NotifiedAt: now.Add(-time.Hour)},
	}
	e := &Engine{Location: time.UTC}

	tests := []struct {
		name   string
		res    ceac.Result
		send   bool
		reason string
	}{
		{"status changed", successResult("Issued", "01-Jan-2023"), true, ReasonStatusChanged},
		{"date changed", successResult("In Transit", "05-Jan-2023"), true, ReasonStatusChanged},
		{"both changed", successResult("Issued", "05-Jan-2023"), true, ReasonStatusChanged},
		{"unchanged within window", successResult("In Transit", "01-Jan-2023"), false, ReasonUnchanged},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := e.Evaluate(tc.res, hist, now)
			if d.Send != tc.send || d.Reason != tc.reason {
				t.Errorf("got %+v, want send=%v reason=%s", d, tc.send, tc.reason)
			}
		})
	}
}

func TestResendWindow(t *testing.T) {
	now := time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)
	e := &Engine{Location: time.UTC}
	res := successResult("In Transit", "01-Jan-2023")

	histAt := func(notified time.Time) []history.Record {
		return []history.Record{{
			Status: "In Transit", LastUpdated: "01-Jan-2023",
			ObservedAt: notified, NotifiedAt: notified,
		}}
	}

	if d := e.Evaluate(res, histAt(now.Add(-time.Hour)), now); d.Send {
		t.Errorf("1h since last send: got %+v, want no send", d)
	}
	if d := e.Evaluate(res, histAt(now.Add(-23*time.Hour)), now); d.Send {
		t.Errorf("23h since last send: got %+v, want no send", d)
	}
	if d := e.Evaluate(res, histAt(now.Add(-24*time.Hour)), now); !d.Send || d.Reason != ReasonResendWindow {
		t.Errorf("exactly 24h: got %+v, want heartbeat resend", d)
	}
	if d := e.Evaluate(res, histAt(now.Add(-25*time.Hour)), now); !d.Send || d.Reason != ReasonResendWindow {
		t.Errorf("25h: got %+v, want heartbeat resend", d)
	}
}

func TestResendWindowFallsBackToObservedAt(t *testing.T) {
	now := time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)
	e := &Engine{Location: time.UTC}
	// Old record without a notified-at timestamp.
	hist := []history.Record{{
		Status: "In Transit", LastUpdated: "01-Jan-2023",
		ObservedAt: now.Add(-25 * time.Hour),
	}}
	d := e.Evaluate(successResult("In Transit", "01-Jan-2023"), hist, now)
	if !d.Send || d.Reason != ReasonResendWindow {
		t.Fatalf("got %+v, want resend based on observation time", d)
	}
}

func TestQuietHoursGateForRefused(t *testing.T) {
	window, err := config.ParseActiveHours("09:00-21:00")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	e := &Engine{Location: time.UTC, ActiveHours: &window}

	at3am := time.Date(2023, 1, 10, 3, 0, 0, 0, time.UTC)
	atNoon := time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)

	// Refused outside the window is suppressed even on a real change.
	d := e.Evaluate(successResult("Refused", "09-Jan-2023"), nil, at3am)
	if d.Send || d.Reason != ReasonQuietHours {
		t.Errorf("refused at 03:00: got %+v, want quiet-hours suppression", d)
	}

	// Inside the window the otherwise-true decision stands.
	d = e.Evaluate(successResult("Refused", "09-Jan-2023"), nil, atNoon)
	if !d.Send {
		t.Errorf("refused at noon: got %+v, want send", d)
	}

	// Other statuses are never gated.
	d = e.Evaluate(successResult("Issued", "09-Jan-2023"), nil, at3am)
	if !d.Send {
		t.Errorf("issued at 03:00: got %+v, want send", d)
	}
}

func TestQuietHoursZeroWidthWindowIsHonored(t *testing.T) {
	// "00:00-00:00" is a deliberate midnight-minute-only window, not an
	// unset one; only nil ActiveHours means all day.
	window, err := config.ParseActiveHours("00:00-00:00")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	e := &Engine{Location: time.UTC, ActiveHours: &window}

	atNoon := time.Date(2023, 1, 10, 12, 0, 0, 0, time.UTC)
	if d := e.Evaluate(successResult("Refused", "09-Jan-2023"), nil, atNoon); d.Send {
		t.Errorf("refused at noon with midnight-only window: got %+v, want suppression", d)
	}

	atMidnight := time.Date(2023, 1, 10, 0, 0, 30, 0, time.UTC)
	if d := e.Evaluate(successResult("Refused", "09-Jan-2023"), nil, atMidnight); !d.Send {
		t.Errorf("refused inside midnight-only window: got %+v, want send", d)
	}

	unset := &Engine{Location: time.UTC}
	if d := unset.Evaluate(successResult("Refused", "09-Jan-2023"), nil, atNoon); !d.Send {
		t.Errorf("refused with no window configured: got %+v, want send", d)
	}
}

func TestQuietHoursUsesConfiguredTimezone(t *testing.T) {
	window, err := config.ParseActiveHours("09:00-21:00")
	if err != nil {
		t.Fatalf("parse window: %v", err)
	}
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	e := &Engine{Location: shanghai, ActiveHours: &window}

	// 04:00 UTC is 12:00 in Shanghai: inside the window there.
	noonShanghai := time.Date(2023, 1, 10, 4, 0, 0, 0, time.UTC)
	if d := e.Evaluate(successResult("Refused", "09-Jan-2023"), nil, noonShanghai); !d.Send {
		t.Errorf("got %+v, want send at Shanghai noon", d)
	}

	// 19:00 UTC is 03:00 in Shanghai: suppressed there.
	nightShanghai := time.Date(2023, 1, 10, 19, 0, 0, 0, time.UTC)
	if d := e.Evaluate(successResult("Refused", "09-Jan-2023"), nil, nightShanghai); d.Send {
		t.Errorf("got %+v, want suppression at Shanghai 03:00", d)
	}
}
