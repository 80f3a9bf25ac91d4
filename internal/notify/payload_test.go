package notify

import (
	"strings"
	"testing"
	"time"

	"ceacwatch/internal/ceac"
)

func TestDaysSinceLastUpdated(t *testing.T) {
	now := time.Date(2022, 10, 29, 12, 0, 0, 0, time.UTC)

	days, ok := DaysSinceLastUpdated("19-Oct-2022", now)
	if !ok || days != 10 {
		t.Fatalf("got days=%d ok=%v, want 10 days", days, ok)
	}

	days, ok = DaysSinceLastUpdated("29-Oct-2022", now)
	if !ok || days != 0 {
		t.Fatalf("same day: got days=%d ok=%v, want 0 days", days, ok)
	}

	if _, ok := DaysSinceLastUpdated("not a date", now); ok {
		t.Fatalf("unparseable date must yield no value, not zero")
	}
	if _, ok := DaysSinceLastUpdated("", now); ok {
		t.Fatalf("absent date must yield no value")
	}
	if _, ok := DaysSinceLastUpdated("  ", now); ok {
		t.Fatalf("blank date must yield no value")
	}
}

func TestEnrich(t *testing.T) {
	now := time.Date(2022, 10, 29, 8, 30, 0, 0, time.UTC)
	res := ceac.Result{
		Success:             true,
		Status:              "Issued",
		VisaType:            "NONIMMIGRANT VISA APPLICATION",
		CaseCreated:         "30-Aug-2022",
		CaseLastUpdated:     "19-Oct-2022",
		Description:         "Your visa is in final processing.",
		CaseNumberRequested: "AA0020AKAX",
		CheckedAt:           now,
	}

	p := Enrich(res, now)
	if p.NotificationID == "" {
		t.Errorf("notification id not assigned")
	}
	if p.DaysSinceLastUpdated == nil || *p.DaysSinceLastUpdated != 10 {
		t.Fatalf("days since = %v, want 10", p.DaysSinceLastUpdated)
	}

	want := strings.Join([]string{
		"CEAC Status Update",
		"Case: AA0020AKAX",
		"Status: Issued",
		"Visa Type: NONIMMIGRANT VISA APPLICATION",
		"Case Created: 30-Aug-2022",
		"Last Updated: 19-Oct-2022 (10 day(s) ago)",
		"Checked At: 2022-10-29 08:30:00",
		"Description: Your visa is in final processing.",
	}, "\n")
	if p.MessageText != want {
		t.Errorf("message text:\n%s\nwant:\n%s", p.MessageText, want)
	}
}

func TestEnrichUnparseableDate(t *testing.T) {
	now := time.Date(2022, 10, 29, 8, 30, 0, 0, time.UTC)
	p := Enrich(ceac.Result{Success: true, CaseLastUpdated: "pending"}, now)
	if p.DaysSinceLastUpdated != nil {
		t.Fatalf("days since = %v, want nil", p.DaysSinceLastUpdated)
	}
	if !strings.Contains(p.MessageText, "(N/A ago)") {
		t.Errorf("message text should carry N/A annotation: %q", p.MessageText)
	}
}
