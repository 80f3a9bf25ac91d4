package notify

import (
	"fmt"
	"strings"
	"time"

	"ceacwatch/internal/ceac"
	"ceacwatch/internal/util"
)

// caseDateLayout matches CEAC's native date rendering, e.g. "19-Oct-2022".
const caseDateLayout = "2-Jan-2006"

// Payload is the enriched query result handed to every channel.
type Payload struct {
	ceac.Result

	NotificationID string `json:"notification_id"`
	// DaysSinceLastUpdated is nil when the CEAC date is absent or does not
	// parse; that is different from zero days.
	DaysSinceLastUpdated *int   `json:"days_since_last_updated,omitempty"`
	MessageText          string `json:"message_text"`
}

// Enrich attaches the derived fields and the rendered message text to a
// successful result.
func Enrich(res ceac.Result, now time.Time) Payload {
	p := Payload{Result: res, NotificationID: util.NewNotificationID()}
	if days, ok := DaysSinceLastUpdated(res.CaseLastUpdated, now); ok {
		p.DaysSinceLastUpdated = &days
	}
	p.MessageText = renderMessage(p)
	return p
}

// DaysSinceLastUpdated returns whole calendar days between the CEAC-native
// last-updated date and now's date. ok is false for absent or unparseable
// input.
func DaysSinceLastUpdated(lastUpdated string, now time.Time) (days int, ok bool) {
	s := strings.TrimSpace(lastUpdated)
	if s == "" {
		return 0, false
	}
	d, err := time.Parse(caseDateLayout, s)
	if err != nil {
		return 0, false
	}
	y, m, day := now.Date()
	nowDate := time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	thenDate := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(nowDate.Sub(thenDate).Hours() / 24), true
}

// DaysText renders the days-ago annotation, "N/A" when unknown.
func (p Payload) DaysText() string {
	if p.DaysSinceLastUpdated == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d day(s)", *p.DaysSinceLastUpdated)
}

func renderMessage(p Payload) string {
	return strings.Join([]string{
		"CEAC Status Update",
		"Case: " + p.CaseNumberRequested,
		"Status: " + p.Status,
		"Visa Type: " + p.VisaType,
		"Case Created: " + p.CaseCreated,
		fmt.Sprintf("Last Updated: %s (%s ago)", p.CaseLastUpdated, p.DaysText()),
		"Checked At: " + p.CheckedAt.Format("2006-01-02 15:04:05"),
		"Description: " + p.Description,
	}, "\n")
}
