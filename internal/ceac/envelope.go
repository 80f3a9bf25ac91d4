package ceac

import "strings"

// extractUpdatePanel unwraps an ASP.NET async postback envelope, a
// pipe-delimited stream of the form ...|updatePanel|<panel id>|<html>|...
// It returns the replacement fragment for panelID, or ok=false when the
// response is a full document. The envelope format is a versioned CEAC
// contract; keep all knowledge of it behind this function.
func extractUpdatePanel(body, panelID string) (fragment string, ok bool) {
	if !strings.Contains(body, "updatePanel") {
		return "", false
	}
	parts := strings.Split(body, "|")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "updatePanel" && parts[i+1] == panelID {
			return parts[i+2], true
		}
	}
	return "", false
}
