package ceac

import "testing"

func TestExtractUpdatePanel(t *testing.T) {
	const panel = "ctl00_ContentPlaceHolder1_UpdatePanel1"

	body := "1|#||4|55|updatePanel|" + panel + "|<span>Issued</span>|0|hiddenField|__VIEWSTATE|abc|"
	got, ok := extractUpdatePanel(body, panel)
	if !ok {
		t.Fatalf("expected envelope to be recognized")
	}
	if got != "<span>Issued</span>" {
		t.Fatalf("fragment = %q", got)
	}
}

func TestExtractUpdatePanelFullPage(t *testing.T) {
	if _, ok := extractUpdatePanel("<html><body>full page</body></html>", "panel"); ok {
		t.Fatalf("full page must not be treated as an envelope")
	}
}

func TestExtractUpdatePanelWrongPanel(t *testing.T) {
	body := "1|#||4|55|updatePanel|otherPanel|<span>x</span>|"
	if _, ok := extractUpdatePanel(body, "wanted"); ok {
		t.Fatalf("mismatched panel id must not match")
	}
}

func TestExtractUpdatePanelTruncated(t *testing.T) {
	if _, ok := extractUpdatePanel("1|updatePanel", "p"); ok {
		t.Fatalf("truncated envelope must not match")
	}
	if _, ok := extractUpdatePanel("1|updatePanel|p", "p"); ok {
		t.Fatalf("envelope without fragment slot must not match")
	}
}
