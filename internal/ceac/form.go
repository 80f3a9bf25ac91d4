package ceac

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Element identifiers and form field names from the CEAC status tracker.
// These are an external contract that can change without notice; every lookup
// against them fails with its own diagnostic so format drift is visible.
const (
	statusPath  = "/ceacstattracker/status.aspx"
	statusQuery = "App=NIV"

	captchaImageID     = "c_status_ctl00_contentplaceholder1_defaultcaptcha_CaptchaImage"
	locationDropdownID = "Location_Dropdown"
	updatePanelID      = "ctl00_ContentPlaceHolder1_UpdatePanel1"

	statusSpanID      = "ctl00_ContentPlaceHolder1_ucApplicationStatusView_lblStatus"
	caseNumberSpanID  = "ctl00_ContentPlaceHolder1_ucApplicationStatusView_lblCaseNo"
	visaTypeSpanID    = "ctl00_ContentPlaceHolder1_ucApplicationStatusView_lblAppName"
	submitDateSpanID  = "ctl00_ContentPlaceHolder1_ucApplicationStatusView_lblSubmitDate"
	statusDateSpanID  = "ctl00_ContentPlaceHolder1_ucApplicationStatusView_lblStatusDate"
	descriptionSpanID = "ctl00_ContentPlaceHolder1_ucApplicationStatusView_lblMessage"

	fieldLocation   = "ctl00$ContentPlaceHolder1$Location_Dropdown"
	fieldCaseNumber = "ctl00$ContentPlaceHolder1$Visa_Case_Number"
	fieldCaptcha    = "ctl00$ContentPlaceHolder1$Captcha"
	fieldPassport   = "ctl00$ContentPlaceHolder1$Passport_Number"
	fieldSurname    = "ctl00$ContentPlaceHolder1$Surname"
)

// baseForm returns the protocol-required hidden fields with their historical
// defaults. The __VIEWSTATE* and LBD_VCID values here are placeholders only;
// the live ones are re-read from the fetched page before submission.
func baseForm() url.Values {
	return url.Values{
		"ctl00$ToolkitScriptManager1":                     {"ctl00$ContentPlaceHolder1$UpdatePanel1|ctl00$ContentPlaceHolder1$btnSubmit"},
		"ctl00_ToolkitScriptManager1_HiddenField":         {";;AjaxControlToolkit, Version=4.1.40412.0, Culture=neutral, PublicKeyToken=28f01b0e84b6d53e:en-US:acfc7575-cdee-46af-964f-5d85d9cdcf92:de1feab2:f9cec9bc:a67c2700:f2c8e708:8613aea7:3202a5a2:ab09e3fe:87104b7c:be6fb298"},
		"__EVENTTARGET":                                   {"ctl00$ContentPlaceHolder1$btnSubmit"},
		"__EVENTARGUMENT":                                 {""},
		"__LASTFOCUS":                                     {""},
		"__VIEWSTATE":                                     {"8GJOG5GAuT1ex7KX3jakWssS08FPVm5hTO2feqUpJk8w5ukH4LG/o39O4OFGzy/f2XLN8uMeXUQBDwcO9rnn5hdlGUfb2IOmzeTofHrRNmB/hwsFyI4mEx0mf7YZo19g"},
		"__VIEWSTATEGENERATOR":                            {"DBF1011F"},
		"__VIEWSTATEENCRYPTED":                            {""},
		"ctl00$ContentPlaceHolder1$Visa_Application_Type": {"NIV"},
		"LBD_VCID_c_status_ctl00_contentplaceholder1_defaultcaptcha":           {"a81747f3a56d4877bf16e1a5450fb944"},
		"LBD_BackWorkaround_c_status_ctl00_contentplaceholder1_defaultcaptcha": {"1"},
		"__ASYNCPOST": {"true"},
	}
}

// freshnessFields rotate on every page load. Submitting stale values makes
// the server treat the postback as malformed, so they must come from the
// page fetched moments earlier in the same session.
var freshnessFields = []string{
	"__VIEWSTATE",
	"__VIEWSTATEGENERATOR",
	"LBD_VCID_c_status_ctl00_contentplaceholder1_defaultcaptcha",
}

// refreshFromPage overwrites the freshness fields with the hidden input
// values present on the just-fetched page. Fields absent from the page keep
// their defaults.
func refreshFromPage(doc *goquery.Document, form url.Values) {
	for _, name := range freshnessFields {
		sel := doc.Find(`input[name="` + name + `"]`).First()
		if v, ok := sel.Attr("value"); ok {
			form.Set(name, v)
		}
	}
}
