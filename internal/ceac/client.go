package ceac

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ceacwatch/internal/captcha"
)

// Client emulates the CEAC status tracker's stateful form flow: fetch the
// page, solve its captcha, replay the ASP.NET postback. One Query performs
// exactly three outbound calls (page GET, image GET, form POST) over a fresh
// cookie-bearing session and never retries; retry pressure against CEAC is
// the caller's decision.
type Client struct {
	BaseURL string
	Solver  captcha.Solver

	// HTTP supplies the transport and timeout; Query attaches its own cookie
	// jar per attempt so sessions never leak between checks.
	HTTP *http.Client
}

func NewClient(baseURL string, solver captcha.Solver) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Solver:  solver,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Query runs one status-check attempt. All protocol failures collapse into a
// Result with Success=false and a diagnostic naming the step that broke;
// Query itself never returns a Go error.
func (c *Client) Query(ctx context.Context, req Request) Result {
	session := c.newSession()

	// 1) fetch the status form
	pageURL := c.BaseURL + statusPath + "?" + statusQuery
	page, status, err := c.get(ctx, session, pageURL)
	if err != nil {
		return failure("GET status page failed: " + err.Error())
	}
	slog.Debug("status page fetched", "http_status", status, "bytes", len(page))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return failure("GET status page failed: " + err.Error())
	}

	// 2) locate the captcha challenge
	src, ok := doc.Find("img#" + captchaImageID).First().Attr("src")
	if !ok || src == "" {
		return failure("Captcha image tag not found")
	}

	// 3) fetch the challenge image, resolved against the site root
	img, status, err := c.get(ctx, session, c.BaseURL+src)
	if err != nil {
		return failure("GET captcha image failed: " + err.Error())
	}
	slog.Debug("captcha image fetched", "http_status", status, "bytes", len(img))

	// 4) solve it
	token, err := c.Solver.Solve(ctx, img)
	if err != nil {
		return failure("Captcha solve failed: " + err.Error())
	}

	// 5) resolve the embassy/consulate dropdown value
	locationValue, err := resolveLocation(doc, req.Location)
	if err != nil {
		return failure(err.Error())
	}

	// 6) compose the postback
	form := baseForm()
	form.Set(fieldLocation, locationValue)
	form.Set(fieldCaseNumber, req.CaseNumber)
	form.Set(fieldPassport, req.PassportNumber)
	form.Set(fieldSurname, req.Surname)
	form.Set(fieldCaptcha, token)
	refreshFromPage(doc, form)

	// 7) submit
	body, status, err := c.post(ctx, session, c.BaseURL+statusPath, form)
	if err != nil {
		return failure("POST status form failed: " + err.Error())
	}
	slog.Debug("status form submitted", "http_status", status, "bytes", len(body))

	// 8) the response is either an async partial-update envelope or a full page
	html := string(body)
	if fragment, ok := extractUpdatePanel(html, updatePanelID); ok {
		html = fragment
	}
	resultDoc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return failure("POST status form failed: " + err.Error())
	}

	// 9) extract the result fields
	statusText := spanText(resultDoc, statusSpanID)
	if statusText == "" {
		return failure("Status tag not found in response")
	}

	echoed := spanText(resultDoc, caseNumberSpanID)
	if echoed != "" && echoed != req.CaseNumber {
		// Integrity violation: the response describes someone else's case.
		return failure(fmt.Sprintf("Case number mismatch: requested %s, response shows %s", req.CaseNumber, echoed))
	}

	return Result{
		Success:             true,
		Status:              statusText,
		VisaType:            spanText(resultDoc, visaTypeSpanID),
		CaseCreated:         spanText(resultDoc, submitDateSpanID),
		CaseLastUpdated:     spanText(resultDoc, statusDateSpanID),
		Description:         spanText(resultDoc, descriptionSpanID),
		CaseNumber:          echoed,
		CaseNumberRequested: req.CaseNumber,
		CheckedAt:           time.Now(),
	}
}

// newSession clones the configured client with a fresh cookie jar. CEAC ties
// the captcha and view-state to the session cookie, so all three calls of one
// attempt must share it and no two attempts may.
func (c *Client) newSession() *http.Client {
	jar, _ := cookiejar.New(nil)
	session := &http.Client{Jar: jar}
	if c.HTTP != nil {
		session.Transport = c.HTTP.Transport
		session.Timeout = c.HTTP.Timeout
	}
	return session
}

func (c *Client) get(ctx context.Context, session *http.Client, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	return c.do(session, req)
}

func (c *Client) post(ctx context.Context, session *http.Client, rawURL string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(session, req)
}

func (c *Client) do(session *http.Client, req *http.Request) ([]byte, int, error) {
	setBrowserHeaders(req)
	resp, err := session.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return b, resp.StatusCode, nil
}

// setBrowserHeaders makes the session look like an ordinary browser visit;
// CEAC serves different markup to clients it does not recognize.
func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/105.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.9")
	req.Header.Set("Accept-Language", "en,zh-CN;q=0.9,zh;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
}

// resolveLocation matches the caller-supplied location as a substring of an
// option's display text; the first match wins.
func resolveLocation(doc *goquery.Document, location string) (string, error) {
	dropdown := doc.Find("select#" + locationDropdownID)
	if dropdown.Length() == 0 {
		return "", errors.New("Location dropdown not found")
	}
	var value string
	dropdown.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if strings.Contains(opt.Text(), location) {
			value, _ = opt.Attr("value")
			return false
		}
		return true
	})
	if value == "" {
		return "", errors.New("Location not found in dropdown options")
	}
	return value, nil
}

func spanText(doc *goquery.Document, id string) string {
	return strings.TrimSpace(doc.Find("span#" + id).First().Text())
}
