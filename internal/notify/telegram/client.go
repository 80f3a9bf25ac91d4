package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"ceacwatch/internal/notify"
)

// Client sends notifications through the Telegram Bot API using MarkdownV2
// formatting.
type Client struct {
	BotToken string
	ChatID   string
	HTTP     *http.Client
	BaseURL  string // override in tests; empty means the public API
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) Name() string { return "telegram" }

func (c *Client) Send(ctx context.Context, p notify.Payload) error {
	base := strings.TrimRight(c.BaseURL, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	endpoint := base + "/bot" + c.BotToken + "/sendMessage"

	form := url.Values{}
	form.Set("chat_id", c.ChatID)
	form.Set("text", messageText(p))
	form.Set("parse_mode", "MarkdownV2")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpc := c.HTTP
	if httpc == nil {
		httpc = http.DefaultClient
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)

	var out apiResponse
	_ = json.Unmarshal(b, &out)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !out.OK {
		if out.Description != "" {
			return errors.New("telegram: " + out.Description)
		}
		return fmt.Errorf("telegram send failed: http %d", resp.StatusCode)
	}
	return nil
}

// messageText builds a bold title plus a short field list; the long CEAC
// description is left to channels with more room.
func messageText(p notify.Payload) string {
	title := escapeMarkdownV2(fmt.Sprintf("[ceacwatch] %s: %s", p.CaseNumberRequested, p.Status))
	lines := []string{
		"*Case:* " + escapeMarkdownV2(p.CaseNumberRequested),
		"*Status:* " + escapeMarkdownV2(p.Status),
		"*Visa Type:* " + escapeMarkdownV2(p.VisaType),
		"*Case Created:* " + escapeMarkdownV2(p.CaseCreated),
		fmt.Sprintf("*Last Updated:* %s \\(%s ago\\)",
			escapeMarkdownV2(p.CaseLastUpdated), escapeMarkdownV2(p.DaysText())),
		"*Checked At:* " + escapeMarkdownV2(p.CheckedAt.Format("2006-01-02 15:04:05")),
	}
	return "*" + title + "*\n\n" + strings.Join(lines, "\n")
}

// escapeMarkdownV2 escapes the characters Telegram's MarkdownV2 parser
// treats as markup.
func escapeMarkdownV2(s string) string {
	const specials = "_*[]()~`>#+-=|{}.!"
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
