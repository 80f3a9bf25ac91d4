package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const DefaultActiveHours = "00:00-23:59"

type Config struct {
	// CEAC case credentials
	Location       string `envconfig:"CEAC_LOCATION" required:"true"`
	CaseNumber     string `envconfig:"CEAC_CASE_NUMBER" required:"true"`
	PassportNumber string `envconfig:"CEAC_PASSPORT_NUMBER" required:"true"`
	Surname        string `envconfig:"CEAC_SURNAME" required:"true"`
	BaseURL        string `envconfig:"CEAC_BASE_URL" default:"https://ceac.state.gov"`

	// Notification policy
	Timezone    string `envconfig:"TIMEZONE"`
	ActiveHours string `envconfig:"ACTIVE_HOURS" default:"00:00-23:59"`

	// Watch loop / operational endpoints
	CheckInterval   time.Duration `envconfig:"CHECK_INTERVAL" default:"1h"`
	MinQuerySpacing time.Duration `envconfig:"MIN_QUERY_SPACING" default:"5m"`
	Port            string        `envconfig:"PORT" default:"8080"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`

	// History store: file (default), sqlite or postgres
	HistoryBackend string `envconfig:"HISTORY_BACKEND" default:"file"`
	HistoryFile    string `envconfig:"HISTORY_FILE" default:"status_record.json"`
	HistoryDBPath  string `envconfig:"HISTORY_DB_PATH" default:"ceacwatch.db"`
	HistoryDSN     string `envconfig:"HISTORY_DSN"`

	// Captcha solving sidecar
	CaptchaSolverURL string `envconfig:"CAPTCHA_SOLVER_URL" required:"true"`

	// Channels; each is registered only when configured
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `envconfig:"TELEGRAM_CHAT_ID"`

	AWSRegion          string `envconfig:"AWS_REGION"`
	SQSQueueURL        string `envconfig:"SQS_QUEUE_URL"`
	LocalstackEndpoint string `envconfig:"LOCALSTACK_ENDPOINT"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	// Malformed active hours is a hard failure at load time, not at send time.
	if _, err := ParseActiveHours(cfg.ActiveHours); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ActiveHours is a same-day time-of-day window. Start is never after End;
// overnight-wrapping windows are not supported.
type ActiveHours struct {
	Start time.Duration
	End   time.Duration
}

// FullDay is the default window: notifications allowed around the clock.
func FullDay() ActiveHours {
	w, _ := ParseActiveHours(DefaultActiveHours)
	return w
}

// ParseActiveHours parses an "HH:MM-HH:MM" window string.
func ParseActiveHours(s string) (ActiveHours, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return ActiveHours{}, fmt.Errorf("active hours %q: want HH:MM-HH:MM", s)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return ActiveHours{}, fmt.Errorf("active hours %q: %w", s, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return ActiveHours{}, fmt.Errorf("active hours %q: %w", s, err)
	}
	if start > end {
		return ActiveHours{}, fmt.Errorf("active hours %q: start must not be after end", s)
	}
	return ActiveHours{Start: start, End: end}, nil
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("bad time of day %q", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Contains reports whether t's time-of-day falls inside the window, both ends
// inclusive. Callers convert t to the wanted timezone first.
func (a ActiveHours) Contains(t time.Time) bool {
	d := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return d >= a.Start && d <= a.End
}

// ResolveTimezone maps a tz database name to a location. Unset or unknown
// names degrade to the system local time rather than failing the process.
func ResolveTimezone(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("unknown timezone, using local time", "timezone", name)
		return time.Local
	}
	return loc
}
