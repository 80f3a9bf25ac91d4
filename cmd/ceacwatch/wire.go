package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"ceacwatch/internal/awsutil"
	"ceacwatch/internal/captcha"
	"ceacwatch/internal/ceac"
	"ceacwatch/internal/config"
	"ceacwatch/internal/decision"
	"ceacwatch/internal/history"
	"ceacwatch/internal/logging"
	"ceacwatch/internal/notify"
	"ceacwatch/internal/notify/sqschan"
	"ceacwatch/internal/notify/telegram"
	"ceacwatch/internal/observability"
	"ceacwatch/internal/watch"
)

type app struct {
	cfg    config.Config
	runner *watch.Runner
	store  history.Store
	close  func()
}

func buildApp(ctx context.Context) (*app, error) {
	_ = godotenv.Load() // optional .env for local runs

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init("ceacwatch", cfg.LogFormat)
	observability.Register(prometheus.DefaultRegisterer)

	store, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	solver := &captcha.HTTPSolver{
		URL:  cfg.CaptchaSolverURL,
		HTTP: &http.Client{Timeout: 30 * time.Second},
	}
	client := ceac.NewClient(cfg.BaseURL, solver)

	broadcaster := &notify.Broadcaster{}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		broadcaster.Add(&telegram.Client{
			BotToken: cfg.TelegramBotToken,
			ChatID:   cfg.TelegramChatID,
			HTTP:     &http.Client{Timeout: 10 * time.Second},
		})
	}
	if cfg.SQSQueueURL != "" {
		sqsClient, err := awsutil.NewSQSClient(ctx, cfg.AWSRegion, cfg.LocalstackEndpoint)
		if err != nil {
			closeStore()
			return nil, fmt.Errorf("sqs client init: %w", err)
		}
		broadcaster.Add(&sqschan.Publisher{SQS: sqsClient, QueueURL: cfg.SQSQueueURL})
	}
	if len(broadcaster.Channels) == 0 {
		slog.Warn("no notification channels configured; decisions will only be logged")
	}

	window, err := config.ParseActiveHours(cfg.ActiveHours)
	if err != nil {
		closeStore()
		return nil, err
	}

	runner := &watch.Runner{
		Querier: client,
		Request: ceac.Request{
			Location:       cfg.Location,
			CaseNumber:     cfg.CaseNumber,
			PassportNumber: cfg.PassportNumber,
			Surname:        cfg.Surname,
		},
		Store: store,
		Engine: &decision.Engine{
			Location:    config.ResolveTimezone(cfg.Timezone),
			ActiveHours: &window,
		},
		Notifier: broadcaster,
		Limiter:  rate.NewLimiter(rate.Every(cfg.MinQuerySpacing), 1),
		Breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "ceac",
			MaxRequests: 1,
			Timeout:     30 * time.Minute,
			ReadyToTrip: func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 5 },
		}),
	}
	return &app{cfg: cfg, runner: runner, store: store, close: closeStore}, nil
}

func buildStore(ctx context.Context, cfg config.Config) (history.Store, func(), error) {
	switch cfg.HistoryBackend {
	case "", "file":
		return &history.FileStore{Path: cfg.HistoryFile}, func() {}, nil
	case "sqlite":
		s, err := history.OpenSQLite(cfg.HistoryDBPath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		if cfg.HistoryDSN == "" {
			return nil, nil, errors.New("HISTORY_DSN is required for the postgres history backend")
		}
		pool, err := pgxpool.New(ctx, cfg.HistoryDSN)
		if err != nil {
			return nil, nil, err
		}
		s := history.NewPG(pool)
		if err := s.Init(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("init history schema: %w", err)
		}
		return s, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
