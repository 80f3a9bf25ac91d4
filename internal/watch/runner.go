package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"ceacwatch/internal/ceac"
	"ceacwatch/internal/decision"
	"ceacwatch/internal/history"
	"ceacwatch/internal/notify"
	"ceacwatch/internal/observability"
)

type Querier interface {
	Query(ctx context.Context, req ceac.Request) ceac.Result
}

// Runner executes check-and-maybe-notify cycles: query CEAC, decide, persist,
// broadcast. One cycle is one blocking sequence; the runner is not safe for
// concurrent cycles and is never run that way.
type Runner struct {
	Querier  Querier
	Request  ceac.Request
	Store    history.Store
	Engine   *decision.Engine
	Notifier *notify.Broadcaster

	// Limiter paces cycles in Watch; Breaker stops hammering CEAC after
	// consecutive failures. Both optional.
	Limiter *rate.Limiter
	Breaker *gobreaker.CircuitBreaker

	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

// CycleReport summarizes one cycle for callers that present it (the check
// command).
type CycleReport struct {
	Result   ceac.Result
	Decision decision.Decision
	Notified bool
}

// RunCycle performs one query → decide → persist → notify sequence. A failed
// query touches neither history nor channels; the report carries its
// diagnostic. The returned error covers store failures and an open breaker
// only.
func (r *Runner) RunCycle(ctx context.Context) (CycleReport, error) {
	var rep CycleReport

	start := time.Now()
	res, err := r.query(ctx)
	observability.QueryLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		observability.Queries.WithLabelValues("breaker_open").Inc()
		slog.Warn("skipping CEAC query, breaker open", "err", err)
		return rep, err
	}
	rep.Result = res

	if !res.Success {
		observability.Queries.WithLabelValues("failure").Inc()
		slog.Error("status query failed; skipping notification", "err", res.Error)
		return rep, nil
	}
	observability.Queries.WithLabelValues("success").Inc()
	slog.Info("status fetched",
		"status", res.Status,
		"last_updated", res.CaseLastUpdated,
		"case", res.CaseNumberRequested,
	)

	now := r.now()
	hist, err := r.Store.Load(ctx)
	if err != nil {
		return rep, fmt.Errorf("load history: %w", err)
	}

	dec := r.Engine.Evaluate(res, hist, now)
	rep.Decision = dec
	observability.Decisions.WithLabelValues(strconv.FormatBool(dec.Send), dec.Reason).Inc()
	if !dec.Send {
		slog.Info("no notification", "reason", dec.Reason)
		return rep, nil
	}

	// Persist before dispatching so a channel failure can never make the
	// same change look unsent on the next cycle.
	rec := history.Record{
		Status:      res.Status,
		LastUpdated: res.CaseLastUpdated,
		ObservedAt:  now,
		NotifiedAt:  now,
	}
	if err := r.Store.Append(ctx, rec); err != nil {
		observability.HistoryAppends.WithLabelValues("error").Inc()
		return rep, fmt.Errorf("append history: %w", err)
	}
	observability.HistoryAppends.WithLabelValues("ok").Inc()

	r.Notifier.Dispatch(ctx, notify.Enrich(res, now))
	rep.Notified = true
	return rep, nil
}

// query runs the CEAC call through the breaker when one is configured. A
// failure result counts against the breaker; an open breaker surfaces as an
// error with no result.
func (r *Runner) query(ctx context.Context) (ceac.Result, error) {
	if r.Breaker == nil {
		return r.Querier.Query(ctx, r.Request), nil
	}
	out, err := r.Breaker.Execute(func() (any, error) {
		res := r.Querier.Query(ctx, r.Request)
		if !res.Success {
			return res, errors.New(res.Error)
		}
		return res, nil
	})
	if res, ok := out.(ceac.Result); ok {
		// Failure results come back alongside the breaker's error; the
		// result already carries the diagnostic.
		return res, nil
	}
	return ceac.Result{}, err
}

// Watch runs cycles at the given interval until ctx is cancelled. Cycle
// errors are logged, never fatal; the next tick tries again.
func (r *Runner) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if r.Limiter != nil {
			if err := r.Limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if _, err := r.RunCycle(ctx); err != nil && !isBreakerOpen(err) {
			slog.Error("cycle failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func (r *Runner) now() time.Time {
	if r.Clock != nil {
		return r.Clock()
	}
	return time.Now()
}
