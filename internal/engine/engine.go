// Package engine runs the availability check: session bootstrap, term
// selection, section search, filtering, and alerting.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MaxSteins36/OpenSeat/internal/banner"
	"github.com/MaxSteins36/OpenSeat/internal/config"
	"github.com/MaxSteins36/OpenSeat/internal/metrics"
	"github.com/MaxSteins36/OpenSeat/internal/notify"
)

const failureTitle = "UCR Checker Failure"

// Engine orchestrates one availability check. It owns the registration
// session for the duration of the run and is not safe for concurrent use.
type Engine struct {
	client     banner.Client
	notifier   notify.Notifier
	log        *slog.Logger
	exclusions []ExclusionRule
}

// NewEngine creates a new Engine with injected dependencies.
func NewEngine(c banner.Client, n notify.Notifier, opts ...EngineOption) *Engine {
	eng := &Engine{
		client:     c,
		notifier:   n,
		log:        slog.Default(),
		exclusions: DefaultExclusions(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithExclusions replaces the default exclusion rules.
func WithExclusions(rules []ExclusionRule) EngineOption {
	return func(e *Engine) {
		e.exclusions = rules
	}
}

// RunCheck performs one check for the watched course. On open qualifying
// seats it sends a high-priority notification; on a transport or data
// error it sends a best-effort failure notification and returns the error.
// Notification delivery failures are logged and swallowed either way.
func (eng *Engine) RunCheck(ctx context.Context, watch config.WatchConfig) error {
	start := time.Now()
	metrics.ChecksTotal.Inc()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()

	log := eng.log.With("run_id", uuid.NewString())
	log.Info("starting check", "course", watch.Course, "term", watch.Term)

	open, err := eng.fetchOpenSections(ctx, watch)
	if err != nil {
		metrics.CheckErrorsTotal.Inc()
		log.Error("check failed", "error", err)
		eng.send(ctx, log, &notify.Notification{
			Title:        failureTitle,
			Message:      fmt.Sprintf("The UCR class checker failed with an error: %v", err),
			HighPriority: true,
		})
		return err
	}

	metrics.SectionsOpen.Set(float64(len(open)))

	if len(open) == 0 {
		log.Info("check complete, no open seats match the criteria")
		return nil
	}

	log.Info("open sections found", "count", len(open))
	eng.send(ctx, log, &notify.Notification{
		Title:        fmt.Sprintf("Seat Found for %s!", watch.Course),
		Message:      formatSections(open),
		HighPriority: true,
	})
	return nil
}

// fetchOpenSections runs the three registration-site calls in their
// required order and filters the result. Term selection mutates the
// server-side session, so it must land between the bootstrap and the
// search.
func (eng *Engine) fetchOpenSections(
	ctx context.Context,
	watch config.WatchConfig,
) ([]banner.Section, error) {
	if err := eng.client.StartSession(ctx); err != nil {
		return nil, fmt.Errorf("initializing session: %w", err)
	}

	if err := eng.client.SelectTerm(ctx, watch.Term); err != nil {
		return nil, fmt.Errorf("selecting term: %w", err)
	}

	resp, err := eng.client.Search(ctx, banner.SearchRequest{
		Subject:     watch.Course,
		Term:        watch.Term,
		PageMaxSize: watch.PageMaxSize,
	})
	if err != nil {
		return nil, fmt.Errorf("searching sections: %w", err)
	}

	if err := resp.Validate(); err != nil {
		return nil, err
	}

	return FilterOpen(resp.Data, eng.exclusions), nil
}

// send delivers a notification, swallowing delivery errors: the push alert
// is a side channel and must not change the check's outcome.
func (eng *Engine) send(ctx context.Context, log *slog.Logger, n *notify.Notification) {
	if err := eng.notifier.Send(ctx, n); err != nil {
		metrics.NotificationFailuresTotal.Inc()
		log.Error("notification delivery failed", "title", n.Title, "error", err)
		return
	}
	metrics.NotificationsSentTotal.Inc()
}
