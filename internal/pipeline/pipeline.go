package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hfrat-dashboard-service/internal/domain"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/observability"
	"github.com/couchcryptid/hfrat-dashboard-service/internal/snapshot"
	"github.com/couchcryptid/storm-data-shared/retry"
	"github.com/jonboulle/clockwork"
)

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// ReportSource fetches the current facility reports.
type ReportSource interface {
	FetchReports(ctx context.Context) ([]domain.ReportRecord, error)
}

// SnapshotSink receives every dashboard the poller publishes.
type SnapshotSink interface {
	LoadSnapshot(ctx context.Context, d domain.Dashboard) error
}

// Sink is a named SnapshotSink. The name labels delivery failures.
type Sink struct {
	Name string
	SnapshotSink
}

// Poller runs the fetch-derive-publish loop: reports are extracted from the
// source, transformed into a dashboard, and loaded into the store and sinks.
type Poller struct {
	source   ReportSource
	store    *snapshot.Store
	sinks    []Sink
	logger   *slog.Logger
	metrics  *observability.Metrics
	clock    clockwork.Clock
	interval time.Duration
	ready    atomic.Bool

	// deliverMu keeps sink deliveries from overlapping so every sink sees
	// generations in increasing order.
	deliverMu sync.Mutex
}

// Option customizes a Poller.
type Option func(*Poller)

// WithClock replaces the clock used for the poll interval and backoff.
func WithClock(c clockwork.Clock) Option {
	return func(p *Poller) { p.clock = c }
}

// WithSinks adds sinks that receive each published dashboard after the store.
func WithSinks(sinks ...Sink) Option {
	return func(p *Poller) { p.sinks = append(p.sinks, sinks...) }
}

// New creates a Poller that refreshes the store every interval.
func New(source ReportSource, store *snapshot.Store, logger *slog.Logger, metrics *observability.Metrics, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{
		source:   source,
		store:    store,
		logger:   logger,
		metrics:  metrics,
		clock:    clockwork.NewRealClock(),
		interval: interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckReadiness returns nil once a dashboard has been published.
func (p *Poller) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("poller has not published a dashboard yet")
	}
	return nil
}

// Run polls until the context is cancelled. Failed fetches are retried with
// exponential backoff; successful ones wait for the next interval.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("poller started", "interval", p.interval)
	p.metrics.PollerRunning.Set(1)
	defer p.metrics.PollerRunning.Set(0)

	backoff := initialBackoff
	for {
		wait := p.interval
		if _, err := p.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("poll failed", "error", err, "retry_in", backoff)
			wait = backoff
			backoff = retry.NextBackoff(backoff, maxBackoff)
		} else {
			backoff = initialBackoff
		}

		if !p.sleep(ctx, wait) {
			break
		}
	}

	p.logger.Info("poller stopping", "reason", ctx.Err())
	return nil
}

// Refresh performs one cycle now and returns the dashboard that is current
// afterwards. When a concurrent cycle that started later has already
// published, its newer dashboard is returned instead.
func (p *Poller) Refresh(ctx context.Context) (domain.Dashboard, error) {
	start := p.clock.Now()
	gen := p.store.Begin()

	reports, err := p.source.FetchReports(ctx)
	if err != nil {
		p.metrics.PollsTotal.WithLabelValues("error").Inc()
		return domain.Dashboard{}, err
	}

	d := domain.BuildDashboard(reports)
	if !p.store.Publish(gen, d) {
		p.metrics.StaleSnapshots.Inc()
		p.logger.Debug("discarding superseded dashboard", "id", d.ID, "generation", gen)
		latest, _ := p.store.Latest()
		return latest, nil
	}

	p.metrics.PollsTotal.WithLabelValues("success").Inc()
	p.metrics.ReportsFetched.Set(float64(d.Metrics.TotalFacilities))
	p.metrics.CriticalReports.Set(float64(d.Metrics.CriticalCount))
	p.ready.Store(true)

	p.deliver(ctx, gen, d)

	p.metrics.PollDuration.Observe(p.clock.Since(start).Seconds())
	p.logger.Debug("dashboard published",
		"id", d.ID,
		"facilities", d.Metrics.TotalFacilities,
		"critical", d.Metrics.CriticalCount,
	)
	return d, nil
}

// deliver hands d to every sink. A failing sink does not affect the others
// or the stored snapshot. Delivery stops as soon as a newer generation has
// been published; that generation's own delivery follows.
func (p *Poller) deliver(ctx context.Context, gen uint64, d domain.Dashboard) {
	p.deliverMu.Lock()
	defer p.deliverMu.Unlock()

	for _, s := range p.sinks {
		if p.store.Generation() != gen {
			p.logger.Debug("skipping delivery of superseded dashboard", "id", d.ID, "generation", gen, "sink", s.Name)
			return
		}
		if err := s.LoadSnapshot(ctx, d); err != nil {
			p.metrics.SinkErrors.WithLabelValues(s.Name).Inc()
			p.logger.Warn("snapshot sink failed", "sink", s.Name, "error", err, "id", d.ID)
		}
	}
}

func (p *Poller) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := p.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
