// Package poller runs the usage display loop: fetch the latest power
// samples on a fixed interval and push them to the display views. Any
// failure leaves the previous figures on screen and is retried on the
// next tick.
package poller

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/slickwilli/solar-usage/models"
	"github.com/slickwilli/solar-usage/pkg/display"
)

// Querier fetches power samples from the metrics backend.
type Querier interface {
	QueryWindow(window, bucket time.Duration) ([]models.Sample, error)
	QuerySince(ts time.Time, bucket time.Duration) ([]models.Sample, error)
}

// NumbersView shows the current figures.
type NumbersView interface {
	Update(models.Sample)
	UpdateNoSample()
}

// GraphView shows sample history.
type GraphView interface {
	Update([]models.Sample)
}

// Status is a snapshot of loop state for the status endpoint.
type Status struct {
	LastSample time.Time `json:"last_sample"`
	Stale      bool      `json:"stale"`
}

type Poller struct {
	client  Querier
	numbers NumbersView
	graph   GraphView
	logger  *zap.Logger
	metrics *Metrics

	staleAfter time.Duration
	window     time.Duration
	bucket     time.Duration
	now        func() time.Time

	mu   sync.Mutex
	last models.Sample
}

func New(logger *zap.Logger, client Querier, numbers NumbersView, graph GraphView, metrics *Metrics, staleAfter time.Duration) *Poller {
	return &Poller{
		client:     client,
		numbers:    numbers,
		graph:      graph,
		logger:     logger.Named("poller"),
		metrics:    metrics,
		staleAfter: staleAfter,
		window:     display.GraphWindow,
		bucket:     display.SampleBucket,
		now:        time.Now,
	}
}

// Run polls the backend once per interval until done is closed. The
// fetch blocks its tick, so a slow backend delays the next refresh
// instead of stacking concurrent fetches.
func (p *Poller) Run(interval time.Duration, done <-chan bool) {
	if !p.bootstrap(interval, done) {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			p.logger.Info("stopping poller")
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// bootstrap blocks until the backend returns at least one sample, then
// seeds the views. Returns false when done closes first.
func (p *Poller) bootstrap(interval time.Duration, done <-chan bool) bool {
	for {
		samples, err := p.client.QueryWindow(p.window, p.bucket)
		if err != nil {
			p.logger.Error("error querying metrics backend", zap.Error(err))
			p.metrics.fetchErrorsTotal.Inc()
		} else if len(samples) > 0 {
			p.logger.Info("got initial samples", zap.Int("count", len(samples)))
			p.apply(samples[len(samples)-1])
			p.graph.Update(samples)
			return true
		}
		select {
		case <-done:
			return false
		case <-time.After(interval):
		}
	}
}

func (p *Poller) tick() {
	p.metrics.ticksTotal.Inc()

	p.mu.Lock()
	since := p.last.Timestamp
	p.mu.Unlock()

	applied := false
	samples, err := p.client.QuerySince(since, p.bucket)
	switch {
	case err != nil:
		p.logger.Error("error querying metrics backend", zap.Error(err))
		p.metrics.fetchErrorsTotal.Inc()
	case len(samples) == 0:
		p.metrics.emptyResultsTotal.Inc()
	default:
		newest := samples[len(samples)-1]
		if newest.Timestamp.After(since) {
			p.apply(newest)
			applied = true
		}
		p.graph.Update(samples)
	}

	// a tick that just drew fresh figures must not cover them with the
	// placeholder, however old the backend stamps its buckets
	lastTS, stale := p.staleness()
	if stale && !applied {
		p.numbers.UpdateNoSample()
	}
	p.metrics.lastSampleAge.Set(p.now().Sub(lastTS).Seconds())
}

func (p *Poller) apply(newest models.Sample) {
	p.numbers.Update(newest)
	if newest.Solar != nil {
		p.metrics.solarWatts.Set(newest.Solar.Mean())
	}
	if newest.Usage != nil {
		p.metrics.usageWatts.Set(newest.Usage.Mean())
	}
	// the backend timestamps samples, so a sample from the near future
	// means the local clock runs behind
	if skew := newest.Timestamp.Sub(p.now()); skew > 5*time.Second {
		p.logger.Warn("local clock runs behind sample timestamps", zap.Duration("skew", skew))
	}

	p.mu.Lock()
	p.last = newest
	p.mu.Unlock()
}

func (p *Poller) staleness() (time.Time, bool) {
	p.mu.Lock()
	last := p.last.Timestamp
	p.mu.Unlock()
	return last, p.now().Sub(last) > p.staleAfter
}

// Status reports the loop state to the HTTP status endpoint.
func (p *Poller) Status() Status {
	last, stale := p.staleness()
	return Status{LastSample: last, Stale: stale}
}
