package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"unmasked_server/metrics"
	"unmasked_server/models"
)

// Poller re-reads a message list on a fixed interval. Polls may overlap; each
// completed poll fully replaces the list, so the latest completion wins.
// After Stop no result is applied, including polls still in flight.
type Poller struct {
	interval time.Duration
	fetch    func(context.Context) ([]models.Message, error)
	apply    func([]models.Message)
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	gen     uint64
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPoller(interval time.Duration, fetch func(context.Context) ([]models.Message, error), apply func([]models.Message), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{interval: interval, fetch: fetch, apply: apply, logger: logger}
}

// Start polls once immediately and then on every tick until Stop or ctx ends.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.running = true
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.done = make(chan struct{})
	done := p.done
	p.mu.Unlock()

	go p.loop(ctx, gen, done)
}

func (p *Poller) loop(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	go p.poll(ctx, gen)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.poll(ctx, gen)
		}
	}
}

func (p *Poller) poll(ctx context.Context, gen uint64) {
	messages, err := p.fetch(ctx)
	metrics.Polls.WithLabelValues(metrics.Result(err)).Inc()
	if err != nil {
		p.logger.Debug("poll failed", "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running || gen != p.gen {
		return
	}
	p.apply(messages)
}

// Stop ends polling. Results arriving afterwards are discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.gen++
	p.cancel()
	done := p.done
	p.mu.Unlock()

	<-done
}

// Running reports whether the poller is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
