package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wildguard/console/internal/metrics"
)

// DefaultPollInterval is how often a mounted page refreshes.
const DefaultPollInterval = 30 * time.Second

// Snapshot is what a page shows at one moment. Until the first fetch
// completes it is Loading. After a failed refresh Data still holds the last
// good result and Err says why it is stale.
type Snapshot[T any] struct {
	Data       T         `json:"data"`
	Loaded     bool      `json:"loaded"`
	Err        error     `json:"-"`
	Generation uint64    `json:"generation"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s Snapshot[T]) Loading() bool { return !s.Loaded && s.Err == nil }

// FetchFunc loads one refresh of a page.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller refreshes a page on a fixed interval. Every fetch is stamped with a
// generation and only results newer than the last applied one are kept, so a
// slow response can never overwrite a newer one. After Stop nothing is
// applied.
type Poller[T any] struct {
	name     string
	fetch    FetchFunc[T]
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	issued  uint64
	applied uint64
	snap    Snapshot[T]
	started bool
	stopped bool
	subs    map[chan Snapshot[T]]struct{}
	cancel  context.CancelFunc
	kick    chan struct{}

	loop     sync.WaitGroup
	inflight sync.WaitGroup
}

func NewPoller[T any](name string, interval time.Duration, fetch FetchFunc[T], log zerolog.Logger) *Poller[T] {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller[T]{
		name:     name,
		fetch:    fetch,
		interval: interval,
		log:      log.With().Str("page", name).Logger(),
		now:      time.Now,
		subs:     make(map[chan Snapshot[T]]struct{}),
		kick:     make(chan struct{}, 1),
	}
}

// Start issues the first fetch immediately and then one per interval until
// ctx is cancelled or Stop is called. Calling Start twice is a no-op.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.loop.Add(1)
	go p.run(ctx)
}

func (p *Poller[T]) run(ctx context.Context) {
	defer p.loop.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		case <-p.kick:
			p.tick(ctx)
		}
	}
}

// Refresh asks for an out-of-band fetch, e.g. after a mutation.
func (p *Poller[T]) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

func (p *Poller[T]) tick(ctx context.Context) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.issued++
	gen := p.issued
	p.inflight.Add(1)
	p.mu.Unlock()

	go func() {
		defer p.inflight.Done()
		data, err := p.fetch(ctx)
		p.apply(gen, data, err)
	}()
}

func (p *Poller[T]) apply(gen uint64, data T, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || gen <= p.applied {
		metrics.PollTicksTotal.WithLabelValues(p.name, "stale").Inc()
		p.log.Debug().Uint64("generation", gen).Uint64("applied", p.applied).Msg("dropping stale poll result")
		return
	}
	p.applied = gen

	if err != nil {
		metrics.PollTicksTotal.WithLabelValues(p.name, "error").Inc()
		p.log.Warn().Err(err).Uint64("generation", gen).Msg("poll failed, keeping last data")
		p.snap.Err = err
	} else {
		metrics.PollTicksTotal.WithLabelValues(p.name, "applied").Inc()
		p.snap.Data = data
		p.snap.Loaded = true
		p.snap.Err = nil
		p.snap.UpdatedAt = p.now().UTC()
	}
	p.snap.Generation = gen

	for ch := range p.subs {
		// One slot, latest wins. Only apply sends, and it holds the lock.
		select {
		case <-ch:
		default:
		}
		ch <- p.snap
	}
}

// Snapshot returns the current view.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snap
}

// Subscribe returns a channel that always holds the most recent applied
// snapshot. The channel is closed by Stop or by the returned cancel func.
func (p *Poller[T]) Subscribe() (<-chan Snapshot[T], func()) {
	ch := make(chan Snapshot[T], 1)

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	p.subs[ch] = struct{}{}
	if p.snap.Generation > 0 {
		ch <- p.snap
	}
	p.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if _, ok := p.subs[ch]; ok {
				delete(p.subs, ch)
				close(ch)
			}
		})
	}
}

// Stop cancels the ticker and every in-flight fetch, then waits for them to
// return. Results that arrive during shutdown are discarded.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
	for ch := range p.subs {
		delete(p.subs, ch)
		close(ch)
	}
	p.mu.Unlock()

	p.loop.Wait()
	p.inflight.Wait()
}
