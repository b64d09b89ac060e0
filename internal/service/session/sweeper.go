package session

import (
	"context"
	"sync"
	"time"

	"voice-tutor-service/internal/observability/logging"
)

const (
	// DefaultTTL is the inactivity threshold after which an abandoned
	// call is considered implicitly terminated.
	DefaultTTL = 30 * time.Minute

	// DefaultSweepInterval is how often the sweeper runs.
	DefaultSweepInterval = time.Minute
)

// Sweeper periodically evicts terminal and abandoned sessions. A call
// that simply hangs up produces no further webhooks, so the sweep is
// the only place such sessions are released.
type Sweeper struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewSweeper creates a sweeper for the store.
func NewSweeper(store *Store, ttl, interval time.Duration) *Sweeper {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{store: store, ttl: ttl, interval: interval}
}

// Start begins the periodic sweep.
func (sw *Sweeper) Start(ctx context.Context) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.running {
		return
	}

	sweepCtx, cancel := context.WithCancel(ctx)
	sw.cancel = cancel
	sw.done = make(chan struct{})
	sw.running = true

	go sw.run(sweepCtx)
}

// Stop halts the sweep and waits for the goroutine to exit.
func (sw *Sweeper) Stop() {
	sw.mu.Lock()
	if !sw.running {
		sw.mu.Unlock()
		return
	}
	cancel, done := sw.cancel, sw.done
	sw.running = false
	sw.mu.Unlock()

	cancel()
	<-done
}

func (sw *Sweeper) run(ctx context.Context) {
	defer close(sw.done)

	logger := logging.WithComponent("session-sweeper")
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sw.store.sweep(sw.ttl); n > 0 {
				logger.Info().Int("evicted", n).Msg("Swept inactive call sessions")
			}
		}
	}
}
