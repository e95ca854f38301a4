package workspace

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Janitor periodically evicts drafts that have been idle longer than ttl.
type Janitor struct {
	store    *Store
	ttl      time.Duration
	interval time.Duration
	log      *zerolog.Logger

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

func NewJanitor(store *Store, ttl, interval time.Duration, log *zerolog.Logger) *Janitor {
	return &Janitor{
		store:    store,
		ttl:      ttl,
		interval: interval,
		log:      log,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (j *Janitor) Start() {
	if !j.started.CompareAndSwap(false, true) {
		return
	}
	j.log.Info().
		Dur("ttl", j.ttl).
		Dur("interval", j.interval).
		Msg("draft janitor started")

	go func() {
		defer close(j.stopped)
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.sweep()
			case <-j.done:
				j.log.Info().Msg("draft janitor stopped")
				return
			}
		}
	}()
}

// Stop blocks until the sweeping goroutine has returned. It is safe to call
// more than once, and before Start.
func (j *Janitor) Stop() {
	j.stopOnce.Do(func() {
		close(j.done)
		if j.started.Load() {
			<-j.stopped
		}
	})
}

func (j *Janitor) sweep() {
	if n := j.store.EvictIdle(j.ttl); n > 0 {
		j.log.Info().
			Int("evicted", n).
			Int("remaining", j.store.Len()).
			Msg("idle drafts evicted")
	}
}
