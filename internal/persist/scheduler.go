// Package persist converts bursty in-memory mutation into a small number of
// debounced, coalesced export+write cycles. Mutation sites mark storage
// domains dirty; the scheduler eventually exports the dirty domains once and
// writes each payload to its sink.
package persist

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"rhizome/indexer/internal/metrics"
)

// DefaultIdleTimeout is the debounce window for FlushWhenIdle.
const DefaultIdleTimeout = 5 * time.Second

// Exporter produces the payload for each requested domain. It is invoked
// exactly once per flush cycle.
type Exporter func(domains []string) (map[string][]byte, error)

// Sink receives one domain's exported payload.
type Sink interface {
	Write(payload []byte) error
}

// flushRun is the shared result of one in-flight flush. Every caller that
// joins while it runs receives the same error once it resolves.
type flushRun struct {
	done chan struct{}
	err  error
}

// Scheduler tracks dirty storage domains and owns the single in-flight flush.
type Scheduler struct {
	exporter Exporter
	sinks    map[string]Sink
	idle     Runner
	logger   *slog.Logger

	mu       sync.Mutex
	dirty    map[string]struct{}
	current  *flushRun
	rerun    bool
	timer    *time.Timer
	disposed bool
}

// NewScheduler wires an exporter, per-domain sinks and an idle runner. A nil
// runner falls back to the immediate-next-turn implementation.
func NewScheduler(exporter Exporter, sinks map[string]Sink, idle Runner, logger *slog.Logger) *Scheduler {
	if idle == nil {
		idle = ImmediateRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		exporter: exporter,
		sinks:    sinks,
		idle:     idle,
		logger:   logger,
		dirty:    make(map[string]struct{}),
	}
}

// Schedule marks domains dirty. It never triggers I/O by itself.
func (s *Scheduler) Schedule(domains ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range domains {
		s.dirty[d] = struct{}{}
	}
}

// FlushWhenIdle (re)arms the debounce timer; repeated calls reset the
// deadline rather than stacking timers. On expiry the flush is handed to the
// idle runner so the export never competes with active foreground work. A
// non-positive timeout selects DefaultIdleTimeout.
func (s *Scheduler) FlushWhenIdle(timeout time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if timeout <= 0 {
		timeout = DefaultIdleTimeout
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(timeout, func() {
		s.idle.RunWhenIdle(func() {
			if err := s.Flush(); err != nil {
				s.logger.Error("idle flush failed", "error", err)
			}
		})
	})
}

// Flush exports and writes all dirty domains. If a flush is already running
// it sets the rerun flag and returns that flush's result instead of starting
// a second export; at most one flush is ever in flight. Mutations arriving
// during a flush are picked up by the automatic rerun, so nothing scheduled
// is silently dropped.
func (s *Scheduler) Flush() error {
	s.mu.Lock()
	if s.current != nil {
		s.rerun = true
		run := s.current
		s.mu.Unlock()
		<-run.done
		return run.err
	}
	run := &flushRun{done: make(chan struct{})}
	s.current = run
	s.mu.Unlock()

	err := s.drain()

	s.mu.Lock()
	run.err = err
	s.current = nil
	s.mu.Unlock()
	close(run.done)
	return err
}

// drain runs flush cycles until no rerun was requested mid-cycle.
func (s *Scheduler) drain() error {
	for {
		s.mu.Lock()
		s.rerun = false
		captured := s.dirty
		s.dirty = make(map[string]struct{})
		s.mu.Unlock()

		if len(captured) > 0 {
			if err := s.flushDomains(captured); err != nil {
				// Keep the failed domains dirty so the next cycle retries
				// them. At-least-once: duplicate writes beat silent loss.
				s.mu.Lock()
				for d := range captured {
					s.dirty[d] = struct{}{}
				}
				s.mu.Unlock()
				metrics.FlushesTotal.WithLabelValues("error").Inc()
				return err
			}
			metrics.FlushesTotal.WithLabelValues("ok").Inc()
		}

		s.mu.Lock()
		again := s.rerun
		s.mu.Unlock()
		if !again {
			return nil
		}
	}
}

// flushDomains exports the captured domains once and writes each payload to
// its sink in parallel.
func (s *Scheduler) flushDomains(captured map[string]struct{}) error {
	started := time.Now()
	runID := uuid.NewString()

	domains := make([]string, 0, len(captured))
	for d := range captured {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	payloads, err := s.exporter(domains)
	if err != nil {
		return fmt.Errorf("exporting domains %v: %w", domains, err)
	}

	var g errgroup.Group
	for _, domain := range domains {
		payload, ok := payloads[domain]
		if !ok {
			return fmt.Errorf("exporter returned no payload for domain %q", domain)
		}
		sink, ok := s.sinks[domain]
		if !ok {
			return fmt.Errorf("no sink configured for domain %q", domain)
		}
		g.Go(func() error {
			if err := sink.Write(payload); err != nil {
				return fmt.Errorf("writing domain %q: %w", domain, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	metrics.FlushDuration.Observe(time.Since(started).Seconds())
	s.logger.Debug("flushed domains", "run_id", runID, "domains", domains, "took", time.Since(started))
	return nil
}

// Dispose cancels the pending idle timer. It does not cancel or await an
// in-flight flush; callers needing a guaranteed final write must call Flush
// and wait for it before disposing.
func (s *Scheduler) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
