package persist

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Runner hands a function to a background scheduling primitive. The choice of
// implementation is made once at wiring time.
type Runner interface {
	RunWhenIdle(fn func())
}

// ImmediateRunner runs the function on a fresh goroutine right away. It is
// the fallback when no idle budget is configured.
type ImmediateRunner struct{}

// RunWhenIdle implements Runner.
func (ImmediateRunner) RunWhenIdle(fn func()) {
	go fn()
}

// ThrottledRunner spaces background work out with a rate limiter so heavy
// exports never pile up against foreground bursts.
type ThrottledRunner struct {
	lim *rate.Limiter
}

// NewThrottledRunner allows one background run per interval, with a burst
// of one.
func NewThrottledRunner(interval time.Duration) *ThrottledRunner {
	return &ThrottledRunner{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// RunWhenIdle implements Runner: the function runs once the limiter grants a
// slot.
func (r *ThrottledRunner) RunWhenIdle(fn func()) {
	go func() {
		if err := r.lim.Wait(context.Background()); err != nil {
			return
		}
		fn()
	}()
}
