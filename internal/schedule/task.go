package schedule

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// Task is a named recurring job. It runs once immediately on Start and
// then on every tick of its interval. A tick that arrives while the
// previous run is still in flight is skipped, so two runs of the same
// task never overlap.
type Task struct {
	Name     string
	Interval time.Duration
	// Jitter is a fraction (0..1) of Interval added randomly to each
	// tick delay to avoid synchronized fetch bursts.
	Jitter float64
	// SkipInitial suppresses the immediate first run, so the first
	// execution happens one full interval after Start.
	SkipInitial bool
	Run         func(ctx context.Context)

	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool
	mu      sync.Mutex
}

// Start launches the task loop. It returns immediately; the loop runs
// until the context is cancelled or Stop is called.
func (t *Task) Start(ctx context.Context) {
	t.mu.Lock()
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	t.mu.Unlock()

	go t.loop(ctx)
}

func (t *Task) loop(ctx context.Context) {
	defer close(t.done)

	log.Printf("Starting %s task with interval %s", t.Name, t.Interval)

	if !t.SkipInitial {
		t.tick(ctx)
	}

	timer := time.NewTimer(t.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("%s task stopped", t.Name)
			return
		case <-timer.C:
			t.tick(ctx)
			timer.Reset(t.nextDelay())
		}
	}
}

func (t *Task) tick(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		log.Printf("%s task still running, skipping tick", t.Name)
		return
	}
	defer t.running.Store(false)
	t.Run(ctx)
}

func (t *Task) nextDelay() time.Duration {
	d := t.Interval
	if t.Jitter > 0 {
		d += time.Duration(rand.Float64() * t.Jitter * float64(t.Interval))
	}
	return d
}

// Stop cancels the task loop and waits for it to exit.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// After runs fn once after delay, unless the context is cancelled first.
func After(ctx context.Context, delay time.Duration, fn func()) {
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
		case <-timer.C:
			fn()
		}
	}()
}

// UntilNextHour returns the delay from now until the next occurrence of
// the given local hour. If today's occurrence has already passed, the
// target is tomorrow.
func UntilNextHour(now time.Time, hour int) time.Duration {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now)
}

// UntilMidnight returns the delay from now until the next local midnight.
func UntilMidnight(now time.Time) time.Duration {
	return UntilNextHour(now, 24)
}
