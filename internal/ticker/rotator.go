package ticker

import (
	"sync"
	"time"
)

// Mode selects which source the split-mode ticker is showing.
type Mode string

const (
	ModeWeather Mode = "weather"
	ModeSports  Mode = "sports"
)

// minHold is the floor for the per-mode hold time; a mode is always
// shown for at least one full scroll cycle.
const minHold = 10 * time.Second

// Rotator alternates the ticker between weather and sports. Switching
// is gated two ways: a mode that has never successfully loaded is never
// selected, and the current mode is held for at least one scroll-cycle
// duration. Every actual switch bumps the generation counter so the
// display restarts its scroll animation from the leading edge.
type Rotator struct {
	mu         sync.Mutex
	current    Mode
	loaded     map[Mode]bool
	hold       time.Duration
	lastSwitch time.Time
	generation uint64
}

func NewRotator(hold time.Duration) *Rotator {
	if hold < minHold {
		hold = minHold
	}
	return &Rotator{
		current: ModeWeather,
		loaded:  make(map[Mode]bool),
		hold:    hold,
	}
}

// MarkLoaded records that a source has produced content at least once,
// making it eligible for rotation.
func (r *Rotator) MarkLoaded(m Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded[m] = true
}

// Advance switches to the other mode if the hold time has elapsed and
// the other mode has ever loaded. It returns the mode to show now and
// the current generation.
func (r *Rotator) Advance(now time.Time) (Mode, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lastSwitch.IsZero() {
		r.lastSwitch = now
		return r.current, r.generation
	}
	if now.Sub(r.lastSwitch) < r.hold {
		return r.current, r.generation
	}

	next := ModeSports
	if r.current == ModeSports {
		next = ModeWeather
	}
	if !r.loaded[next] {
		return r.current, r.generation
	}

	r.current = next
	r.lastSwitch = now
	r.generation++
	return r.current, r.generation
}

// Reset returns rotation to the weather mode and restarts the hold
// window, as on startup. The generation bumps if the visible mode
// actually changes.
func (r *Rotator) Reset(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != ModeWeather {
		r.generation++
	}
	r.current = ModeWeather
	r.lastSwitch = now
}

// Current returns the active mode without advancing.
func (r *Rotator) Current() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Generation returns the current scroll restart counter.
func (r *Rotator) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}
