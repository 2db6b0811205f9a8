package promo

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/petroplus2966/petroplus-menu-board/internal/display"
	"github.com/petroplus2966/petroplus-menu-board/internal/schedule"
)

// Scheduler owns the promo playlist and its rotation. The playlist is
// rebuilt at startup and at local midnight so weekday-specific
// candidates rotate in; a rebuild always cancels the previous rotation
// before starting the next one.
type Scheduler struct {
	prober        *Prober
	state         *display.State
	loc           *time.Location
	interval      time.Duration
	candidates    []string
	dayCandidates map[string][]string

	// cacheBust is fixed for the process lifetime so repeated preloads
	// of the same entry hit the cache.
	cacheBust string

	// rebuildMu serializes Rebuild so two rebuilds can never both
	// observe no prior rotation and each arm one.
	rebuildMu sync.Mutex

	mu       sync.Mutex
	playlist []string
	index    int
	rotation *schedule.Task
}

type SchedulerConfig struct {
	Prober        *Prober
	State         *display.State
	Location      *time.Location
	Interval      time.Duration
	Candidates    []string
	DayCandidates map[string][]string
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 12 * time.Second
	}
	return &Scheduler{
		prober:        cfg.Prober,
		state:         cfg.State,
		loc:           loc,
		interval:      interval,
		candidates:    cfg.Candidates,
		dayCandidates: cfg.DayCandidates,
		cacheBust:     fmt.Sprintf("v=%d", time.Now().Unix()),
	}
}

// Start builds the initial playlist, begins rotation and arms the
// nightly rebuild.
func (s *Scheduler) Start(ctx context.Context) {
	s.Rebuild(ctx)
	s.armMidnightRebuild(ctx)
}

func (s *Scheduler) armMidnightRebuild(ctx context.Context) {
	now := time.Now().In(s.loc)
	schedule.After(ctx, schedule.UntilMidnight(now), func() {
		log.Printf("Midnight promo playlist rebuild")
		s.Rebuild(ctx)
		s.armMidnightRebuild(ctx)
	})
}

// CandidatesFor merges the static candidate list with the extras for
// the given day's three-letter weekday abbreviation.
func (s *Scheduler) CandidatesFor(now time.Time) []string {
	merged := append([]string(nil), s.candidates...)
	day := strings.ToUpper(now.In(s.loc).Format("Mon"))
	for key, extras := range s.dayCandidates {
		if strings.ToUpper(key) == day {
			merged = append(merged, extras...)
		}
	}
	return merged
}

// Rebuild probes the current candidates, replaces the playlist and
// restarts rotation from the first entry. With no reachable candidate
// the component goes inactive without touching the display; with one it
// shows that image statically; with two or more it rotates.
func (s *Scheduler) Rebuild(ctx context.Context) {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	playlist := s.prober.Probe(ctx, s.CandidatesFor(time.Now()))

	s.mu.Lock()
	rotation := s.rotation
	s.rotation = nil
	s.mu.Unlock()

	// stop outside the lock: the rotation loop may be inside advance,
	// which needs the lock to finish
	if rotation != nil {
		rotation.Stop()
	}

	s.mu.Lock()
	s.playlist = playlist
	s.index = 0
	s.mu.Unlock()

	switch len(playlist) {
	case 0:
		log.Printf("No reachable promo images, promo stays inactive")
		return
	case 1:
		s.state.SetPromo(s.publishURL(playlist[0]), 0, 1)
		return
	}

	s.state.SetPromo(s.publishURL(playlist[0]), 0, len(playlist))

	rotation = &schedule.Task{
		Name:        "promo-rotate",
		Interval:    s.interval,
		SkipInitial: true,
		Run:         s.advance,
	}

	s.mu.Lock()
	s.rotation = rotation
	s.mu.Unlock()

	rotation.Start(ctx)
}

// advance preloads the next entry and only then publishes the swap, so
// the crossfade never lands on a blank or half-loaded frame. A failed
// preload keeps the current image; the next tick tries again.
func (s *Scheduler) advance(ctx context.Context) {
	s.mu.Lock()
	if len(s.playlist) < 2 {
		s.mu.Unlock()
		return
	}
	next := (s.index + 1) % len(s.playlist)
	url := s.publishURL(s.playlist[next])
	count := len(s.playlist)
	s.mu.Unlock()

	if err := s.prober.Preload(ctx, url); err != nil {
		log.Printf("Promo preload failed, holding current image: %v", err)
		return
	}

	s.mu.Lock()
	s.index = next
	s.mu.Unlock()

	s.state.SetPromo(url, next, count)
}

func (s *Scheduler) publishURL(candidate string) string {
	url := s.prober.Resolve(candidate)
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + s.cacheBust
}

// Playlist returns a copy of the current playlist.
func (s *Scheduler) Playlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.playlist...)
}

// Stop cancels the active rotation, if any.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	rotation := s.rotation
	s.rotation = nil
	s.mu.Unlock()

	if rotation != nil {
		rotation.Stop()
	}
}
