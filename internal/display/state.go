package display

import (
	"sync"
	"time"
)

// Snapshot is the full set of render regions the storefront screen
// shows. It is recomputed in place by the pollers; nothing here is ever
// persisted.
type Snapshot struct {
	Version uint64 `json:"version"`

	TimeText     string `json:"time_text"`
	DateText     string `json:"date_text"`
	LocationText string `json:"location_text"`

	WeatherGlyph     string    `json:"weather_glyph"`
	WeatherLabel     string    `json:"weather_label"`
	WeatherTempText  string    `json:"weather_temp_text"`
	WeatherMetaText  string    `json:"weather_meta_text"`
	WeatherAvailable bool      `json:"weather_available"`
	WeatherAt        time.Time `json:"weather_at"`

	TickerText       string    `json:"ticker_text"`
	TickerMode       string    `json:"ticker_mode"`
	TickerGeneration uint64    `json:"ticker_generation"`
	HeadlinesAt      time.Time `json:"headlines_at"`

	PromoURL   string    `json:"promo_url"`
	PromoIndex int       `json:"promo_index"`
	PromoCount int       `json:"promo_count"`
	PromoAt    time.Time `json:"promo_at"`

	ReloadedAt time.Time `json:"reloaded_at"`
	StartedAt  time.Time `json:"started_at"`
}

// State owns the snapshot. Each poller writes only its own regions, so
// writers never contend over the same fields; the mutex makes the
// snapshot itself consistent for readers.
type State struct {
	mu      sync.RWMutex
	snap    Snapshot
	nextSub int
	subs    map[int]chan Snapshot
}

func NewState(locationLabel string) *State {
	return &State{
		snap: Snapshot{
			LocationText: locationLabel,
			StartedAt:    time.Now(),
		},
		subs: make(map[int]chan Snapshot),
	}
}

// Snapshot returns a copy of the current display state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers a push consumer. The channel holds one pending
// snapshot; slow consumers skip intermediate versions instead of
// blocking the pollers.
func (s *State) Subscribe() (int, <-chan Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch
	return id, ch
}

func (s *State) Unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

// mutate applies fn under the lock, bumps the version and fans the new
// snapshot out to subscribers. The sends are non-blocking and stay
// under the lock, so a concurrent Unsubscribe can never close a channel
// between the map read and the send.
func (s *State) mutate(fn func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.snap)
	s.snap.Version++

	for _, ch := range s.subs {
		select {
		case ch <- s.snap:
		default:
			// drop; subscriber will catch up on its next receive
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s.snap:
			default:
			}
		}
	}
}

func (s *State) SetClock(timeText, dateText string) {
	s.mutate(func(snap *Snapshot) {
		snap.TimeText = timeText
		snap.DateText = dateText
	})
}

func (s *State) SetWeather(glyph, label, tempText, metaText string) {
	s.mutate(func(snap *Snapshot) {
		snap.WeatherGlyph = glyph
		snap.WeatherLabel = label
		snap.WeatherTempText = tempText
		snap.WeatherMetaText = metaText
		snap.WeatherAvailable = true
		snap.WeatherAt = time.Now()
	})
}

// SetWeatherUnavailable marks the current-conditions block stale. The
// previous glyph and temperature stay on screen; only the meta line
// switches to the placeholder.
func (s *State) SetWeatherUnavailable() {
	s.mutate(func(snap *Snapshot) {
		snap.WeatherAvailable = false
		snap.WeatherMetaText = "UNAVAILABLE"
	})
}

func (s *State) SetTicker(text, mode string, generation uint64) {
	s.mutate(func(snap *Snapshot) {
		snap.TickerText = text
		snap.TickerMode = mode
		snap.TickerGeneration = generation
	})
}

func (s *State) SetHeadlinesAt(t time.Time) {
	s.mutate(func(snap *Snapshot) {
		snap.HeadlinesAt = t
	})
}

func (s *State) SetPromo(url string, index, count int) {
	s.mutate(func(snap *Snapshot) {
		snap.PromoURL = url
		snap.PromoIndex = index
		snap.PromoCount = count
		snap.PromoAt = time.Now()
	})
}

func (s *State) SetReloadedAt(t time.Time) {
	s.mutate(func(snap *Snapshot) {
		snap.ReloadedAt = t
	})
}
