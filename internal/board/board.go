package board

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/petroplus2966/petroplus-menu-board/config"
	"github.com/petroplus2966/petroplus-menu-board/internal/display"
	"github.com/petroplus2966/petroplus-menu-board/internal/headlines"
	"github.com/petroplus2966/petroplus-menu-board/internal/promo"
	"github.com/petroplus2966/petroplus-menu-board/internal/schedule"
	"github.com/petroplus2966/petroplus-menu-board/internal/ticker"
	"github.com/petroplus2966/petroplus-menu-board/internal/weather"
)

// Board wires the pollers together: each component refreshes on its own
// cadence and writes its own display regions, and the ticker is
// recomposed from the cached weather/headline lines whenever either
// side changes. Components never call each other beyond that.
type Board struct {
	cfg     *config.Config
	loc     *time.Location
	state   *display.State
	weather *weather.Client
	fetcher *headlines.Fetcher
	promo   *promo.Scheduler
	rotator *ticker.Rotator

	mu           sync.Mutex
	weatherLine  string
	headlineLine string
	sportsLine   string

	tasks []*schedule.Task
}

func New(cfg *config.Config, state *display.State) *Board {
	loc := cfg.TimezoneLocation()

	feeds := make([]headlines.Feed, 0, len(cfg.Headlines.Feeds))
	for _, f := range cfg.Headlines.Feeds {
		feeds = append(feeds, headlines.Feed{
			Category:  f.Category,
			URL:       f.URL,
			Fallbacks: f.Fallbacks,
		})
	}

	hold := cfg.Ticker.ModeHold
	if cfg.Ticker.ScrollDuration > hold {
		hold = cfg.Ticker.ScrollDuration
	}

	b := &Board{
		cfg:          cfg,
		loc:          loc,
		state:        state,
		weather:      weather.NewClient(cfg.Location.Latitude, cfg.Location.Longitude, cfg.Location.Timezone, cfg.Weather.ForecastDays, loc),
		fetcher:      headlines.NewFetcher(feeds, cfg.Headlines.MaxItems),
		rotator:      ticker.NewRotator(hold),
		weatherLine:  weather.Placeholder,
		headlineLine: "",
	}

	b.promo = promo.NewScheduler(promo.SchedulerConfig{
		Prober:        promo.NewProber(cfg.Promo.BaseURL, cfg.Promo.ProbeRPS, cfg.Promo.ProbeBurst),
		State:         state,
		Location:      loc,
		Interval:      cfg.Promo.Interval,
		Candidates:    cfg.Promo.Candidates,
		DayCandidates: cfg.Promo.DayCandidates,
	})

	return b
}

// Start launches every enabled component and arms the daily refresh.
func (b *Board) Start(ctx context.Context) {
	b.tasks = append(b.tasks, &schedule.Task{
		Name:     "clock",
		Interval: b.cfg.Clock.Interval,
		Run:      b.tickClock,
	})

	if b.cfg.Weather.Enabled {
		b.tasks = append(b.tasks, &schedule.Task{
			Name:     "weather",
			Interval: b.cfg.Weather.Interval,
			Jitter:   0.05,
			Run:      b.refreshWeather,
		})
	}

	if b.cfg.Headlines.Enabled && len(b.cfg.Headlines.Feeds) > 0 {
		b.tasks = append(b.tasks, &schedule.Task{
			Name:     "headlines",
			Interval: b.cfg.Headlines.Interval,
			Jitter:   0.05,
			Run:      b.refreshHeadlines,
		})
	}

	if b.cfg.Ticker.SplitModes {
		b.tasks = append(b.tasks, &schedule.Task{
			Name:        "ticker-mode",
			Interval:    b.cfg.Ticker.ModeHold,
			SkipInitial: true,
			Run:         b.switchMode,
		})
	}

	for _, t := range b.tasks {
		t.Start(ctx)
	}

	if b.cfg.Promo.Enabled {
		b.promo.Start(ctx)
	}

	b.armDailyReload(ctx)
}

// Stop cancels every task. Components finish their in-flight cycle.
func (b *Board) Stop() {
	for _, t := range b.tasks {
		t.Stop()
	}
	b.promo.Stop()
}

func (b *Board) tickClock(ctx context.Context) {
	now := time.Now().In(b.loc)
	timeText := now.Format("15:04")
	dateText := strings.ToUpper(now.Format("Monday, Jan 2"))
	b.state.SetClock(timeText, dateText)
}

func (b *Board) refreshWeather(ctx context.Context) {
	reading, err := b.weather.Fetch(ctx)
	if err != nil {
		log.Printf("Weather refresh failed: %v", err)
		b.mu.Lock()
		b.weatherLine = weather.Placeholder
		b.mu.Unlock()
		b.state.SetWeatherUnavailable()
		b.recompose()
		return
	}

	b.state.SetWeather(reading.Condition.Glyph, reading.Condition.Label, reading.TempText(), reading.MetaText())

	b.mu.Lock()
	b.weatherLine = reading.TickerLine()
	b.mu.Unlock()

	b.rotator.MarkLoaded(ticker.ModeWeather)
	b.recompose()
}

func (b *Board) refreshHeadlines(ctx context.Context) {
	sets := b.fetcher.FetchAll(ctx)

	sportsLine := ""
	loadedSports := false
	for _, s := range sets {
		if s.Category == "SPORTS" {
			sportsLine = headlines.Line(s)
			loadedSports = len(s.Titles) > 0
		}
	}

	b.mu.Lock()
	b.headlineLine = headlines.Lines(sets)
	b.sportsLine = sportsLine
	b.mu.Unlock()

	if loadedSports {
		b.rotator.MarkLoaded(ticker.ModeSports)
	}
	b.state.SetHeadlinesAt(time.Now())
	b.recompose()
}

func (b *Board) switchMode(ctx context.Context) {
	b.rotator.Advance(time.Now())
	b.recompose()
}

// recompose rebuilds the ticker text from the latest cached lines. In
// split mode only the active source is shown; otherwise everything is
// concatenated into one long line.
func (b *Board) recompose() {
	b.mu.Lock()
	weatherLine := b.weatherLine
	headlineLine := b.headlineLine
	sportsLine := b.sportsLine
	b.mu.Unlock()

	if b.cfg.Ticker.SplitModes {
		mode := b.rotator.Current()
		line := weatherLine
		if mode == ticker.ModeSports {
			line = sportsLine
		}
		text := ticker.Compose([]string{line}, b.cfg.Ticker.MinLength)
		b.state.SetTicker(text, string(mode), b.rotator.Generation())
		return
	}

	text := ticker.Compose([]string{weatherLine, headlineLine}, b.cfg.Ticker.MinLength)
	b.state.SetTicker(text, "all", b.rotator.Generation())
}

// armDailyReload schedules the in-process equivalent of the nightly
// page reload: at the configured hour every component refreshes from
// scratch and rotation restarts.
func (b *Board) armDailyReload(ctx context.Context) {
	now := time.Now().In(b.loc)
	delay := schedule.UntilNextHour(now, b.cfg.Reload.Hour)
	log.Printf("Daily reload armed for %s from now", delay.Round(time.Second))

	schedule.After(ctx, delay, func() {
		log.Printf("Daily reload: refreshing all components")
		b.rotator.Reset(time.Now())
		b.refreshWeather(ctx)
		b.refreshHeadlines(ctx)
		b.promo.Rebuild(ctx)
		b.state.SetReloadedAt(time.Now())
		b.armDailyReload(ctx)
	})
}

// Promo exposes the promo scheduler for the API and CLI.
func (b *Board) Promo() *promo.Scheduler {
	return b.promo
}
