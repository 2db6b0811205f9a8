package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Clock.Interval != 10*time.Second {
		t.Errorf("Clock.Interval = %s, want 10s", cfg.Clock.Interval)
	}
	if cfg.Weather.Interval != 5*time.Minute {
		t.Errorf("Weather.Interval = %s, want 5m", cfg.Weather.Interval)
	}
	if cfg.Weather.ForecastDays != 7 {
		t.Errorf("Weather.ForecastDays = %d, want 7", cfg.Weather.ForecastDays)
	}
	if cfg.Headlines.Interval != 10*time.Minute {
		t.Errorf("Headlines.Interval = %s, want 10m", cfg.Headlines.Interval)
	}
	if cfg.Ticker.MinLength != 1600 {
		t.Errorf("Ticker.MinLength = %d, want 1600", cfg.Ticker.MinLength)
	}
	if cfg.Promo.Interval != 12*time.Second {
		t.Errorf("Promo.Interval = %s, want 12s", cfg.Promo.Interval)
	}
	if cfg.Reload.Hour != 2 {
		t.Errorf("Reload.Hour = %d, want 2", cfg.Reload.Hour)
	}
	if len(cfg.Promo.Candidates) != 4 {
		t.Errorf("Promo.Candidates = %v", cfg.Promo.Candidates)
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
location:
  label: "DOWNTOWN"
  latitude: 43.65
  longitude: -79.38
  timezone: "America/Toronto"
ticker:
  min_length: 2600
  split_modes: true
headlines:
  feeds:
    - url: "https://example.com/sports.xml"
      category: "sports"
      fallbacks:
        - "https://proxy.example.com/sports"
promo:
  candidates: ["x.jpg"]
  day_candidates:
    Sat: ["weekend.jpg"]
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Location.Label != "DOWNTOWN" {
		t.Errorf("Location.Label = %q", cfg.Location.Label)
	}
	if cfg.Ticker.MinLength != 2600 || !cfg.Ticker.SplitModes {
		t.Errorf("Ticker = %+v", cfg.Ticker)
	}
	if len(cfg.Headlines.Feeds) != 1 {
		t.Fatalf("Feeds = %+v", cfg.Headlines.Feeds)
	}
	feed := cfg.Headlines.Feeds[0]
	if feed.Category != "sports" || len(feed.Fallbacks) != 1 {
		t.Errorf("feed = %+v", feed)
	}
	if got := cfg.Promo.DayCandidates["sat"]; len(got) != 1 || got[0] != "weekend.jpg" {
		t.Errorf("DayCandidates = %+v", cfg.Promo.DayCandidates)
	}

	// defaults still apply to unset fields
	if cfg.Clock.Interval != 10*time.Second {
		t.Errorf("Clock.Interval = %s, want default", cfg.Clock.Interval)
	}
}

func TestTimezoneLocation(t *testing.T) {
	cfg := &Config{Location: LocationConfig{Timezone: "UTC"}}
	if loc := cfg.TimezoneLocation(); loc != time.UTC {
		t.Errorf("TimezoneLocation = %v, want UTC", loc)
	}

	cfg = &Config{Location: LocationConfig{Timezone: "Not/AZone"}}
	if loc := cfg.TimezoneLocation(); loc == nil {
		t.Error("TimezoneLocation returned nil for unknown zone")
	}
}
