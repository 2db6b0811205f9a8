package display

import (
	"testing"
	"time"
)

func TestVersionIncrementsPerMutation(t *testing.T) {
	s := NewState("TEST")

	if v := s.Snapshot().Version; v != 0 {
		t.Fatalf("initial version = %d, want 0", v)
	}

	s.SetClock("12:00", "SATURDAY, JUN 1")
	s.SetTicker("text", "all", 0)
	s.SetPromo("promo1.jpg", 0, 2)

	if v := s.Snapshot().Version; v != 3 {
		t.Errorf("version = %d, want 3 after three mutations", v)
	}
}

func TestWritersOwnDisjointRegions(t *testing.T) {
	s := NewState("TEST")

	s.SetWeather("⛅", "PARTLY CLOUDY", "21°C", "FEELS 19°")
	s.SetClock("12:00", "SATURDAY, JUN 1")

	snap := s.Snapshot()
	if snap.WeatherTempText != "21°C" {
		t.Errorf("clock write clobbered weather: %+v", snap.WeatherTempText)
	}
	if snap.TimeText != "12:00" {
		t.Errorf("TimeText = %q", snap.TimeText)
	}
	if !snap.WeatherAvailable {
		t.Error("WeatherAvailable = false after SetWeather")
	}
}

func TestSetWeatherUnavailableKeepsLastGood(t *testing.T) {
	s := NewState("TEST")
	s.SetWeather("⛅", "PARTLY CLOUDY", "21°C", "FEELS 19°")
	s.SetWeatherUnavailable()

	snap := s.Snapshot()
	if snap.WeatherAvailable {
		t.Error("WeatherAvailable = true after failure")
	}
	if snap.WeatherTempText != "21°C" || snap.WeatherGlyph != "⛅" {
		t.Errorf("last-good conditions lost: %q %q", snap.WeatherGlyph, snap.WeatherTempText)
	}
	if snap.WeatherMetaText != "UNAVAILABLE" {
		t.Errorf("WeatherMetaText = %q, want UNAVAILABLE", snap.WeatherMetaText)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	s := NewState("TEST")
	id, updates := s.Subscribe()
	defer s.Unsubscribe(id)

	s.SetTicker("hello", "all", 0)

	select {
	case snap := <-updates:
		if snap.TickerText != "hello" {
			t.Errorf("TickerText = %q", snap.TickerText)
		}
		if snap.Version != 1 {
			t.Errorf("Version = %d, want 1", snap.Version)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered to subscriber")
	}
}

func TestSlowSubscriberGetsLatest(t *testing.T) {
	s := NewState("TEST")
	id, updates := s.Subscribe()
	defer s.Unsubscribe(id)

	// subscriber never reads between these; the pending snapshot is
	// replaced, not queued
	s.SetTicker("first", "all", 0)
	s.SetTicker("second", "all", 0)

	select {
	case snap := <-updates:
		if snap.TickerText != "second" {
			t.Errorf("TickerText = %q, want latest", snap.TickerText)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestUnsubscribeDuringMutations(t *testing.T) {
	s := NewState("TEST")

	// subscribers churn while a writer mutates; a send must never land
	// on a closed channel
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			id, updates := s.Subscribe()
			select {
			case <-updates:
			default:
			}
			s.Unsubscribe(id)
		}
	}()

	for i := 0; i < 500; i++ {
		s.SetClock("12:00", "SATURDAY, JUN 1")
	}
	<-done
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	s := NewState("TEST")
	id, updates := s.Subscribe()
	s.Unsubscribe(id)

	if _, ok := <-updates; ok {
		t.Error("channel still open after Unsubscribe")
	}

	// double unsubscribe is a no-op
	s.Unsubscribe(id)
}
