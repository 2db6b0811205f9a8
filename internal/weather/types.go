package weather

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const bullet = "   •   "

// Placeholder is written to the ticker when no forecast is available.
const Placeholder = "WEATHER: UNAVAILABLE"

// Condition is the icon/label pair shown for a WMO weather code.
type Condition struct {
	Glyph string `json:"glyph"`
	Label string `json:"label"`
}

// Day is one entry of the daily forecast.
type Day struct {
	Label    string  `json:"label"`
	HighC    float64 `json:"high_c"`
	LowC     float64 `json:"low_c"`
	PrecipMm float64 `json:"precip_mm"`
	Glyph    string  `json:"glyph"`
}

// Reading is one fetch cycle's worth of weather data. It is replaced
// wholesale on every successful fetch; nothing is accumulated.
type Reading struct {
	CurrentTempC  float64   `json:"current_temp_c"`
	FeelsLikeC    float64   `json:"feels_like_c"`
	HumidityPct   float64   `json:"humidity_pct"`
	WindKmh       float64   `json:"wind_kmh"`
	ConditionCode int       `json:"condition_code"`
	Condition     Condition `json:"condition"`
	Days          []Day     `json:"days"`
	FetchedAt     time.Time `json:"fetched_at"`
}

// ConditionFromCode maps a WMO weather code to its display pair. The
// groupings follow the WMO code table: exact matches for clear and
// overcast, small ranges for everything else, and a generic fallback
// for codes outside every range.
func ConditionFromCode(code int) Condition {
	switch {
	case code == 0:
		return Condition{"☀️", "CLEAR"}
	case code == 1 || code == 2:
		return Condition{"⛅", "PARTLY CLOUDY"}
	case code == 3:
		return Condition{"☁️", "OVERCAST"}
	case code == 45 || code == 48:
		return Condition{"🌫️", "FOG"}
	case code >= 51 && code <= 57:
		return Condition{"🌦️", "DRIZZLE"}
	case code >= 61 && code <= 67:
		return Condition{"🌧️", "RAIN"}
	case code >= 71 && code <= 77:
		return Condition{"❄️", "SNOW"}
	case code >= 80 && code <= 82:
		return Condition{"🌧️", "SHOWERS"}
	case code == 85 || code == 86:
		return Condition{"🌨️", "SNOW SHOWERS"}
	case code >= 95 && code <= 99:
		return Condition{"⛈️", "THUNDERSTORM"}
	default:
		return Condition{"🌡️", "WEATHER"}
	}
}

// DailyGlyph derives a per-day forecast icon from precipitation and the
// day's high: freezing precipitation wins, then heavy rain at 5mm and
// up, then light rain, otherwise clear.
func DailyGlyph(precipMm, highC float64) string {
	switch {
	case precipMm > 0 && highC <= 0:
		return "❄️"
	case precipMm >= 5:
		return "🌧️"
	case precipMm > 0:
		return "🌦️"
	default:
		return "☀️"
	}
}

// TempText formats the current temperature for the display, rounded to
// the nearest whole degree.
func (r *Reading) TempText() string {
	return fmt.Sprintf("%d°C", int(math.Round(r.CurrentTempC)))
}

// MetaText is the secondary current-conditions line.
func (r *Reading) MetaText() string {
	return fmt.Sprintf("FEELS %d°  HUM %d%%  WIND %d KM/H",
		int(math.Round(r.FeelsLikeC)),
		int(math.Round(r.HumidityPct)),
		int(math.Round(r.WindKmh)))
}

// TickerLine renders the daily forecast as a single labelled line:
// "WEATHER: SAT 06/01 ☀️ 25°/14°   •   SUN 06/02 ...".
func (r *Reading) TickerLine() string {
	if len(r.Days) == 0 {
		return Placeholder
	}
	entries := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		entries = append(entries, fmt.Sprintf("%s %s %d°/%d°",
			d.Label, d.Glyph, int(math.Round(d.HighC)), int(math.Round(d.LowC))))
	}
	return "WEATHER: " + strings.Join(entries, bullet)
}

// DayLabel formats a forecast date as the upper-case weekday
// abbreviation plus month/day, e.g. "SAT 06/01".
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s %02d/%02d", strings.ToUpper(t.Format("Mon")), int(t.Month()), t.Day())
}
