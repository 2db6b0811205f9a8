package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnavailable marks any fetch failure: transport errors, non-2xx
// statuses, and malformed bodies all degrade to the same placeholder.
var ErrUnavailable = errors.New("weather unavailable")

const defaultForecastURL = "https://api.open-meteo.com/v1/forecast"

type Client struct {
	latitude  float64
	longitude float64
	timezone  string
	days      int
	loc       *time.Location

	// BaseURL overrides the forecast endpoint, used by tests.
	BaseURL string

	client *http.Client
}

func NewClient(latitude, longitude float64, timezone string, days int, loc *time.Location) *Client {
	if days <= 0 || days > 7 {
		days = 7
	}
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		latitude:  latitude,
		longitude: longitude,
		timezone:  timezone,
		days:      days,
		loc:       loc,
		BaseURL:   defaultForecastURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type forecastResponse struct {
	Current *struct {
		Temperature2m       *float64 `json:"temperature_2m"`
		ApparentTemperature *float64 `json:"apparent_temperature"`
		RelativeHumidity2m  *float64 `json:"relative_humidity_2m"`
		WindSpeed10m        *float64 `json:"wind_speed_10m"`
		WeatherCode         *int     `json:"weather_code"`
	} `json:"current"`
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
	Daily struct {
		Time             []string  `json:"time"`
		TemperatureMax   []float64 `json:"temperature_2m_max"`
		TemperatureMin   []float64 `json:"temperature_2m_min"`
		PrecipitationSum []float64 `json:"precipitation_sum"`
	} `json:"daily"`
}

// Fetch issues one request for combined current and daily data. Any
// failure is wrapped in ErrUnavailable; the caller falls back to the
// placeholder line and tries again on its next scheduled cycle.
func (c *Client) Fetch(ctx context.Context) (*Reading, error) {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%.6f", c.latitude))
	query.Set("longitude", fmt.Sprintf("%.6f", c.longitude))
	query.Set("current", "temperature_2m,apparent_temperature,relative_humidity_2m,weather_code,wind_speed_10m")
	query.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum")
	query.Set("forecast_days", fmt.Sprintf("%d", c.days))
	query.Set("timezone", c.timezone)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open-meteo request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: open-meteo request failed: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: open-meteo bad status: %s", ErrUnavailable, resp.Status)
	}

	var payload forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: open-meteo decode: %v", ErrUnavailable, err)
	}

	if len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("%w: open-meteo daily data missing", ErrUnavailable)
	}

	reading := &Reading{FetchedAt: time.Now()}
	c.fillCurrent(reading, &payload)
	c.fillDays(reading, &payload)

	return reading, nil
}

// fillCurrent reads the current block, tolerating the legacy
// current_weather shape from the older API version.
func (c *Client) fillCurrent(r *Reading, payload *forecastResponse) {
	cur := payload.Current
	legacy := payload.CurrentWeather

	if cur != nil && cur.Temperature2m != nil {
		r.CurrentTempC = *cur.Temperature2m
	} else if legacy != nil {
		r.CurrentTempC = legacy.Temperature
	}

	if cur != nil && cur.WindSpeed10m != nil {
		r.WindKmh = *cur.WindSpeed10m
	} else if legacy != nil {
		r.WindKmh = legacy.WindSpeed
	}

	if cur != nil && cur.WeatherCode != nil {
		r.ConditionCode = *cur.WeatherCode
	} else if legacy != nil {
		r.ConditionCode = legacy.WeatherCode
	}

	if cur != nil && cur.ApparentTemperature != nil {
		r.FeelsLikeC = *cur.ApparentTemperature
	} else {
		r.FeelsLikeC = r.CurrentTempC
	}
	if cur != nil && cur.RelativeHumidity2m != nil {
		r.HumidityPct = *cur.RelativeHumidity2m
	}

	r.Condition = ConditionFromCode(r.ConditionCode)
}

func (c *Client) fillDays(r *Reading, payload *forecastResponse) {
	daily := payload.Daily
	count := len(daily.Time)
	if count > c.days {
		count = c.days
	}

	for i := 0; i < count; i++ {
		if i >= len(daily.TemperatureMax) || i >= len(daily.TemperatureMin) {
			break
		}

		label := strings.ToUpper(daily.Time[i])
		if t, err := time.ParseInLocation("2006-01-02", daily.Time[i], c.loc); err == nil {
			label = DayLabel(t)
		}

		precip := 0.0
		if i < len(daily.PrecipitationSum) {
			precip = daily.PrecipitationSum[i]
		}

		high := daily.TemperatureMax[i]
		r.Days = append(r.Days, Day{
			Label:    label,
			HighC:    high,
			LowC:     daily.TemperatureMin[i],
			PrecipMm: precip,
			Glyph:    DailyGlyph(precip, high),
		})
	}
}
