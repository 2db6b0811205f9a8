package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Location  LocationConfig  `mapstructure:"location"`
	Clock     ClockConfig     `mapstructure:"clock"`
	Weather   WeatherConfig   `mapstructure:"weather"`
	Headlines HeadlinesConfig `mapstructure:"headlines"`
	Ticker    TickerConfig    `mapstructure:"ticker"`
	Promo     PromoConfig     `mapstructure:"promo"`
	Reload    ReloadConfig    `mapstructure:"reload"`
	API       APIConfig       `mapstructure:"api"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
}

type LocationConfig struct {
	Label     string  `mapstructure:"label"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
	Timezone  string  `mapstructure:"timezone"`
}

type ClockConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type WeatherConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"`
	ForecastDays int           `mapstructure:"forecast_days"`
}

type FeedConfig struct {
	URL       string   `mapstructure:"url"`
	Category  string   `mapstructure:"category"`
	Fallbacks []string `mapstructure:"fallbacks"`
}

type HeadlinesConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	MaxItems int           `mapstructure:"max_items"`
	Feeds    []FeedConfig  `mapstructure:"feeds"`
}

type TickerConfig struct {
	MinLength      int           `mapstructure:"min_length"`
	ScrollDuration time.Duration `mapstructure:"scroll_duration"`
	ModeHold       time.Duration `mapstructure:"mode_hold"`
	SplitModes     bool          `mapstructure:"split_modes"`
}

type PromoConfig struct {
	Enabled       bool                `mapstructure:"enabled"`
	Interval      time.Duration       `mapstructure:"interval"`
	BaseURL       string              `mapstructure:"base_url"`
	Candidates    []string            `mapstructure:"candidates"`
	DayCandidates map[string][]string `mapstructure:"day_candidates"`
	ProbeRPS      float64             `mapstructure:"probe_rps"`
	ProbeBurst    int                 `mapstructure:"probe_burst"`
}

type ReloadConfig struct {
	Hour int `mapstructure:"hour"`
}

type APIConfig struct {
	Port    int  `mapstructure:"port"`
	Enabled bool `mapstructure:"enabled"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
}

func Load(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/menu-board")
	}

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("location.label", "OHSWEKEN")
	v.SetDefault("location.latitude", 42.93)
	v.SetDefault("location.longitude", -80.12)
	v.SetDefault("location.timezone", "America/Toronto")
	v.SetDefault("clock.interval", "10s")
	v.SetDefault("weather.enabled", true)
	v.SetDefault("weather.interval", "5m")
	v.SetDefault("weather.forecast_days", 7)
	v.SetDefault("headlines.enabled", true)
	v.SetDefault("headlines.interval", "10m")
	v.SetDefault("headlines.max_items", 8)
	v.SetDefault("ticker.min_length", 1600)
	v.SetDefault("ticker.scroll_duration", "40s")
	v.SetDefault("ticker.mode_hold", "30s")
	v.SetDefault("ticker.split_modes", false)
	v.SetDefault("promo.enabled", true)
	v.SetDefault("promo.interval", "12s")
	v.SetDefault("promo.base_url", "")
	v.SetDefault("promo.candidates", []string{"promo1.jpg", "promo2.jpg", "promo3.jpg", "promo4.jpg"})
	v.SetDefault("promo.probe_rps", 4.0)
	v.SetDefault("promo.probe_burst", 2)
	v.SetDefault("reload.hour", 2)
	v.SetDefault("api.port", 8045)
	v.SetDefault("api.enabled", true)
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.topic_prefix", "menuboard")
	v.SetDefault("mqtt.client_id", "menu-board")
}

// TimezoneLocation resolves the configured timezone, falling back to the
// host's local zone if the identifier is unknown.
func (c *Config) TimezoneLocation() *time.Location {
	if loc, err := time.LoadLocation(c.Location.Timezone); err == nil {
		return loc
	}
	return time.Local
}
