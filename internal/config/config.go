// Package config loads the fixed set of named options the heating helper
// understands. Values come from configs/config.yml (or an explicit file) with
// HEATING_* environment variables taking precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// State backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

const envPrefix = "HEATING"

// Preferences is read once at startup and never mutated.
type Preferences struct {
	Latitude  float64   `mapstructure:"latitude"`
	Longitude float64   `mapstructure:"longitude"`
	MetOffice MetOffice `mapstructure:"metoffice"`
	IFTTT     IFTTT     `mapstructure:"ifttt"`
	Presence  Presence  `mapstructure:"presence"`
	State     State     `mapstructure:"state"`
	Log       Log       `mapstructure:"log"`
	MQTT      MQTT      `mapstructure:"mqtt"`
	HTTP      HTTP      `mapstructure:"http"`
}

type MetOffice struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
}

type IFTTT struct {
	Key     string `mapstructure:"key"`
	Event   string `mapstructure:"event"`
	BaseURL string `mapstructure:"base_url"`
}

type Presence struct {
	TargetIP string `mapstructure:"target_ip"`
}

type State struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

type Log struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// MQTT publication is disabled when Broker is empty.
type MQTT struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

type HTTP struct {
	Port string `mapstructure:"port"`
}

var errUnknownBackend = errors.New("unknown state backend")

func setDefaults(v *viper.Viper) {
	v.SetDefault("latitude", 0.0)
	v.SetDefault("longitude", 0.0)
	v.SetDefault("metoffice.client_id", "")
	v.SetDefault("metoffice.client_secret", "")
	v.SetDefault("metoffice.base_url", "https://api-metoffice.apiconnect.ibmcloud.com")
	v.SetDefault("ifttt.key", "")
	v.SetDefault("ifttt.event", "computer_seen")
	v.SetDefault("ifttt.base_url", "https://maker.ifttt.com")
	v.SetDefault("presence.target_ip", "192.168.0.201")
	v.SetDefault("state.backend", BackendJSON)
	v.SetDefault("state.path", "./last_run.json")
	v.SetDefault("log.path", "./heating.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", "home/heating/morning/events")
	v.SetDefault("mqtt.client_id", "morning-heating")
	v.SetDefault("http.port", "8080")
}

// Load reads preferences. With an empty path it looks for configs/config.yml
// and silently falls back to defaults and environment when none exists; an
// explicit path must exist.
func Load(path string) (Preferences, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Preferences{}, fmt.Errorf("read config: %w", err)
		}
	}

	var p Preferences
	if err := v.Unmarshal(&p); err != nil {
		return Preferences{}, fmt.Errorf("decode config: %w", err)
	}
	p.State.Backend = strings.ToLower(strings.TrimSpace(p.State.Backend))
	if p.State.Backend != BackendJSON && p.State.Backend != BackendSQLite {
		return Preferences{}, fmt.Errorf("%w: %q", errUnknownBackend, p.State.Backend)
	}
	return p, nil
}
