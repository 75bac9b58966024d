// Package settings loads the static configuration consumed at process startup.
//
// Values are resolved in three layers: built-in defaults, an optional TOML
// settings file, then environment variables. Settings are read once and never
// mutated afterwards.
package settings

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// EnvFile names the environment variable that points at a TOML settings file.
const EnvFile = "FOODRESCUE_SETTINGS"

// DevelopmentSecret is the insecure default session secret. Serve refuses to
// start with it unless debug mode is on.
const DevelopmentSecret = "dev-only-insecure-secret"

// Settings holds every configuration value the platform reads at startup.
type Settings struct {
	// HTTPAddr is the listen address for the web server.
	HTTPAddr string `env:"FOODRESCUE_HTTP_ADDR" toml:"http_addr"`
	// DBPath is the SQLite database file path.
	DBPath string `env:"FOODRESCUE_DB_PATH" toml:"db_path"`
	// BaseURL is the public URL prefix used in outbound notification links.
	BaseURL string `env:"FOODRESCUE_BASE_URL" toml:"base_url"`
	// Debug enables development behavior (verbose errors, insecure secret allowed).
	Debug bool `env:"FOODRESCUE_DEBUG" toml:"debug"`
	// TimeZone is an IANA zone name used for schedule math.
	TimeZone string `env:"FOODRESCUE_TIME_ZONE" toml:"time_zone"`
	// SessionSecret signs operator session cookies.
	SessionSecret string `env:"FOODRESCUE_SESSION_SECRET" toml:"session_secret"`
}

// Defaults returns the development configuration used when nothing overrides it.
func Defaults() Settings {
	return Settings{
		HTTPAddr:      ":8000",
		DBPath:        "data/foodrescue.db",
		BaseURL:       "http://localhost:8000",
		Debug:         true,
		TimeZone:      "UTC",
		SessionSecret: DevelopmentSecret,
	}
}

// Load resolves settings from defaults, the optional TOML file at path, and
// environment variables, in that order. An empty path falls back to the
// FOODRESCUE_SETTINGS environment variable; when that is empty too, no file
// is read.
func Load(path string) (Settings, error) {
	cfg := Defaults()

	if path == "" {
		path = os.Getenv(EnvFile)
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Settings{}, fmt.Errorf("read settings file %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Settings{}, fmt.Errorf("validate settings: %w", err)
	}
	return cfg, nil
}

// Validate checks that the resolved settings are internally consistent.
func (s Settings) Validate() error {
	if err := validation.ValidateStruct(&s,
		validation.Field(&s.HTTPAddr, validation.Required),
		validation.Field(&s.DBPath, validation.Required),
		validation.Field(&s.BaseURL, validation.Required, is.URL),
		validation.Field(&s.TimeZone, validation.Required),
		validation.Field(&s.SessionSecret, validation.Required),
	); err != nil {
		return err
	}
	if _, err := time.LoadLocation(s.TimeZone); err != nil {
		return fmt.Errorf("time zone %q: %w", s.TimeZone, err)
	}
	return nil
}

// Location resolves the configured time zone.
func (s Settings) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(s.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", s.TimeZone, err)
	}
	return loc, nil
}
