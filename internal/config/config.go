// Package config provides configuration loading for pandoc-web.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	configloader "github.com/GabrielNunesIT/go-libs/config-loader"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "PANDOC_"

// DefaultBaseURL is the conversion service used when none is configured.
const DefaultBaseURL = "https://pandoc-api.mealuet.com/"

// Config holds the application configuration.
type Config struct {
	// BaseURL is the root of the remote conversion service.
	BaseURL string `koanf:"base_url" json:"base_url"`
	// ListenAddr is where `serve` listens.
	ListenAddr string `koanf:"listen_addr" json:"listen_addr"`
	// OutputDir is where CLI downloads are saved.
	OutputDir string `koanf:"output_dir" json:"output_dir"`
	// AllowedOrigins feeds the CORS policy of the web server.
	AllowedOrigins []string `koanf:"allowed_origins" json:"allowed_origins"`
	// MaxUploadMB caps uploads accepted by the web server.
	MaxUploadMB int `koanf:"max_upload_mb" json:"max_upload_mb"`
	// TimeoutSecs bounds each outbound call; 0 keeps the transport default.
	TimeoutSecs int `koanf:"timeout_secs" json:"timeout_secs"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		ListenAddr:     ":8080",
		OutputDir:      ".",
		AllowedOrigins: []string{"*"},
		MaxUploadMB:    50,
		TimeoutSecs:    0,
	}
}

// Load returns the application configuration using go-libs config-loader.
// Values come from the defaults, then the optional file, then PANDOC_* variables.
func Load(path string) (*Config, error) {
	load := func() (Config, error) {
		return configloader.NewConfigLoader(
			configloader.WithDefaults(Defaults()),
			configloader.WithEnv[Config](EnvPrefix),
		).Load()
	}

	if path != "" {
		load = func() (Config, error) {
			return configloader.NewConfigLoader(
				configloader.WithDefaults(Defaults()),
				configloader.WithFile[Config](path),
				configloader.WithEnv[Config](EnvPrefix),
			).Load()
		}
	}

	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.MaxUploadMB, validation.Required, validation.Min(1)),
		validation.Field(&c.TimeoutSecs, validation.Min(0)),
	)
}

// Timeout returns TimeoutSecs as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// MaxUploadBytes returns MaxUploadMB in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}

	return nil
}
