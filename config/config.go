// Package config loads the assignview YAML configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vcrobe/assignview/logging"
)

// Config is the root of the configuration file.
type Config struct {
	Log     logging.Config `yaml:"log"`
	DevHost DevHost        `yaml:"devhost"`
	Attach  Attach         `yaml:"attach"`
}

// DevHost configures the reference host.
type DevHost struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	// Seed fills an empty database with a demo course.
	Seed bool `yaml:"seed"`
	// GitLabURL prefixes the repository links the host hands out.
	GitLabURL string `yaml:"gitlabURL"`
}

// Attach configures the headless panel client.
type Attach struct {
	URL string `yaml:"url"`
	// AutoConfirm answers every confirmation with yes instead of prompting.
	AutoConfirm bool `yaml:"autoConfirm"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: logging.Config{Level: "info"},
		DevHost: DevHost{
			Addr:      "127.0.0.1:8787",
			Database:  "file:assignview.db",
			Seed:      true,
			GitLabURL: "https://gitlab.example.com",
		},
		Attach: Attach{URL: "ws://127.0.0.1:8787/ws"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields that have a fixed shape.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if strings.TrimSpace(c.DevHost.Addr) == "" {
		errs = append(errs, errors.New("devhost.addr is required"))
	}
	if strings.TrimSpace(c.DevHost.Database) == "" {
		errs = append(errs, errors.New("devhost.database is required"))
	}
	if c.Attach.URL != "" {
		u, err := url.Parse(c.Attach.URL)
		if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
			errs = append(errs, fmt.Errorf("attach.url must be a ws:// or wss:// URL, got %q", c.Attach.URL))
		}
	}
	return errors.Join(errs...)
}
