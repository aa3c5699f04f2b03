// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultStorage      = "file"
	DefaultAuthProvider = "backend"

	MinPollInterval = time.Second
	MaxPollInterval = 10 * time.Minute
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// ⏱️ Duration is a time.Duration written as "5s" or "1m30s" in config files
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return errors.Errorf("parsing duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// 🌐 APIConfig locates the trip backend
type APIConfig struct {
	BaseURL      string `json:"base_url" yaml:"base_url" toml:"base_url"`                                     // Root of the trip endpoints
	LocationsURL string `json:"locations_url,omitempty" yaml:"locations_url,omitempty" toml:"locations_url"` // Location list, defaults to <base>/user-data
}

// 💾 StorageConfig selects where session state is persisted
type StorageConfig struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty" toml:"driver"` // file, badger or memory
	Path   string `json:"path,omitempty" yaml:"path,omitempty" toml:"path"`
}

// 🔑 AuthConfig configures the identity provider
type AuthConfig struct {
	Provider     string   `json:"provider,omitempty" yaml:"provider,omitempty" toml:"provider"`
	ClientID     string   `json:"client_id,omitempty" yaml:"client_id,omitempty" toml:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret,omitempty" toml:"client_secret"`
	AuthURL      string   `json:"auth_url,omitempty" yaml:"auth_url,omitempty" toml:"auth_url"`
	TokenURL     string   `json:"token_url,omitempty" yaml:"token_url,omitempty" toml:"token_url"`
	RedirectURL  string   `json:"redirect_url,omitempty" yaml:"redirect_url,omitempty" toml:"redirect_url"`
	CallbackURL  string   `json:"callback_url,omitempty" yaml:"callback_url,omitempty" toml:"callback_url"`
	UserInfoURL  string   `json:"userinfo_url,omitempty" yaml:"userinfo_url,omitempty" toml:"userinfo_url"`
	Scopes       []string `json:"scopes,omitempty" yaml:"scopes,omitempty" toml:"scopes"`
}

// 🔔 NotifyConfig selects where blocking warnings go
type NotifyConfig struct {
	Desktop bool `json:"desktop,omitempty" yaml:"desktop,omitempty" toml:"desktop"` // Also send freedesktop notifications
}

// 📚 Config represents the complete configuration
type Config struct {
	API          APIConfig     `json:"api" yaml:"api" toml:"api"`
	PollInterval Duration      `json:"poll_interval,omitempty" yaml:"poll_interval,omitempty" toml:"poll_interval"`
	HTTPTimeout  Duration      `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty" toml:"http_timeout"`
	Storage      StorageConfig `json:"storage,omitempty" yaml:"storage,omitempty" toml:"storage"`
	Auth         AuthConfig    `json:"auth,omitempty" yaml:"auth,omitempty" toml:"auth"`
	Notify       NotifyConfig  `json:"notify,omitempty" yaml:"notify,omitempty" toml:"notify"`

	location string
}

// Location is the file the config was loaded from, empty when built in code
func (cfg *Config) Location() string {
	return cfg.location
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("config", cfg.String()).Msg("configuration loaded")

	return cfg, nil
}

// 🔍 Validate fills defaults and checks that the configuration is usable
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.API.BaseURL) == "" {
		return errors.Errorf("api.base_url is required")
	}
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)

	if cfg.PollInterval == 0 {
		cfg.PollInterval = Duration(DefaultPollInterval)
	}
	if p := cfg.PollInterval.Std(); p < MinPollInterval || p > MaxPollInterval {
		return errors.Errorf("poll_interval %s must be between %s and %s", p, MinPollInterval, MaxPollInterval)
	}

	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = Duration(DefaultHTTPTimeout)
	}
	if cfg.HTTPTimeout < 0 {
		return errors.Errorf("http_timeout must be positive")
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorage
	}
	switch cfg.Storage.Driver {
	case "file", "badger", "memory":
	default:
		return errors.Errorf("storage.driver %q is not one of file, badger, memory", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver != "memory" {
		path, err := storagePath(cfg.Storage.Path)
		if err != nil {
			return err
		}
		cfg.Storage.Path = path
	}

	if cfg.Auth.Provider == "" {
		cfg.Auth.Provider = DefaultAuthProvider
	}

	return nil
}

func storagePath(path string) (string, error) {
	if path == "" {
		path = "~/.triplog"
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return filepath.Clean(path), nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s every %s -> %s:%s", cfg.API.BaseURL, cfg.PollInterval.Std(), cfg.Storage.Driver, cfg.Storage.Path)
}
