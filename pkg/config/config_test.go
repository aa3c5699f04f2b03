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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_config",
			config: `
api:
  base_url: https://trips.example.com/api
  locations_url: https://data.example.com/user-data
poll_interval: 10s
http_timeout: 5s
storage:
  driver: badger
  path: /tmp/triplog
auth:
  provider: github
  client_id: abc
  scopes:
    - read:user
notify:
  desktop: true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://trips.example.com/api", cfg.API.BaseURL, "base url should match")
				assert.Equal(t, "https://data.example.com/user-data", cfg.API.LocationsURL, "locations url should match")
				assert.Equal(t, 10*time.Second, cfg.PollInterval.Std(), "poll interval should match")
				assert.Equal(t, 5*time.Second, cfg.HTTPTimeout.Std(), "http timeout should match")
				assert.Equal(t, "badger", cfg.Storage.Driver, "driver should match")
				assert.Equal(t, "/tmp/triplog", cfg.Storage.Path, "path should match")
				assert.Equal(t, "github", cfg.Auth.Provider, "provider should match")
				assert.Equal(t, []string{"read:user"}, cfg.Auth.Scopes, "scopes should match")
				assert.True(t, cfg.Notify.Desktop, "desktop should be enabled")
			},
		},
		{
			name: "minimal_config",
			config: `
api:
  base_url: https://trips.example.com/api
storage:
  path: /tmp/triplog
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultPollInterval, cfg.PollInterval.Std(), "poll interval should have default value")
				assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout.Std(), "http timeout should have default value")
				assert.Equal(t, "file", cfg.Storage.Driver, "driver should have default value")
				assert.Equal(t, "backend", cfg.Auth.Provider, "provider should have default value")
				assert.False(t, cfg.Notify.Desktop, "desktop should be off")
			},
		},
		{
			name: "missing_base_url",
			config: `
poll_interval: 5s
`,
			wantErr:     true,
			errContains: "api.base_url is required",
		},
		{
			name: "unknown_field",
			config: `
api:
  base_url: https://trips.example.com/api
destination: /tmp
`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name: "bad_duration",
			config: `
api:
  base_url: https://trips.example.com/api
poll_interval: soon
`,
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name: "poll_interval_too_short",
			config: `
api:
  base_url: https://trips.example.com/api
poll_interval: 100ms
`,
			wantErr:     true,
			errContains: "poll_interval",
		},
	}

	ctx := zerolog.New(os.Stderr).WithContext(context.Background())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "triplog.yaml")
			err := os.WriteFile(configPath, []byte(tt.config), 0644)
			require.NoError(t, err, "writing config file should succeed")

			cfg, err := Load(ctx, configPath)
			if tt.wantErr {
				require.Error(t, err, "Load should return error")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}

			require.NoError(t, err, "Load should succeed")
			assert.Equal(t, configPath, cfg.Location(), "location should be recorded")
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Load(ctx, filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")

	path := filepath.Join(t.TempDir(), "triplog.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	_, err = Load(ctx, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found")
}

func TestValidate(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name        string
		cfg         Config
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "default_storage_path",
			cfg:  Config{API: APIConfig{BaseURL: "http://localhost"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join(home, ".triplog"), cfg.Storage.Path, "storage should default under home")
			},
		},
		{
			name: "tilde_expansion",
			cfg:  Config{API: APIConfig{BaseURL: "http://localhost"}, Storage: StorageConfig{Path: "~/trips/"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, filepath.Join(home, "trips"), cfg.Storage.Path, "tilde should expand")
			},
		},
		{
			name: "memory_has_no_path",
			cfg:  Config{API: APIConfig{BaseURL: "http://localhost"}, Storage: StorageConfig{Driver: "memory"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Empty(t, cfg.Storage.Path, "memory storage needs no path")
			},
		},
		{
			name: "trims_base_url",
			cfg:  Config{API: APIConfig{BaseURL: "  http://localhost  "}, Storage: StorageConfig{Path: "/tmp/x"}},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "http://localhost", cfg.API.BaseURL)
			},
		},
		{
			name:        "poll_interval_too_long",
			cfg:         Config{API: APIConfig{BaseURL: "http://localhost"}, PollInterval: Duration(time.Hour)},
			wantErr:     true,
			errContains: "between",
		},
		{
			name:        "negative_timeout",
			cfg:         Config{API: APIConfig{BaseURL: "http://localhost"}, HTTPTimeout: Duration(-time.Second)},
			wantErr:     true,
			errContains: "http_timeout",
		},
		{
			name:        "unknown_driver",
			cfg:         Config{API: APIConfig{BaseURL: "http://localhost"}, Storage: StorageConfig{Driver: "postgres"}},
			wantErr:     true,
			errContains: "storage.driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, &cfg)
			}
		})
	}
}

func TestConfigString(t *testing.T) {
	cfg := &Config{
		API:          APIConfig{BaseURL: "https://trips.example.com"},
		PollInterval: Duration(5 * time.Second),
		Storage:      StorageConfig{Driver: "file", Path: "/tmp/triplog"},
	}
	assert.Equal(t, "https://trips.example.com every 5s -> file:/tmp/triplog", cfg.String(), "String() should match")
}
