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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	parsers = nil

	mockParser := &struct {
		Parser
		canParse bool
	}{
		canParse: true,
	}

	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{name: "yaml_file", filename: "triplog.yaml", want: &YAMLParser{}},
		{name: "yml_file", filename: ".triplog.yml", want: &YAMLParser{}},
		{name: "hcl_file", filename: "triplog.hcl", want: &HCLParser{}},
		{name: "json_file", filename: "triplog.json", want: &JSONParser{}},
		{name: "toml_file", filename: "triplog.toml", want: &TOMLParser{}},
		{name: "unknown_extension", filename: "triplog.txt", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

// 🧪 TestHCLParsing tests HCL config parsing
func TestHCLParsing(t *testing.T) {
	t.Setenv("TRIPLOG_TEST_API", "https://env.example.com")

	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_hcl",
			config: `
api {
  base_url = "https://trips.example.com"
}
poll_interval = "2s"
storage {
  driver = "badger"
  path   = "/tmp/triplog"
}
auth {
  provider = "github"
  scopes   = ["read:user", "user:email"]
}
notify {
  desktop = true
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://trips.example.com", cfg.API.BaseURL)
				assert.Equal(t, 2*time.Second, cfg.PollInterval.Std())
				assert.Equal(t, "badger", cfg.Storage.Driver)
				assert.Equal(t, "/tmp/triplog", cfg.Storage.Path)
				assert.Equal(t, "github", cfg.Auth.Provider)
				assert.Equal(t, []string{"read:user", "user:email"}, cfg.Auth.Scopes)
				assert.True(t, cfg.Notify.Desktop)
			},
		},
		{
			name: "reads_environment",
			config: `
api {
  base_url = env.TRIPLOG_TEST_API
}
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://env.example.com", cfg.API.BaseURL, "env should be interpolated")
			},
		},
		{
			name: "invalid_hcl_syntax",
			config: `
api {
  base_url =
}`,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name: "invalid_block_type",
			config: `
unknown_block {
  foo = "bar"
}`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name: "bad_duration",
			config: `
api {
  base_url = "https://trips.example.com"
}
http_timeout = "forever"
`,
			wantErr:     true,
			errContains: "http_timeout",
		},
	}

	parser := &HCLParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// 🧪 TestTOMLParsing tests TOML config parsing
func TestTOMLParsing(t *testing.T) {
	tests := []struct {
		name        string
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_toml",
			config: `
poll_interval = "1m"

[api]
base_url = "https://trips.example.com"

[storage]
driver = "memory"

[notify]
desktop = true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "https://trips.example.com", cfg.API.BaseURL)
				assert.Equal(t, time.Minute, cfg.PollInterval.Std())
				assert.Equal(t, "memory", cfg.Storage.Driver)
				assert.True(t, cfg.Notify.Desktop)
			},
		},
		{
			name: "unknown_field",
			config: `
[api]
base_url = "https://trips.example.com"
region = "eu"
`,
			wantErr:     true,
			errContains: "parsing TOML",
		},
		{
			name:        "invalid_syntax",
			config:      `[api`,
			wantErr:     true,
			errContains: "parsing TOML",
		},
	}

	parser := &TOMLParser{}
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parser.Parse(ctx, []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}

			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
