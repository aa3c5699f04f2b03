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
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL. Environment variables are available
// as env.NAME inside expressions.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "triplog.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		API *struct {
			BaseURL      string `hcl:"base_url"`
			LocationsURL string `hcl:"locations_url,optional"`
		} `hcl:"api,block"`
		PollInterval string `hcl:"poll_interval,optional"`
		HTTPTimeout  string `hcl:"http_timeout,optional"`
		Storage      *struct {
			Driver string `hcl:"driver,optional"`
			Path   string `hcl:"path,optional"`
		} `hcl:"storage,block"`
		Auth *struct {
			Provider     string   `hcl:"provider,optional"`
			ClientID     string   `hcl:"client_id,optional"`
			ClientSecret string   `hcl:"client_secret,optional"`
			AuthURL      string   `hcl:"auth_url,optional"`
			TokenURL     string   `hcl:"token_url,optional"`
			RedirectURL  string   `hcl:"redirect_url,optional"`
			CallbackURL  string   `hcl:"callback_url,optional"`
			UserInfoURL  string   `hcl:"userinfo_url,optional"`
			Scopes       []string `hcl:"scopes,optional"`
		} `hcl:"auth,block"`
		Notify *struct {
			Desktop bool `hcl:"desktop,optional"`
		} `hcl:"notify,block"`
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	if hclCfg.API != nil {
		cfg.API = APIConfig{
			BaseURL:      hclCfg.API.BaseURL,
			LocationsURL: hclCfg.API.LocationsURL,
		}
	}
	if hclCfg.PollInterval != "" {
		if err := cfg.PollInterval.UnmarshalText([]byte(hclCfg.PollInterval)); err != nil {
			return nil, errors.Errorf("decoding HCL poll_interval: %w", err)
		}
	}
	if hclCfg.HTTPTimeout != "" {
		if err := cfg.HTTPTimeout.UnmarshalText([]byte(hclCfg.HTTPTimeout)); err != nil {
			return nil, errors.Errorf("decoding HCL http_timeout: %w", err)
		}
	}
	if hclCfg.Storage != nil {
		cfg.Storage = StorageConfig{
			Driver: hclCfg.Storage.Driver,
			Path:   hclCfg.Storage.Path,
		}
	}
	if hclCfg.Auth != nil {
		cfg.Auth = AuthConfig{
			Provider:     hclCfg.Auth.Provider,
			ClientID:     hclCfg.Auth.ClientID,
			ClientSecret: hclCfg.Auth.ClientSecret,
			AuthURL:      hclCfg.Auth.AuthURL,
			TokenURL:     hclCfg.Auth.TokenURL,
			RedirectURL:  hclCfg.Auth.RedirectURL,
			CallbackURL:  hclCfg.Auth.CallbackURL,
			UserInfoURL:  hclCfg.Auth.UserInfoURL,
			Scopes:       hclCfg.Auth.Scopes,
		}
	}
	if hclCfg.Notify != nil {
		cfg.Notify.Desktop = hclCfg.Notify.Desktop
	}

	return cfg, nil
}

func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	return cty.ObjectVal(vars)
}
