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

// Package auth resolves the user's identity through a pluggable login
// provider. The trip session only ever sees the resulting username.
package auth

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/walteh/triplog/pkg/kv"
	"gitlab.com/tozd/go/errors"
)

// ErrStateMismatch is returned when a login is completed with a state other
// than the one BeginLogin issued
var ErrStateMismatch = errors.Base("login state does not match")

// ErrNoUsername is returned when a profile carries none of the identity fields
var ErrNoUsername = errors.Base("username or email is not defined in response")

// 👤 Profile is the identity returned by a provider
type Profile struct {
	Username string
	Name     string
	Email    string
	Login    string
	Raw      map[string]any
}

// 🔐 Provider is the narrow login capability the client depends on
type Provider interface {
	// Name returns the registry name of the provider
	Name() string
	// BeginLogin returns the URL the user must visit to authorize
	BeginLogin(ctx context.Context) (string, error)
	// CompleteLogin checks state against the one issued by BeginLogin and
	// exchanges the authorization code for a profile
	CompleteLogin(ctx context.Context, code, state string) (Profile, error)
	// UserInfo returns the profile of the currently authorized user
	UserInfo(ctx context.Context) (Profile, error)
}

// Config carries everything any provider may need
type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	Scopes       []string

	// CallbackURL is the backend endpoint that exchanges a code for a profile
	CallbackURL string
	// UserInfoURL is the backend endpoint that returns the current profile
	UserInfoURL string

	HTTPClient *http.Client
}

func (c Config) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Factory builds a provider from config and the storage it keeps login state in
type Factory func(cfg Config, storage kv.Store) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a provider available under name
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// New builds the provider registered under name
func New(name string, cfg Config, storage kv.Store) (Provider, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, errors.Errorf("auth provider %s not found, options: %s", name, strings.Join(Providers(), ", "))
	}
	return f(cfg, storage)
}

// Providers returns the registered provider names
func Providers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// profileFromFields builds a profile, taking the username from the first
// non-empty field in order
func profileFromFields(raw map[string]any, order ...string) (Profile, error) {
	str := func(k string) string {
		s, _ := raw[k].(string)
		return strings.TrimSpace(s)
	}

	p := Profile{
		Name:  str("name"),
		Email: str("email"),
		Login: str("username"),
		Raw:   raw,
	}
	for _, k := range order {
		if v := str(k); v != "" {
			p.Username = v
			return p, nil
		}
	}
	return Profile{}, errors.WithStack(ErrNoUsername)
}

// remember persists the username for the next run
func remember(ctx context.Context, storage kv.Store, p Profile) error {
	if err := storage.Save(ctx, kv.KeyUsername, p.Username); err != nil {
		return errors.Errorf("saving username: %w", err)
	}
	return nil
}

// issueState stores a fresh login state and returns it
func issueState(ctx context.Context, storage kv.Store) (string, error) {
	state := uuid.NewString()
	if err := storage.Save(ctx, kv.KeyOAuthState, state); err != nil {
		return "", errors.Errorf("saving login state: %w", err)
	}
	return state, nil
}

// consumeState checks state against the stored one. A matching state is
// removed so it cannot complete a second login.
func consumeState(ctx context.Context, storage kv.Store, state string) error {
	var want string
	ok, err := storage.Load(ctx, kv.KeyOAuthState, &want)
	if err != nil {
		return errors.Errorf("loading login state: %w", err)
	}
	if !ok || want == "" {
		return errors.Errorf("%w: no login in progress", ErrStateMismatch)
	}
	if state != want {
		return errors.WithStack(ErrStateMismatch)
	}
	if err := storage.Delete(ctx, kv.KeyOAuthState); err != nil {
		return errors.Errorf("clearing login state: %w", err)
	}
	return nil
}
