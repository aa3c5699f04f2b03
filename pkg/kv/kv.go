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

// Package kv is the persistence adapter for triplog: a small key/value store
// where each key holds one independently serialized value.
//
// A value that cannot be decoded is reported as absent rather than as an
// error. Callers only see an error when the backing medium itself fails.
package kv

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🔑 Keys persisted by the client
const (
	KeyTrip            = "trip"
	KeyActiveComponent = "activeComponent"
	KeyUsername        = "username"
	KeyAuthCode        = "auth_code"
	KeyCodeVerifier    = "code_verifier"
	KeyAccessToken     = "access_token"
	KeyOAuthState      = "oauth_state"
)

// 💾 Store is the persistence adapter contract
type Store interface {
	// Save serializes value and stores it under key, overwriting prior contents
	Save(ctx context.Context, key string, value any) error
	// Load decodes the value stored under key into into. It returns false if
	// the key was never written or the stored value fails to parse.
	Load(ctx context.Context, key string, into any) (bool, error)
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backing medium
	Close() error
}

// ErrInvalidKey is returned for keys that cannot be stored
var ErrInvalidKey = errors.Base("invalid key")

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return errors.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// 🏭 Open creates a store for the named driver rooted at path
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case "", "file":
		return NewFileStore(path)
	case "badger":
		return NewBadgerStore(ctx, path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, errors.Errorf("unknown storage driver %q, options: file, badger, memory", driver)
	}
}
