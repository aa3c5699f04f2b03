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

package kv

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"gitlab.com/tozd/go/errors"
)

const badgerPrefix = "triplog"

// 🦡 BadgerStore keeps msgpack-encoded values in an embedded badger database
type BadgerStore struct {
	db *badger.DB
}

var _ Store = (*BadgerStore)(nil)

// 🏭 NewBadgerStore opens a badger database at path. An empty path opens an
// in-memory database.
func NewBadgerStore(ctx context.Context, path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Errorf("opening badger database: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("opened badger store")
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) buildKey(key string) []byte {
	return []byte(fmt.Sprintf("%s/%s", badgerPrefix, key))
}

func (b *BadgerStore) Save(ctx context.Context, key string, value any) error {
	if err := validateKey(key); err != nil {
		return err
	}

	buf, err := msgpack.Marshal(value)
	if err != nil {
		return errors.Errorf("encoding %s: %w", key, err)
	}

	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.buildKey(key), buf)
	}); err != nil {
		return errors.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Load(ctx context.Context, key string, into any) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	var raw []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.buildKey(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return false, nil
		}
		return false, errors.Errorf("reading %s: %w", key, err)
	}

	if err := msgpack.Unmarshal(raw, into); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("stored value unreadable, treating as absent")
		return false, nil
	}
	return true, nil
}

func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.buildKey(key))
	}); err != nil {
		return errors.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

