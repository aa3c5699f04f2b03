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

package trip

import (
	"encoding/json"
	"time"

	"github.com/segmentio/ksuid"
	"gitlab.com/tozd/go/errors"
)

// 🧳 Session is the client's view of the current trip.
//
// A session that is not started has no start time, no id and zero elapsed
// time. A started session always has both a start time and an id.
type Session struct {
	Started     bool
	StartTime   *time.Time
	ElapsedTime time.Duration
	ID          *string
	Username    string
}

// sessionJSON is the persisted shape, with elapsed time in milliseconds
type sessionJSON struct {
	Started     bool       `json:"started"`
	StartTime   *time.Time `json:"startTime"`
	ElapsedTime int64      `json:"elapsedTime"`
	ID          *string    `json:"id"`
	Username    string     `json:"username"`
}

// Default returns the "no session" value
func Default() Session {
	return Session{}
}

// IsZero reports whether s is the default value
func (s Session) IsZero() bool {
	return s.Equal(Default())
}

// Normalize returns s with the session invariants enforced. Inactive records
// lose their start time, id, elapsed time and owner. A started record with no
// start time cannot be trusted and normalizes to the default. A started record
// with no id gets a locally minted one.
func (s Session) Normalize() Session {
	if !s.Started || s.StartTime == nil || s.StartTime.IsZero() {
		return Default()
	}
	if s.ID == nil || *s.ID == "" {
		id := newTripID()
		s.ID = &id
	}
	if s.ElapsedTime < 0 {
		s.ElapsedTime = 0
	}
	return s
}

// Equal compares two sessions by value
func (s Session) Equal(o Session) bool {
	if s.Started != o.Started || s.ElapsedTime != o.ElapsedTime || s.Username != o.Username {
		return false
	}
	if (s.StartTime == nil) != (o.StartTime == nil) {
		return false
	}
	if s.StartTime != nil && !s.StartTime.Equal(*o.StartTime) {
		return false
	}
	if (s.ID == nil) != (o.ID == nil) {
		return false
	}
	return s.ID == nil || *s.ID == *o.ID
}

// TripID returns the id or an empty string
func (s Session) TripID() string {
	if s.ID == nil {
		return ""
	}
	return *s.ID
}

// Since returns now minus the start time, or zero when not started
func (s Session) Since(now time.Time) time.Duration {
	if !s.Started || s.StartTime == nil {
		return 0
	}
	d := now.Sub(*s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

func (s Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(sessionJSON{
		Started:     s.Started,
		StartTime:   s.StartTime,
		ElapsedTime: s.ElapsedTime.Milliseconds(),
		ID:          s.ID,
		Username:    s.Username,
	})
}

func (s *Session) UnmarshalJSON(data []byte) error {
	var raw sessionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Errorf("decoding session: %w", err)
	}
	*s = Session{
		Started:     raw.Started,
		StartTime:   raw.StartTime,
		ElapsedTime: time.Duration(raw.ElapsedTime) * time.Millisecond,
		ID:          raw.ID,
		Username:    raw.Username,
	}
	return nil
}

func newTripID() string {
	return ksuid.New().String()
}

func ptr[T any](v T) *T {
	return &v
}
