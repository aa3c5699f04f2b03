package tripapi

import (
	"encoding/json"
	"strings"
	"time"

	"gitlab.com/tozd/go/errors"
)

// usernameRequest is the body of every trip endpoint
type usernameRequest struct {
	Username string `json:"username"`
}

// StartResponse is returned by a successful start_trip call
type StartResponse struct {
	TripID string `json:"tripId"`
}

// 📡 TripState is the server's authoritative view of a user's trip
type TripState struct {
	TripStarted   bool       `json:"tripStarted"`
	TripStartTime *time.Time `json:"tripStartTime"`
	// ElapsedTime is in milliseconds
	ElapsedTime int64  `json:"elapsedTime"`
	TripID      string `json:"tripId"`
}

// StartTime returns the reported start time, treating the zero time as unset
func (s TripState) StartTime() (time.Time, bool) {
	if s.TripStartTime == nil || s.TripStartTime.IsZero() {
		return time.Time{}, false
	}
	return *s.TripStartTime, true
}

// Elapsed returns ElapsedTime as a duration
func (s TripState) Elapsed() time.Duration {
	return time.Duration(s.ElapsedTime) * time.Millisecond
}

// 📍 Location is one recorded position from the location endpoint
type Location struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`

	// Extra holds every field of the record, including ones not modeled above
	Extra map[string]any `json:"-"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var raw struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		CreatedAt string  `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Errorf("decoding location: %w", err)
	}

	var extra map[string]any
	if err := json.Unmarshal(data, &extra); err != nil {
		return errors.Errorf("decoding location fields: %w", err)
	}

	l.Latitude = raw.Latitude
	l.Longitude = raw.Longitude
	l.Extra = extra
	l.CreatedAt = time.Time{}

	createdAt := strings.TrimSpace(raw.CreatedAt)
	if createdAt == "" {
		return nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, createdAt); err == nil {
			l.CreatedAt = t
			return nil
		}
	}
	return errors.Errorf("decoding location: unrecognized created_at %q", raw.CreatedAt)
}

func (l Location) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Extra)+3)
	for k, v := range l.Extra {
		out[k] = v
	}
	out["latitude"] = l.Latitude
	out["longitude"] = l.Longitude
	if !l.CreatedAt.IsZero() {
		out["created_at"] = l.CreatedAt.Format(time.RFC3339Nano)
	}
	return json.Marshal(out)
}
