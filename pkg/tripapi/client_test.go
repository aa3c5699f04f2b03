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

package tripapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/triplog/pkg/tripapi"
	"github.com/walteh/triplog/pkg/tripapi/tripapitest"
)

func newClient(t *testing.T, srv *httptest.Server) *tripapi.HTTPClient {
	t.Helper()
	c, err := tripapi.NewHTTPClient(srv.URL)
	require.NoError(t, err, "creating client should succeed")
	return c
}

func TestHTTPClient(t *testing.T) {
	ctx := context.Background()

	t.Run("test_start_returns_trip_id", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()

		resp, err := newClient(t, srv.Server).StartTrip(ctx, "alice")
		require.NoError(t, err, "start should succeed")
		assert.Equal(t, "t1", resp.TripID, "trip id should come from the server")

		trip, ok := srv.Trip("alice")
		require.True(t, ok)
		assert.True(t, trip.Started, "server should record an active trip")
	})

	t.Run("test_start_conflict", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()
		srv.SetTrip("alice", tripapitest.Trip{Started: true, StartTime: time.Now(), ID: "old"})

		_, err := newClient(t, srv.Server).StartTrip(ctx, "alice")
		require.Error(t, err)
		assert.ErrorIs(t, err, tripapi.ErrConflict, "409 should map to ErrConflict")
	})

	t.Run("test_end_conflict_when_inactive", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()

		err := newClient(t, srv.Server).EndTrip(ctx, "alice")
		require.Error(t, err)
		assert.ErrorIs(t, err, tripapi.ErrConflict)
	})

	t.Run("test_server_error", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()
		srv.ForceStatus("/start_trip", http.StatusInternalServerError)

		_, err := newClient(t, srv.Server).StartTrip(ctx, "alice")
		require.Error(t, err)
		assert.ErrorIs(t, err, tripapi.ErrUnexpectedStatus)
		assert.NotErrorIs(t, err, tripapi.ErrConflict)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("test_get_trip_state", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()

		start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		srv.SetNow(func() time.Time { return start.Add(90 * time.Second) })
		srv.SetTrip("alice", tripapitest.Trip{Started: true, StartTime: start, ID: "abc"})

		state, err := newClient(t, srv.Server).GetTripState(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, state.TripStarted)
		assert.Equal(t, "abc", state.TripID)
		assert.Equal(t, 90*time.Second, state.Elapsed())

		got, ok := state.StartTime()
		require.True(t, ok)
		assert.True(t, start.Equal(got), "start time should round trip")
	})

	t.Run("test_get_trip_state_not_found", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()

		_, err := newClient(t, srv.Server).GetTripState(ctx, "nobody")
		require.Error(t, err)
		assert.ErrorIs(t, err, tripapi.ErrUnexpectedStatus)
	})

	t.Run("test_plain_text_start_body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Trip started successfully"))
		}))
		defer srv.Close()

		resp, err := newClient(t, srv).StartTrip(ctx, "alice")
		require.NoError(t, err, "a plain-text 200 should still be a success")
		assert.Empty(t, resp.TripID)
	})

	t.Run("test_request_headers", func(t *testing.T) {
		var got http.Header
		var body map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&body)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		require.NoError(t, newClient(t, srv).EndTrip(ctx, "bob"))
		assert.NotEmpty(t, got.Get("X-Request-ID"), "request id should be set")
		assert.Equal(t, "application/json", got.Get("Content-Type"))
		assert.Equal(t, map[string]string{"username": "bob"}, body)
	})
}

func TestListLocations(t *testing.T) {
	ctx := context.Background()

	t.Run("test_lists_locations", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()

		created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
		srv.SetLocations([]tripapi.Location{
			{Latitude: 27.67, Longitude: 85.31, CreatedAt: created, Extra: map[string]any{"poleimage": "a.jpg"}},
		})

		locs, err := newClient(t, srv.Server).ListLocations(ctx)
		require.NoError(t, err)
		require.Len(t, locs, 1)
		assert.InDelta(t, 27.67, locs[0].Latitude, 1e-9)
		assert.True(t, created.Equal(locs[0].CreatedAt))
		assert.Equal(t, "a.jpg", locs[0].Extra["poleimage"], "extra fields should be preserved")
	})

	t.Run("test_rejects_non_json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		}))
		defer srv.Close()

		_, err := newClient(t, srv).ListLocations(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected JSON")
	})

	t.Run("test_rejects_non_array", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Write([]byte(`{"latitude": 1}`))
		}))
		defer srv.Close()

		_, err := newClient(t, srv).ListLocations(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected an array")
	})

	t.Run("test_custom_locations_url", func(t *testing.T) {
		srv := tripapitest.NewServer()
		defer srv.Close()

		u, err := url.Parse(srv.URL + "/user-data")
		require.NoError(t, err)
		c, err := tripapi.NewHTTPClient("http://trip.invalid", tripapi.WithLocationsURL(u))
		require.NoError(t, err)

		_, err = c.ListLocations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, srv.Hits("/user-data"))
	})
}

func TestLocationDecoding(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "rfc3339",
			input: `{"latitude":1,"longitude":2,"created_at":"2025-03-01T09:30:00Z"}`,
			want:  time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			name:  "date_only",
			input: `{"latitude":1,"longitude":2,"created_at":"2025-03-01"}`,
			want:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "missing_created_at",
			input: `{"latitude":1,"longitude":2}`,
		},
		{
			name:    "garbage_created_at",
			input:   `{"latitude":1,"longitude":2,"created_at":"yesterday"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loc tripapi.Location
			err := json.Unmarshal([]byte(tt.input), &loc)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(loc.CreatedAt), "created_at should be %s, got %s", tt.want, loc.CreatedAt)
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	_, err := tripapi.NewHTTPClient("localhost:8080")
	require.Error(t, err, "relative url should be rejected")

	_, err = tripapi.NewHTTPClient("http://localhost:8080", tripapi.WithTimeout(time.Second))
	require.NoError(t, err)
}
