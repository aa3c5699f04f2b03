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

// Package tripapi is the HTTP client for the external trip backend.
package tripapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrConflict is returned for a 409 response
	ErrConflict = errors.Base("conflict")
	// ErrUnexpectedStatus is returned for any other non-200 response
	ErrUnexpectedStatus = errors.Base("unexpected status")
)

const (
	pathStartTrip    = "start_trip"
	pathEndTrip      = "end_trip"
	pathGetTripState = "get_trip_state"
	pathLocations    = "user-data"

	// maxBodyBytes caps how much of a response body is read
	maxBodyBytes = 1 << 20
)

// 🎯 Client is the trip endpoint contract the session core depends on
type Client interface {
	// StartTrip begins a trip for username
	StartTrip(ctx context.Context, username string) (StartResponse, error)
	// EndTrip ends the active trip for username
	EndTrip(ctx context.Context, username string) error
	// GetTripState returns the server's view of username's trip
	GetTripState(ctx context.Context, username string) (TripState, error)
}

// 📍 LocationLister fetches recorded locations
type LocationLister interface {
	ListLocations(ctx context.Context) ([]Location, error)
}

// 🌐 HTTPClient implements Client and LocationLister over HTTP
type HTTPClient struct {
	baseURL      *url.URL
	locationsURL *url.URL
	http         *http.Client
}

var (
	_ Client         = (*HTTPClient)(nil)
	_ LocationLister = (*HTTPClient)(nil)
)

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient sets the underlying transport client
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.http = c
	}
}

// WithTimeout sets the request timeout
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		h.http.Timeout = d
	}
}

// WithLocationsURL overrides the location endpoint, which may live on a
// different host than the trip endpoints
func WithLocationsURL(u *url.URL) Option {
	return func(h *HTTPClient) {
		h.locationsURL = u
	}
}

// 🏭 NewHTTPClient creates a client for the trip backend at baseURL
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Errorf("parsing base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}

	h := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.locationsURL == nil {
		h.locationsURL = u.JoinPath(pathLocations)
	}
	return h, nil
}

func (h *HTTPClient) StartTrip(ctx context.Context, username string) (StartResponse, error) {
	body, err := h.post(ctx, pathStartTrip, username)
	if err != nil {
		return StartResponse{}, err
	}

	var resp StartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// some deployments answer with a plain-text confirmation
		zerolog.Ctx(ctx).Debug().Str("body", string(body)).Msg("start_trip returned a non-JSON body")
		return StartResponse{}, nil
	}
	return resp, nil
}

func (h *HTTPClient) EndTrip(ctx context.Context, username string) error {
	_, err := h.post(ctx, pathEndTrip, username)
	return err
}

func (h *HTTPClient) GetTripState(ctx context.Context, username string) (TripState, error) {
	body, err := h.post(ctx, pathGetTripState, username)
	if err != nil {
		return TripState{}, err
	}

	var state TripState
	if err := json.Unmarshal(body, &state); err != nil {
		return TripState{}, errors.Errorf("decoding trip state: %w", err)
	}
	return state, nil
}

func (h *HTTPClient) ListLocations(ctx context.Context) ([]Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.locationsURL.String(), nil)
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}

	resp, body, err := h.do(ctx, req)
	if err != nil {
		return nil, err
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		return nil, errors.Errorf("expected JSON location data, got content type %q", resp.Header.Get("Content-Type"))
	}

	var locations []Location
	if err := json.Unmarshal(body, &locations); err != nil {
		return nil, errors.Errorf("expected an array of location data: %w", err)
	}
	return locations, nil
}

func (h *HTTPClient) post(ctx context.Context, path, username string) ([]byte, error) {
	payload, err := json.Marshal(usernameRequest{Username: username})
	if err != nil {
		return nil, errors.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL.JoinPath(path).String(), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	_, body, err := h.do(ctx, req)
	if err != nil {
		return nil, errors.Errorf("calling %s: %w", path, err)
	}
	return body, nil
}

func (h *HTTPClient) do(ctx context.Context, req *http.Request) (*http.Response, []byte, error) {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")

	logger := zerolog.Ctx(ctx).With().
		Str("method", req.Method).
		Str("url", req.URL.String()).
		Str("request_id", requestID).
		Logger()

	start := time.Now()
	resp, err := h.http.Do(req)
	if err != nil {
		logger.Debug().Err(err).Msg("request failed")
		return nil, nil, errors.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, errors.Errorf("reading response body: %w", err)
	}

	logger.Debug().
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request complete")

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp, body, nil
	case resp.StatusCode == http.StatusConflict:
		return nil, nil, errors.Errorf("%w: %s", ErrConflict, bytes.TrimSpace(body))
	default:
		return nil, nil, errors.Errorf("%w: %d %s", ErrUnexpectedStatus, resp.StatusCode, bytes.TrimSpace(body))
	}
}
