// Package tripapitest provides an in-process trip backend for tests.
package tripapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/walteh/triplog/pkg/tripapi"
)

// Trip is the server-side record for one user
type Trip struct {
	Started   bool
	StartTime time.Time
	ID        string
}

// Server is a fake trip backend with start/end/state semantics matching the
// real one: 409 when starting an active trip or ending an inactive one.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	trips     map[string]Trip
	locations []tripapi.Location
	forced    map[string]int
	hits      map[string]int
	nextID    int
	now       func() time.Time
	omitID    bool
}

// NewServer starts a fake backend. Call Close when done.
func NewServer() *Server {
	s := &Server{
		trips:  make(map[string]Trip),
		forced: make(map[string]int),
		hits:   make(map[string]int),
		now:    time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/start_trip", s.handleStart)
	r.Post("/end_trip", s.handleEnd)
	r.Post("/get_trip_state", s.handleState)
	r.Get("/user-data", s.handleLocations)

	s.Server = httptest.NewServer(r)
	return s
}

// SetNow overrides the server clock
func (s *Server) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// OmitTripID makes start_trip and get_trip_state leave tripId out of the body
func (s *Server) OmitTripID(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitID = omit
}

// SetTrip replaces the record for username
func (s *Server) SetTrip(username string, t Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips[username] = t
}

// Trip returns the record for username
func (s *Server) Trip(username string) (Trip, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[username]
	return t, ok
}

// SetLocations replaces the location list
func (s *Server) SetLocations(locs []tripapi.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = locs
}

// ForceStatus makes every request to path answer with status until cleared
// with a zero status
func (s *Server) ForceStatus(path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.forced, path)
		return
	}
	s.forced[path] = status
}

// Hits returns how many requests reached path
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) begin(w http.ResponseWriter, r *http.Request) (string, bool) {
	s.hits[r.URL.Path]++

	if status, ok := s.forced[r.URL.Path]; ok {
		http.Error(w, http.StatusText(status), status)
		return "", false
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Failed to parse request body: "+err.Error(), http.StatusBadRequest)
		return "", false
	}
	if body.Username == "" {
		http.Error(w, "Username is missing in request body", http.StatusBadRequest)
		return "", false
	}
	return body.Username, true
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.begin(w, r)
	if !ok {
		return
	}

	if t := s.trips[username]; t.Started {
		http.Error(w, "Trip is already started", http.StatusConflict)
		return
	}

	s.nextID++
	t := Trip{Started: true, StartTime: s.now(), ID: "t" + strconv.Itoa(s.nextID)}
	s.trips[username] = t

	resp := tripapi.StartResponse{}
	if !s.omitID {
		resp.TripID = t.ID
	}
	writeJSON(w, resp)
}

func (s *Server) handleEnd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.begin(w, r)
	if !ok {
		return
	}

	t, exists := s.trips[username]
	if !exists || !t.Started {
		http.Error(w, "No trip in progress", http.StatusConflict)
		return
	}

	t.Started = false
	s.trips[username] = t
	writeJSON(w, struct{}{})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	username, ok := s.begin(w, r)
	if !ok {
		return
	}

	t, exists := s.trips[username]
	if !exists {
		http.Error(w, "No trip data found", http.StatusNotFound)
		return
	}

	state := tripapi.TripState{TripStarted: t.Started}
	if t.Started {
		start := t.StartTime
		state.TripStartTime = &start
		state.ElapsedTime = s.now().Sub(start).Milliseconds()
		if !s.omitID {
			state.TripID = t.ID
		}
	}
	writeJSON(w, state)
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hits[r.URL.Path]++
	if status, ok := s.forced[r.URL.Path]; ok {
		http.Error(w, http.StatusText(status), status)
		return
	}

	locs := s.locations
	if locs == nil {
		locs = []tripapi.Location{}
	}
	writeJSON(w, locs)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
