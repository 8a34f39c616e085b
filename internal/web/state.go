package web

import (
	"sync"

	"weathercheck/internal/models"
)

// State is the session-scoped dashboard state. The app serves one user, but
// the HTTP server is concurrent, so mutations go through the mutex.
type State struct {
	mu sync.Mutex

	snapshot     *models.WeatherSnapshot
	lastCity     string
	coords       *models.Coordinates
	defaultCity  string
	question     string
	advice       string
	showForecast bool
	forecast     []models.ForecastBucket
	errorMsg     string
	notice       string
}

// NewState seeds the session with the persisted default city.
func NewState(defaultCity string) *State {
	return &State{defaultCity: defaultCity}
}

// SetWeather replaces the snapshot and coordinates after a successful fetch
// and clears any stale error.
func (s *State) SetWeather(snap *models.WeatherSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = snap
	s.lastCity = snap.City
	s.coords = snap.Coords
	s.errorMsg = ""
	s.notice = ""
}

// ClearWeather drops the weather-related state after a failed fetch. Showing
// the previous city's weather under a new search would mislead the user.
func (s *State) ClearWeather(errorMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.lastCity = ""
	s.coords = nil
	s.forecast = nil
	s.errorMsg = errorMsg
	s.notice = ""
}

func (s *State) SetForecast(show bool, buckets []models.ForecastBucket) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showForecast = show
	s.forecast = buckets
}

func (s *State) SetAdvice(question, advice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.question = question
	s.advice = advice
}

func (s *State) SetDefaultCity(city string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultCity = city
}

func (s *State) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errorMsg = msg
}

func (s *State) SetNotice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
	s.errorMsg = ""
}

// view is an immutable copy of the state for rendering.
type view struct {
	Snapshot     *models.WeatherSnapshot
	LastCity     string
	Coords       *models.Coordinates
	DefaultCity  string
	Question     string
	Advice       string
	ShowForecast bool
	Forecast     []models.ForecastBucket
	Error        string
	Notice       string
}

func (s *State) view() view {
	s.mu.Lock()
	defer s.mu.Unlock()
	return view{
		Snapshot:     s.snapshot,
		LastCity:     s.lastCity,
		Coords:       s.coords,
		DefaultCity:  s.defaultCity,
		Question:     s.question,
		Advice:       s.advice,
		ShowForecast: s.showForecast,
		Forecast:     s.forecast,
		Error:        s.errorMsg,
		Notice:       s.notice,
	}
}

// Snapshot returns the current snapshot, or nil when no city is loaded.
func (s *State) Snapshot() *models.WeatherSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Coords returns the last queried coordinates, or nil.
func (s *State) Coords() *models.Coordinates {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coords
}

// ShowForecast reports whether the forecast panel is enabled.
func (s *State) ShowForecast() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.showForecast
}
