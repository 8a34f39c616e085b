package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weathercheck/internal/models"
	"weathercheck/internal/weather"
)

// ============================================================================
// Fakes
// ============================================================================

type fakeFetcher struct {
	snapshot    *models.WeatherSnapshot
	currentErr  error
	entries     []weather.ForecastEntry
	forecastErr error

	currentCalls  int
	forecastCalls int
	lastCity      string
}

func (f *fakeFetcher) Current(_ context.Context, city string) (*models.WeatherSnapshot, error) {
	f.currentCalls++
	f.lastCity = city
	if f.currentErr != nil {
		return nil, f.currentErr
	}
	return f.snapshot, nil
}

func (f *fakeFetcher) Forecast(_ context.Context, city string) ([]weather.ForecastEntry, error) {
	f.forecastCalls++
	f.lastCity = city
	if f.forecastErr != nil {
		return nil, f.forecastErr
	}
	return f.entries, nil
}

type fakeAdvisor struct {
	answer       string
	lastQuestion string
	lastSnapshot *models.WeatherSnapshot
}

func (f *fakeAdvisor) Advice(_ context.Context, snap *models.WeatherSnapshot, question string) string {
	f.lastSnapshot = snap
	f.lastQuestion = question
	return f.answer
}

type fakeResolver struct {
	lastCoords *models.Coordinates
}

func (f *fakeResolver) Resolve(_ string, coords *models.Coordinates) models.TimeInfo {
	f.lastCoords = coords
	info := models.TimeInfo{UserTime: "user-time-here"}
	if coords == nil {
		info.LocationTime = "Location coordinates not available."
		return info
	}
	info.LocationTime = "location-time-here"
	info.LocationZone = "Test/Zone"
	return info
}

type fakeStore struct {
	city  string
	saves int
}

func (f *fakeStore) Load() string { return f.city }
func (f *fakeStore) Save(city string) {
	f.city = city
	f.saves++
}

func londonSnapshot() *models.WeatherSnapshot {
	return &models.WeatherSnapshot{
		City:        "London",
		Country:     "GB",
		Temperature: 18.5,
		FeelsLike:   17.2,
		Humidity:    72,
		Description: "light rain",
		Icon:        "10d",
		WindSpeed:   4.1,
		Coords:      &models.Coordinates{Lat: 51.5, Lon: -0.12},
	}
}

type fixture struct {
	server   *Server
	fetcher  *fakeFetcher
	advisor  *fakeAdvisor
	resolver *fakeResolver
	store    *fakeStore
}

func newFixture() *fixture {
	f := &fixture{
		fetcher:  &fakeFetcher{snapshot: londonSnapshot()},
		advisor:  &fakeAdvisor{answer: "Take an umbrella."},
		resolver: &fakeResolver{},
		store:    &fakeStore{},
	}
	f.server = NewServer(f.fetcher, f.advisor, f.resolver, f.store, "UTC", nil)
	return f
}

func (f *fixture) get(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec
}

func (f *fixture) post(t *testing.T, path string, form url.Values) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

// ============================================================================
// Tests
// ============================================================================

func TestIndexBeforeAnyQuery(t *testing.T) {
	f := newFixture()
	body := f.get(t).Body.String()

	assert.Contains(t, body, "user-time-here")
	assert.Contains(t, body, "Location coordinates not available.")
	assert.NotContains(t, body, "Current Weather")
	assert.Nil(t, f.resolver.lastCoords)
}

func TestIndexSeedsInputWithDefaultCity(t *testing.T) {
	f := &fixture{
		fetcher:  &fakeFetcher{snapshot: londonSnapshot()},
		advisor:  &fakeAdvisor{},
		resolver: &fakeResolver{},
		store:    &fakeStore{city: "Tokyo"},
	}
	f.server = NewServer(f.fetcher, f.advisor, f.resolver, f.store, "UTC", nil)

	body := f.get(t).Body.String()
	assert.Contains(t, body, `value="Tokyo"`)
}

func TestFetchWeatherSuccess(t *testing.T) {
	f := newFixture()
	f.post(t, "/weather", url.Values{"city": {"London"}})

	assert.Equal(t, 1, f.fetcher.currentCalls)
	assert.Equal(t, "London", f.fetcher.lastCity)

	body := f.get(t).Body.String()
	assert.Contains(t, body, "Current Weather in London, GB")
	assert.Contains(t, body, "18.5")
	assert.Contains(t, body, "72%")
	assert.Contains(t, body, "Light rain") // capitalized for display
	assert.Contains(t, body, "location-time-here")
	assert.Contains(t, body, "(Timezone: Test/Zone)")

	// Render passes the snapshot's coordinates to the resolver.
	require.NotNil(t, f.resolver.lastCoords)
	assert.InDelta(t, 51.5, f.resolver.lastCoords.Lat, 1e-9)
}

func TestFetchWeatherFailureClearsState(t *testing.T) {
	f := newFixture()
	f.post(t, "/weather", url.Values{"city": {"London"}})

	f.fetcher.currentErr = errors.New("city not found")
	f.post(t, "/weather", url.Values{"city": {"Atlantis"}})

	body := f.get(t).Body.String()
	assert.Contains(t, body, "Could not fetch weather for &#39;Atlantis&#39;")
	// Stale snapshot is gone: weather for a different city than the one just
	// searched would mislead the user.
	assert.NotContains(t, body, "Current Weather in London")
	assert.Nil(t, f.resolver.lastCoords)
}

func TestFetchWeatherEmptyCity(t *testing.T) {
	f := newFixture()
	f.post(t, "/weather", url.Values{"city": {"   "}})

	assert.Equal(t, 0, f.fetcher.currentCalls)
	assert.Contains(t, f.get(t).Body.String(), "Please enter a city name.")
}

func TestForecastToggle(t *testing.T) {
	f := newFixture()
	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	f.fetcher.entries = []weather.ForecastEntry{
		{Time: day, Temp: 10, Humidity: 60, Description: "rain", Icon: "10d"},
		{Time: day.Add(3 * time.Hour), Temp: 14, Humidity: 50, Description: "rain", Icon: "10d"},
	}

	f.post(t, "/weather", url.Values{"city": {"London"}})
	f.post(t, "/forecast", url.Values{"show": {"1"}})

	assert.Equal(t, 1, f.fetcher.forecastCalls)
	body := f.get(t).Body.String()
	assert.Contains(t, body, "5-Day Weather Forecast")
	assert.Contains(t, body, "12.0") // mean of 10 and 14
	assert.Contains(t, body, "Rain")

	// Hiding drops the panel without another fetch.
	f.post(t, "/forecast", url.Values{"show": {"0"}})
	assert.Equal(t, 1, f.fetcher.forecastCalls)
	assert.NotContains(t, f.get(t).Body.String(), "5-Day Weather Forecast")
}

func TestForecastRequiresSnapshot(t *testing.T) {
	f := newFixture()
	f.post(t, "/forecast", url.Values{"show": {"1"}})

	assert.Equal(t, 0, f.fetcher.forecastCalls)
	assert.Contains(t, f.get(t).Body.String(), "Fetch a city&#39;s weather before enabling the forecast.")
}

func TestForecastRefreshedOnNewFetchWhenEnabled(t *testing.T) {
	f := newFixture()
	f.fetcher.entries = []weather.ForecastEntry{
		{Time: time.Now(), Temp: 10, Humidity: 60, Description: "rain", Icon: "10d"},
	}

	f.post(t, "/weather", url.Values{"city": {"London"}})
	f.post(t, "/forecast", url.Values{"show": {"1"}})
	f.post(t, "/weather", url.Values{"city": {"London"}})

	assert.Equal(t, 2, f.fetcher.forecastCalls)
}

func TestSetDefaultCity(t *testing.T) {
	f := newFixture()
	f.post(t, "/weather", url.Values{"city": {"London"}})
	f.post(t, "/default", url.Values{})

	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, "London", f.store.city)

	body := f.get(t).Body.String()
	assert.Contains(t, body, "has been set as your default city")
}

func TestSetDefaultRequiresSnapshot(t *testing.T) {
	f := newFixture()
	f.post(t, "/default", url.Values{})

	assert.Equal(t, 0, f.store.saves)
}

func TestAskAdvice(t *testing.T) {
	f := newFixture()
	f.post(t, "/weather", url.Values{"city": {"London"}})
	f.post(t, "/ask", url.Values{"question": {"Umbrella?"}})

	assert.Equal(t, "Umbrella?", f.advisor.lastQuestion)
	require.NotNil(t, f.advisor.lastSnapshot)
	assert.Equal(t, "London", f.advisor.lastSnapshot.City)

	assert.Contains(t, f.get(t).Body.String(), "Take an umbrella.")
}

func TestAskAdviceRequiresSnapshot(t *testing.T) {
	f := newFixture()
	f.post(t, "/ask", url.Values{"question": {"Umbrella?"}})

	assert.Contains(t, f.get(t).Body.String(), "Fetch a city&#39;s weather before asking for advice.")
}

func TestAskAdviceEmptyQuestion(t *testing.T) {
	f := newFixture()
	f.post(t, "/weather", url.Values{"city": {"London"}})
	f.post(t, "/ask", url.Values{"question": {""}})

	assert.Empty(t, f.advisor.lastQuestion)
	assert.Contains(t, f.get(t).Body.String(), "Please enter a question")
}
