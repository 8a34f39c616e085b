// Package web serves the interactive dashboard: one HTML page over the
// session state, with form posts driving the weather, forecast, settings,
// and advice actions.
package web

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"weathercheck/internal/models"
	"weathercheck/internal/weather"
)

//go:embed templates/index.html
var templateFS embed.FS

// Advisor produces display-ready advice text; it never fails.
type Advisor interface {
	Advice(ctx context.Context, snap *models.WeatherSnapshot, question string) string
}

// TimeResolver produces the sidebar time strings; it never fails.
type TimeResolver interface {
	Resolve(userZone string, coords *models.Coordinates) models.TimeInfo
}

// SettingsStore persists the default city.
type SettingsStore interface {
	Load() string
	Save(city string)
}

// Server wires user actions to the weather, advice, time, and settings
// collaborators and re-renders the page after every action.
type Server struct {
	state    *State
	fetcher  weather.Fetcher
	advisor  Advisor
	resolver TimeResolver
	store    SettingsStore
	userZone string
	logger   *slog.Logger
	router   chi.Router
	tmpl     *template.Template
}

func NewServer(fetcher weather.Fetcher, advisor Advisor, resolver TimeResolver, store SettingsStore, userZone string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl := template.Must(template.New("index.html").
		Funcs(template.FuncMap{"capitalize": capitalize}).
		ParseFS(templateFS, "templates/index.html"))

	s := &Server{
		state:    NewState(store.Load()),
		fetcher:  fetcher,
		advisor:  advisor,
		resolver: resolver,
		store:    store,
		userZone: userZone,
		logger:   logger,
		tmpl:     tmpl,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleIndex)
	r.Post("/weather", s.handleWeather)
	r.Post("/forecast", s.handleForecast)
	r.Post("/default", s.handleDefault)
	r.Post("/ask", s.handleAsk)
	s.router = r

	return s
}

func (s *Server) Router() http.Handler { return s.router }

// page is the template input: the state view plus the freshly resolved times.
type page struct {
	view
	Time      models.TimeInfo
	CityInput string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v := s.state.view()

	// Sidebar time is recomputed on every render from the current
	// coordinates; it is never cached.
	p := page{
		view: v,
		Time: s.resolver.Resolve(s.userZone, v.Coords),
	}
	p.CityInput = v.LastCity
	if p.CityInput == "" {
		p.CityInput = v.DefaultCity
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, p); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	city := strings.TrimSpace(r.FormValue("city"))
	if city == "" {
		s.state.SetError("Please enter a city name.")
		s.redirect(w, r)
		return
	}

	snap, err := s.fetcher.Current(r.Context(), city)
	if err != nil {
		s.logger.Warn("weather fetch failed", "city", city, "error", err)
		s.state.ClearWeather("Could not fetch weather for '" + city + "': " + err.Error())
		s.redirect(w, r)
		return
	}

	s.state.SetWeather(snap)
	if s.state.ShowForecast() {
		s.refreshForecast(r.Context(), city)
	}
	s.redirect(w, r)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	show := r.FormValue("show") == "1"
	if !show {
		s.state.SetForecast(false, nil)
		s.redirect(w, r)
		return
	}

	snap := s.state.Snapshot()
	if snap == nil {
		s.state.SetError("Fetch a city's weather before enabling the forecast.")
		s.redirect(w, r)
		return
	}

	s.state.SetForecast(true, nil)
	s.refreshForecast(r.Context(), snap.City)
	s.redirect(w, r)
}

func (s *Server) refreshForecast(ctx context.Context, city string) {
	entries, err := s.fetcher.Forecast(ctx, city)
	if err != nil {
		s.logger.Warn("forecast fetch failed", "city", city, "error", err)
		s.state.SetError("Could not fetch the forecast: " + err.Error())
		return
	}
	s.state.SetForecast(true, weather.AggregateDaily(entries, nil))
}

func (s *Server) handleDefault(w http.ResponseWriter, r *http.Request) {
	snap := s.state.Snapshot()
	if snap == nil {
		s.state.SetError("Fetch a city's weather before setting a default.")
		s.redirect(w, r)
		return
	}

	s.store.Save(snap.City)
	s.state.SetDefaultCity(snap.City)
	s.state.SetNotice("'" + snap.City + "' has been set as your default city.")
	s.redirect(w, r)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		s.state.SetError("Please enter a question for the assistant.")
		s.redirect(w, r)
		return
	}

	snap := s.state.Snapshot()
	if snap == nil {
		s.state.SetError("Fetch a city's weather before asking for advice.")
		s.redirect(w, r)
		return
	}

	answer := s.advisor.Advice(r.Context(), snap, question)
	s.state.SetAdvice(question, answer)
	s.redirect(w, r)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// capitalize upper-cases the first rune, matching how provider descriptions
// ("light rain") are displayed.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
