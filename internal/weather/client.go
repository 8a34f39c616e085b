// Package weather fetches current conditions and the 5-day/3-hour forecast
// from OpenWeatherMap and normalizes them for display.
package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"weathercheck/internal/models"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"

	// Provider values used when the response's weather array is empty.
	defaultDescription = "N/A"
	defaultIcon        = "01d"
)

// Client talks to the OpenWeatherMap REST API. One network request per call,
// no retries: a transient failure surfaces immediately and the user retries.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a stub server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statusCode is the provider's embedded "cod" field. The API is inconsistent
// about its type: the current-conditions endpoint returns an integer, the
// forecast endpoint a string, and error bodies use either. Both forms decode
// into the normalized string.
type statusCode string

func (s *statusCode) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = statusCode(str)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = statusCode(fmt.Sprintf("%d", n))
	return nil
}

func (s statusCode) ok() bool {
	return s == "200" || s == "201"
}

// Current fetches current conditions for a city and maps them into a
// WeatherSnapshot. Coordinates are set only when the provider returned both
// latitude and longitude.
func (c *Client) Current(ctx context.Context, city string) (*models.WeatherSnapshot, error) {
	body, err := c.get(ctx, "weather", city)
	if err != nil {
		return nil, err
	}

	var response struct {
		Cod   statusCode `json:"cod"`
		Msg   string     `json:"message"`
		Name  string     `json:"name"`
		Coord struct {
			Lat *float64 `json:"lat"`
			Lon *float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Sys struct {
			Country string `json:"country"`
		} `json:"sys"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if !response.Cod.ok() {
		return nil, fmt.Errorf("weather API error (code %s): %s", response.Cod, providerMessage(response.Msg))
	}

	description := defaultDescription
	icon := defaultIcon
	if len(response.Weather) > 0 {
		description = response.Weather[0].Description
		icon = response.Weather[0].Icon
	}

	snapshot := &models.WeatherSnapshot{
		City:        response.Name,
		Country:     response.Sys.Country,
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		Humidity:    response.Main.Humidity,
		Description: description,
		Icon:        icon,
		WindSpeed:   response.Wind.Speed,
	}
	if response.Coord.Lat != nil && response.Coord.Lon != nil {
		snapshot.Coords = &models.Coordinates{
			Lat: *response.Coord.Lat,
			Lon: *response.Coord.Lon,
		}
	}
	return snapshot, nil
}

// ForecastEntry is one raw 3-hour step from the forecast endpoint.
type ForecastEntry struct {
	Time        time.Time
	Temp        float64
	Humidity    int
	Description string
	Icon        string
}

// Forecast fetches the 5-day/3-hour forecast for a city and returns its raw
// entries in provider order. Aggregation into daily buckets is done by
// AggregateDaily.
func (c *Client) Forecast(ctx context.Context, city string) ([]ForecastEntry, error) {
	body, err := c.get(ctx, "forecast", city)
	if err != nil {
		return nil, err
	}

	var response struct {
		Cod  statusCode `json:"cod"`
		Msg  string     `json:"message"`
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
			} `json:"main"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
		} `json:"list"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse forecast response: %w", err)
	}
	if !response.Cod.ok() {
		return nil, fmt.Errorf("forecast API error (code %s): %s", response.Cod, providerMessage(response.Msg))
	}

	entries := make([]ForecastEntry, 0, len(response.List))
	for _, item := range response.List {
		entry := ForecastEntry{
			Time:        time.Unix(item.Dt, 0),
			Temp:        item.Main.Temp,
			Humidity:    item.Main.Humidity,
			Description: defaultDescription,
			Icon:        defaultIcon,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// get issues one GET to the named endpoint with the standard query parameters
// and returns the raw body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, city string) ([]byte, error) {
	params := url.Values{}
	params.Add("q", city)
	params.Add("appid", c.apiKey)
	params.Add("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies still carry a message; surface it when parseable.
		var apiErr struct {
			Msg string `json:"message"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Msg != "" {
			return nil, fmt.Errorf("weather API error (status %d): %s", resp.StatusCode, apiErr.Msg)
		}
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}
	return body, nil
}

func providerMessage(msg string) string {
	if msg == "" {
		return "unknown error"
	}
	return msg
}
