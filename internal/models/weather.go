package models

import "time"

// Coordinates is a geographic point as reported by the weather provider.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WeatherSnapshot represents current conditions for one city at one point in
// time, normalized from the provider response. Coords is nil when the provider
// did not return both latitude and longitude; downstream time resolution
// treats that as "location time unavailable".
type WeatherSnapshot struct {
	City        string       `json:"city"`
	Country     string       `json:"country"`
	Temperature float64      `json:"temperature"` // Celsius
	FeelsLike   float64      `json:"feels_like"`  // Celsius
	Humidity    int          `json:"humidity"`    // percent
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	WindSpeed   float64      `json:"wind_speed"` // m/s
	Coords      *Coordinates `json:"coords,omitempty"`
}

// ForecastBucket aggregates one calendar day of 3-hour forecast entries.
// Buckets are rebuilt wholesale on every fetch and never mutated in place.
type ForecastBucket struct {
	Date        time.Time `json:"date"`
	AvgTemp     float64   `json:"avg_temp"`     // Celsius, arithmetic mean
	AvgHumidity float64   `json:"avg_humidity"` // percent, arithmetic mean
	Description string    `json:"description"`  // most frequent for the day
	Icon        string    `json:"icon"`         // most frequent for the day
}
