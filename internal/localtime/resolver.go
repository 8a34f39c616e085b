// Package localtime formats the current local time for the user and for the
// queried location, resolving the location's timezone from coordinates with
// an offline boundary lookup.
package localtime

import (
	"fmt"
	"time"

	"github.com/ringsaturn/tzf"

	"weathercheck/internal/models"
)

// TimeFormat is the single display format for both the user's and the
// location's time. Tests compare the two fields, so they must render
// identically: full weekday, full month, 12-hour clock, zone abbreviation
// and numeric UTC offset.
const TimeFormat = "Monday, January 02, 2006, 03:04 PM MST-0700"

// Messages shown in place of a time when resolution fails.
const (
	msgInvalidUserZone = "Could not determine your local time (invalid timezone)."
	msgNoCoordinates   = "Location coordinates not available."
	msgNoZoneForCoords = "Could not determine timezone for coordinates."
)

// Finder maps a coordinate to an IANA timezone identifier, or "" when the
// point falls outside every known boundary polygon. tzf's finder satisfies
// this; tests substitute a fixed mapping.
type Finder interface {
	GetTimezoneName(lng float64, lat float64) string
}

// Resolver computes display times. It never returns an error: every failure
// path yields a descriptive string in the corresponding TimeInfo field.
type Resolver struct {
	finder Finder
	now    func() time.Time
}

func NewResolver(finder Finder) *Resolver {
	return &Resolver{
		finder: finder,
		now:    time.Now,
	}
}

// NewDefaultResolver builds a resolver over tzf's bundled timezone boundary
// dataset. The dataset is decoded once; reuse the resolver for the process
// lifetime.
func NewDefaultResolver() (*Resolver, error) {
	finder, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize timezone finder: %w", err)
	}
	return NewResolver(finder), nil
}

// Resolve formats "now" in the user's zone and, when coordinates are present,
// in the location's zone. The result is recomputed fresh on every call.
func (r *Resolver) Resolve(userZone string, coords *models.Coordinates) models.TimeInfo {
	info := models.TimeInfo{}

	// An unknown user zone degrades to a message; downstream conversion then
	// works from a UTC reference instant instead of failing outright.
	reference := r.now().UTC()
	if loc, err := time.LoadLocation(userZone); err != nil {
		info.UserTime = msgInvalidUserZone
	} else {
		reference = r.now().In(loc)
		info.UserTime = reference.Format(TimeFormat)
	}

	if coords == nil {
		info.LocationTime = msgNoCoordinates
		return info
	}

	zone := r.finder.GetTimezoneName(coords.Lon, coords.Lat)
	if zone == "" {
		info.LocationTime = msgNoZoneForCoords
		return info
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		// The boundary data named a zone the tz database doesn't know.
		info.LocationTime = fmt.Sprintf("Unknown timezone: %s", zone)
		return info
	}

	info.LocationTime = reference.In(loc).Format(TimeFormat)
	info.LocationZone = zone
	return info
}
