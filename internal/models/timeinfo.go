package models

// TimeInfo carries the formatted local times shown in the sidebar. It is
// recomputed on every render and never cached.
//
// LocationTime always holds displayable text: a formatted time when the
// location's zone resolved, or a short explanation when it did not.
// LocationZone is the resolved IANA identifier, empty when unresolved.
type TimeInfo struct {
	UserTime     string `json:"user_time"`
	LocationTime string `json:"location_time"`
	LocationZone string `json:"location_zone,omitempty"`
}
