// Package settings persists the user's default city as a one-key JSON file.
// Losing this convenience value must never break the interactive flow, so
// every failure here degrades to absence or a logged warning.
package settings

import (
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
)

// DefaultFile is the settings path used when none is configured.
const DefaultFile = "default_settings.json"

type fileContents struct {
	DefaultCity string `json:"default_city"`
}

// Store reads and writes the default-city setting. Writes replace the file
// wholesale; there is no merging and no locking (single process, rare writes).
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = DefaultFile
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, logger: logger}
}

// Load returns the saved default city, or "" when the file does not exist or
// cannot be parsed. A missing file is the normal first-run state and is not
// logged; a corrupt file gets a warning.
func (s *Store) Load() string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read settings file", "path", s.path, "error", err)
		}
		return ""
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		s.logger.Warn("could not parse settings file", "path", s.path, "error", err)
		return ""
	}
	return contents.DefaultCity
}

// Save overwrites the settings file with the given city. I/O failures are
// logged and swallowed.
func (s *Store) Save(city string) {
	data, err := json.MarshalIndent(fileContents{DefaultCity: city}, "", "  ")
	if err != nil {
		s.logger.Warn("could not encode settings", "error", err)
		return
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.logger.Warn("could not write settings file", "path", s.path, "error", err)
		return
	}
	s.logger.Info("default city saved", "city", city, "path", s.path)
}
