// Package config loads dashboard configuration from an optional YAML file
// overlaid with environment variables (a .env file is honored via godotenv).
// Environment values win over empty YAML fields.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Weather  WeatherConfig  `yaml:"weather"`
	AI       AIConfig       `yaml:"ai"`
	Server   ServerConfig   `yaml:"server"`
	Settings SettingsConfig `yaml:"settings"`
}

type WeatherConfig struct {
	APIKey string `yaml:"api_key" env:"OPENWEATHERMAP_API_KEY"`
	// Courtesy throttle for outbound provider calls.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

type AIConfig struct {
	GeminiAPIKey string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model        string `yaml:"model"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"PORT"`
}

type SettingsConfig struct {
	File string `yaml:"file"`
}

// Load reads .env, the optional CONFIG_FILE YAML, and the environment.
// A missing weather API key is fatal: the dashboard cannot do anything
// without it. A missing Gemini key only degrades the advice feature, so it
// is not validated here.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config

	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
		}
	}

	if cfg.Weather.APIKey == "" {
		cfg.Weather.APIKey = os.Getenv("OPENWEATHERMAP_API_KEY")
	}
	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = os.Getenv("PORT")
	}

	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Weather.RequestsPerSecond <= 0 {
		cfg.Weather.RequestsPerSecond = 1
	}
	if cfg.Weather.Burst <= 0 {
		cfg.Weather.Burst = 5
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Weather.APIKey == "" {
		return fmt.Errorf("weather API key is required (set OPENWEATHERMAP_API_KEY or weather.api_key)")
	}
	return nil
}

// AdviceEnabled reports whether the Gemini-backed advice feature can be
// turned on.
func (c *Config) AdviceEnabled() bool {
	return c.AI.GeminiAPIKey != ""
}
