package model

import (
	"time"

	"github.com/hamidzr/recipemenu/constants"
)

// DefaultServiceURL is the public TheMealDB endpoint used when none is configured.
const DefaultServiceURL = "https://www.themealdb.com/api/json/v1/1"

// Config holds all configuration for the application.
type Config struct {
	// app settings
	Title        string `mapstructure:"title" yaml:"title"`
	Prompt       string `mapstructure:"prompt" yaml:"prompt"`
	InitialQuery string `mapstructure:"initial_query" yaml:"initial_query"`
	TerminalMode bool   `mapstructure:"terminal_mode" yaml:"terminal_mode"`
	LogLevel     string `mapstructure:"log_level" yaml:"log_level"`

	// search behavior
	ServiceURL        string  `mapstructure:"service_url" yaml:"service_url"`
	DebounceMs        int     `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	MinSuggestLength  int     `mapstructure:"min_suggest_length" yaml:"min_suggest_length"`
	MaxSuggestions    int     `mapstructure:"max_suggestions" yaml:"max_suggestions"`
	MaxRecentSearches int     `mapstructure:"max_recent_searches" yaml:"max_recent_searches"`
	RequestTimeoutMs  int     `mapstructure:"request_timeout_ms" yaml:"request_timeout_ms"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	ImageConcurrency  int     `mapstructure:"image_concurrency" yaml:"image_concurrency"`

	// local storage
	StorageBackend string `mapstructure:"storage_backend" yaml:"storage_backend"`
	StorageFormat  string `mapstructure:"storage_format" yaml:"storage_format"`
	StorageDir     string `mapstructure:"storage_dir" yaml:"storage_dir"`

	// window
	MinWidth  float32 `mapstructure:"min_width" yaml:"min_width"`
	MinHeight float32 `mapstructure:"min_height" yaml:"min_height"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() *Config {
	return &Config{
		Title:             constants.ProjectName,
		Prompt:            "Search recipes...",
		InitialQuery:      "",
		TerminalMode:      false,
		LogLevel:          "info",
		ServiceURL:        DefaultServiceURL,
		DebounceMs:        300,
		MinSuggestLength:  3,
		MaxSuggestions:    5,
		MaxRecentSearches: 5,
		RequestTimeoutMs:  10000,
		RequestsPerSecond: 0, // unlimited
		ImageConcurrency:  4,
		StorageBackend:    "file",
		StorageFormat:     "json",
		StorageDir:        "", // ~/.cache/recipemenu
		MinWidth:          720,
		MinHeight:         560,
	}
}

// DebounceDelay returns the debounce quiet period.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// RequestTimeout returns the per request timeout of the recipe client.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}
