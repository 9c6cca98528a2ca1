package config

import (
	"strings"

	"github.com/hamidzr/recipemenu/constants"
	"github.com/hamidzr/recipemenu/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps CLI flag names to config keys where they differ.
var flagKeys = map[string]string{
	"initial-query":      "initial_query",
	"terminal":           "terminal_mode",
	"log-level":          "log_level",
	"service-url":        "service_url",
	"debounce-ms":        "debounce_ms",
	"min-suggest-length": "min_suggest_length",
	"max-suggestions":    "max_suggestions",
	"max-recent":         "max_recent_searches",
	"timeout-ms":         "request_timeout_ms",
	"rps":                "requests_per_second",
	"image-concurrency":  "image_concurrency",
	"storage":            "storage_backend",
	"storage-format":     "storage_format",
	"storage-dir":        "storage_dir",
	"min-width":          "min_width",
	"min-height":         "min_height",
}

// BindFlags binds CLI flags to the cobra command
func BindFlags(cmd *cobra.Command) {
	defaults := model.DefaultConfig()

	cmd.PersistentFlags().StringP("title", "t", defaults.Title, "Title of the window")
	cmd.PersistentFlags().StringP("initial-query", "q", defaults.InitialQuery, "Initial query to search for")
	cmd.PersistentFlags().StringP("prompt", "p", defaults.Prompt, "Placeholder of the search box")
	cmd.PersistentFlags().Bool("terminal", defaults.TerminalMode, "Run in terminal-only mode without GUI")
	cmd.PersistentFlags().String("log-level", defaults.LogLevel, "Log level (trace, debug, info, warn, error)")
	cmd.PersistentFlags().String("service-url", defaults.ServiceURL, "Base URL of the recipe service")
	cmd.PersistentFlags().Int("debounce-ms", defaults.DebounceMs, "Quiet period before a keystroke is handled")
	cmd.PersistentFlags().Int("min-suggest-length", defaults.MinSuggestLength, "Minimum query length for suggestions")
	cmd.PersistentFlags().Int("max-suggestions", defaults.MaxSuggestions, "Maximum number of suggestions shown")
	cmd.PersistentFlags().Int("max-recent", defaults.MaxRecentSearches, "Number of recent searches kept")
	cmd.PersistentFlags().Int("timeout-ms", defaults.RequestTimeoutMs, "Request timeout in milliseconds")
	cmd.PersistentFlags().Float64("rps", defaults.RequestsPerSecond, "Outbound request rate limit (0 disables)")
	cmd.PersistentFlags().Int("image-concurrency", defaults.ImageConcurrency, "Concurrent thumbnail downloads")
	cmd.PersistentFlags().String("storage", defaults.StorageBackend, "Storage backend (file, sqlite, memory)")
	cmd.PersistentFlags().String("storage-format", defaults.StorageFormat, "File storage format (json, yaml)")
	cmd.PersistentFlags().String("storage-dir", defaults.StorageDir, "Storage directory (defaults to the user cache dir)")
	cmd.PersistentFlags().Float32("min-width", defaults.MinWidth, "Minimum window width")
	cmd.PersistentFlags().Float32("min-height", defaults.MinHeight, "Minimum window height")
	cmd.PersistentFlags().Bool("init-config", false, "Generate and save default config file")
}

// bindFlagKeys binds every flag to its config key. Only flags the user set
// override lower priority sources.
func bindFlagKeys(v *viper.Viper, cmd *cobra.Command) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			key = f.Name
		}
		bindErr = v.BindPFlag(key, f)
	})
	return bindErr
}

// SetViperDefaults sets default values in viper configuration
func SetViperDefaults(v *viper.Viper) {
	defaults := model.DefaultConfig()
	v.SetDefault("title", defaults.Title)
	v.SetDefault("prompt", defaults.Prompt)
	v.SetDefault("initial_query", defaults.InitialQuery)
	v.SetDefault("terminal_mode", defaults.TerminalMode)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("service_url", defaults.ServiceURL)
	v.SetDefault("debounce_ms", defaults.DebounceMs)
	v.SetDefault("min_suggest_length", defaults.MinSuggestLength)
	v.SetDefault("max_suggestions", defaults.MaxSuggestions)
	v.SetDefault("max_recent_searches", defaults.MaxRecentSearches)
	v.SetDefault("request_timeout_ms", defaults.RequestTimeoutMs)
	v.SetDefault("requests_per_second", defaults.RequestsPerSecond)
	v.SetDefault("image_concurrency", defaults.ImageConcurrency)
	v.SetDefault("storage_backend", defaults.StorageBackend)
	v.SetDefault("storage_format", defaults.StorageFormat)
	v.SetDefault("storage_dir", defaults.StorageDir)
	v.SetDefault("min_width", defaults.MinWidth)
	v.SetDefault("min_height", defaults.MinHeight)
}

// SetViperEnvSettings configures viper environment variable settings
func SetViperEnvSettings(v *viper.Viper) {
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}
