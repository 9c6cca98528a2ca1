package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hamidzr/recipemenu/model"
	pkgconfig "github.com/hamidzr/recipemenu/pkg/config"
	"github.com/hamidzr/recipemenu/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

func getConfigPaths() []string {
	return pkgconfig.ConfigPaths()
}

func getPreferredConfigDir() (string, error) {
	return pkgconfig.PreferredConfigDir()
}

// InitConfig initializes Viper configuration with proper priority:
// 1. CLI flags (highest priority)
// 2. Environment variables
// 3. Config file
// 4. Defaults (lowest priority)
func InitConfig(cmd *cobra.Command) (*model.Config, error) {
	v := viper.New()

	// only config.yaml is read as config
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, path := range getConfigPaths() {
		v.AddConfigPath(path)
	}

	SetViperEnvSettings(v)
	SetViperDefaults(v)
	registerConfigKeyAliases(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	if err := validateConfigFileKeys(v.ConfigFileUsed()); err != nil {
		return nil, err
	}

	if err := bindFlagKeys(v, cmd); err != nil {
		return nil, fmt.Errorf("error binding flags: %w", err)
	}

	var config model.Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects values no component can work with.
func Validate(cfg *model.Config) error {
	switch cfg.StorageBackend {
	case store.BackendFile, store.BackendSQLite, store.BackendMemory:
	default:
		return fmt.Errorf("invalid storage backend %q (want file, sqlite or memory)", cfg.StorageBackend)
	}
	switch cfg.StorageFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid storage format %q (want json or yaml)", cfg.StorageFormat)
	}
	if cfg.ServiceURL == "" {
		return fmt.Errorf("service_url must not be empty")
	}
	if cfg.MaxRecentSearches <= 0 {
		return fmt.Errorf("max_recent_searches must be positive, got %d", cfg.MaxRecentSearches)
	}
	if cfg.RequestTimeoutMs <= 0 {
		return fmt.Errorf("request_timeout_ms must be positive, got %d", cfg.RequestTimeoutMs)
	}
	if cfg.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must not be negative, got %v", cfg.RequestsPerSecond)
	}
	return nil
}

// InitConfigFile generates and saves a default config file to the appropriate location
func InitConfigFile() (string, error) {
	configDir, err := getPreferredConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	configPath := filepath.Join(configDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists at %s", configPath)
	}

	yamlData, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	header := `# recipemenu configuration file
# Generated automatically - customize as needed
#
# storage_backend: file, sqlite or memory
# storage_format: json or yaml (file backend only)
# requests_per_second: 0 disables client side rate limiting
#

`

	if err := os.WriteFile(configPath, []byte(header+string(yamlData)), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file %s: %w", configPath, err)
	}

	return configPath, nil
}
