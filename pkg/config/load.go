package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hamidzr/recipemenu/constants"
	"github.com/hamidzr/recipemenu/model"
	"gopkg.in/yaml.v2"
)

// canonicalKeys maps every normalized key variant to its snake_case name,
// derived from the yaml tags of model.Config.
var canonicalKeys = func() map[string]string {
	keys := map[string]string{}
	t := reflect.TypeOf(model.Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		keys[normalizeKeyVariant(tag)] = tag
	}
	return keys
}()

// ConfigPaths returns the config directory paths in priority order.
// Prefers ~/.config over the macos application support dir.
func ConfigPaths() []string {
	var paths []string

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".config", constants.ProjectName))
		paths = append(paths, filepath.Join(homeDir, "."+constants.ProjectName))
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, constants.ProjectName))
	}
	paths = append(paths, ".")

	return paths
}

// PreferredConfigDir returns the directory new config files are written to.
func PreferredConfigDir() (string, error) {
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", constants.ProjectName), nil
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(userConfigDir, constants.ProjectName), nil
	}

	return "", fmt.Errorf("unable to determine config directory")
}

// Load reads the first config.yaml found in ConfigPaths on top of the
// defaults. Programs embedding the widget use it instead of the cli flags.
// No file at all yields the defaults.
func Load() (*model.Config, error) {
	for _, dir := range ConfigPaths() {
		configPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return LoadFile(configPath)
		}
	}
	return model.DefaultConfig(), nil
}

// LoadFile reads one config file. Keys may use any naming style.
func LoadFile(configPath string) (*model.Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	if data, err = normalizeKeys(data); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	cfg := model.DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

func normalizeKeys(data []byte) ([]byte, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}

	normalized := make(map[string]interface{}, len(raw))
	seen := make(map[string]string, len(raw))

	for key, value := range raw {
		canonical, ok := canonicalKeys[normalizeKeyVariant(key)]
		if !ok {
			return nil, fmt.Errorf("unknown config key %q", key)
		}

		if previous, exists := seen[canonical]; exists && previous != key {
			return nil, fmt.Errorf("duplicate config keys %q and %q resolve to %q", previous, key, canonical)
		}

		seen[canonical] = key
		normalized[canonical] = value
	}

	return yaml.Marshal(normalized)
}

func normalizeKeyVariant(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "")
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, " ", "")
	return key
}
