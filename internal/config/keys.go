package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/hamidzr/recipemenu/model"
	"github.com/spf13/viper"
	yamlv3 "gopkg.in/yaml.v3"
)

// configKeys are the snake_case keys of model.Config in field order.
var configKeys = func() []string {
	t := reflect.TypeOf(model.Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("mapstructure"); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}()

// canonicalByKey resolves both spellings of a key to its snake_case form.
var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(configKeys)*2)
	for _, key := range configKeys {
		m[key] = key
		m[camelKey(key)] = key
	}
	return m
}()

// camelKey turns max_recent_searches into maxRecentSearches.
func camelKey(snake string) string {
	parts := strings.Split(snake, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func registerConfigKeyAliases(v *viper.Viper) {
	for _, key := range configKeys {
		if alias := camelKey(key); alias != key {
			v.RegisterAlias(alias, key)
		}
	}
}

// validateConfigFileKeys rejects unknown keys and files that spell the same
// key two ways. Errors point at the offending line.
func validateConfigFileKeys(configPath string) error {
	if configPath == "" {
		return nil
	}

	displayPath := configFileDisplayPath(configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", displayPath, err)
	}
	if len(data) == 0 {
		return nil
	}

	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", displayPath, err)
	}
	if len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]
	if root.Kind != yamlv3.MappingNode {
		return fmt.Errorf("config file %s must be a mapping of keys to values", displayPath)
	}

	seen := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		node := root.Content[i]
		key := node.Value
		canonical, ok := canonicalByKey[key]
		if !ok {
			return fmt.Errorf("config file %s line %d: invalid key %q", displayPath, node.Line, key)
		}
		if previous, exists := seen[canonical]; exists && previous != key {
			return fmt.Errorf("config file %s line %d: %q (%s) repeats %q (%s); use one naming style for %q",
				displayPath, node.Line, key, keyStyle(key), previous, keyStyle(previous), canonical)
		}
		seen[canonical] = key
	}

	return nil
}

func keyStyle(key string) string {
	switch {
	case key == "":
		return "unknown style"
	case strings.Contains(key, "_"):
		return "snake_case"
	case strings.Contains(key, "-"):
		return "kebab-case"
	default:
		return "camelCase"
	}
}

func configFileDisplayPath(path string) string {
	if path == "" {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
