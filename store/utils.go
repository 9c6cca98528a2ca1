package store

import (
	"os"
	"path/filepath"

	"github.com/hamidzr/recipemenu/constants"
)

// CacheDir is where local state lives by default.
func CacheDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", constants.ProjectName)
	}
	return filepath.Join(os.TempDir(), constants.ProjectName)
}
