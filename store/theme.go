package store

import (
	"github.com/hamidzr/recipemenu/model"
	"github.com/sirupsen/logrus"
)

// ThemeKey holds "dark" or "light".
const ThemeKey = "theme"

// ThemeStore persists the theme preference independently of the history.
type ThemeStore struct {
	kv KV
}

func NewThemeStore(kv KV) *ThemeStore {
	return &ThemeStore{kv: kv}
}

// Load returns the saved theme, light when nothing usable is stored.
func (s *ThemeStore) Load() model.Theme {
	raw, ok, err := s.kv.Get(ThemeKey)
	if err != nil {
		logrus.WithError(err).Warn("failed to read theme preference")
		return model.ThemeLight
	}
	if !ok {
		return model.ThemeLight
	}
	return model.ParseTheme(raw)
}

func (s *ThemeStore) Save(theme model.Theme) error {
	return s.kv.Set(ThemeKey, theme.String())
}

// Toggle flips and persists the theme, returning the new value.
func (s *ThemeStore) Toggle() (model.Theme, error) {
	next := s.Load().Toggle()
	if err := s.Save(next); err != nil {
		return s.Load(), err
	}
	return next, nil
}
