package cli

import (
	"github.com/hamidzr/recipemenu/core"
	"github.com/hamidzr/recipemenu/mealdb"
	"github.com/hamidzr/recipemenu/model"
	"github.com/hamidzr/recipemenu/store"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// App bundles everything one run of the widget needs.
type App struct {
	Config       *model.Config
	KV           store.KV
	Client       *mealdb.Client
	History      *store.RecentSearches
	Themes       *store.ThemeStore
	Orchestrator *core.Orchestrator
	Images       *core.ImageLoader
}

// openStores opens the configured backend and the two stores on top of it.
func openStores(cfg *model.Config) (store.KV, *store.RecentSearches, *store.ThemeStore, error) {
	kv, err := store.Open(cfg.StorageBackend, cfg.StorageFormat, cfg.StorageDir)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "failed to open %s storage", cfg.StorageBackend)
	}
	return kv, store.NewRecentSearches(kv, cfg.MaxRecentSearches), store.NewThemeStore(kv), nil
}

func newClient(cfg *model.Config) *mealdb.Client {
	return mealdb.NewClient(
		mealdb.WithBaseURL(cfg.ServiceURL),
		mealdb.WithTimeout(cfg.RequestTimeout()),
		mealdb.WithRateLimit(cfg.RequestsPerSecond),
	)
}

// NewApp wires the client, storage and orchestrator from cfg.
func NewApp(cfg *model.Config) (*App, error) {
	kv, history, themes, err := openStores(cfg)
	if err != nil {
		return nil, err
	}
	client := newClient(cfg)
	app := &App{
		Config:       cfg,
		KV:           kv,
		Client:       client,
		History:      history,
		Themes:       themes,
		Orchestrator: core.NewOrchestrator(client, history, themes, core.OptionsFromConfig(cfg)),
		Images:       core.NewImageLoader(client, cfg.ImageConcurrency),
	}
	logrus.WithFields(logrus.Fields{
		"service": cfg.ServiceURL,
		"storage": cfg.StorageBackend,
	}).Debug("app initialized")
	return app, nil
}

// Close stops background work and releases the storage.
func (a *App) Close() error {
	a.Orchestrator.Close()
	a.Images.Close()
	return a.KV.Close()
}
