package app

import (
	"context"
	"database/sql"

	"github.com/apex/log"

	"herbula/api/internal/config"
	"herbula/api/internal/httpclient"
	"herbula/api/internal/plant"
	"herbula/api/internal/plant/gemini"
	"herbula/api/internal/store"
)

// App: общие зависимости для cmd/relay и cmd/bot.
type App struct {
	Cfg     *config.Config
	DB      *sql.DB
	Repo    *store.IdentificationRepo
	Engines *plant.Engines
	Service *plant.Service
}

func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	hopts := httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UseProxy:  cfg.UseProxy,
		ProxyHost: cfg.ProxyHost,
		ProxyPort: cfg.ProxyPort,
	}
	httpc := httpclient.New(hopts)
	if u := httpclient.ProxyURL(hopts); u != nil {
		log.WithField("proxy", u.Host).Info("gemini traffic goes through static proxy")
	}

	engines := &plant.Engines{
		REST: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel).
			WithBaseURL(cfg.GeminiBaseURL, cfg.GeminiAPIVersion).
			WithHTTPClient(httpc),
		SDK:     gemini.NewSDK(cfg.GeminiAPIKey, cfg.GeminiModel).WithHTTPClient(httpc),
		Default: cfg.GeminiEngine,
	}

	a := &App{Cfg: cfg, Engines: engines}

	var st plant.Store
	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := store.NewIdentificationRepo(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Infof("db connected: %s", store.SafeDSNSummary(cfg.DatabaseURL))
		a.DB, a.Repo, st = db, repo, repo
	} else {
		log.Info("DATABASE_URL is empty: history and cache are off")
	}

	a.Service = plant.NewService(engines, st, cfg.CacheTTL)
	return a, nil
}

// Ping is nil when there is no database.
func (a *App) Ping() func(context.Context) error {
	if a.DB == nil {
		return nil
	}
	return a.DB.PingContext
}

func (a *App) Close() {
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
