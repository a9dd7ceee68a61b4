package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/modybick/pos/internal/cache"
	"github.com/modybick/pos/internal/catalog"
	"github.com/modybick/pos/internal/export"
	"github.com/modybick/pos/internal/handoff"
	"github.com/modybick/pos/internal/identity"
	"github.com/modybick/pos/internal/repository"
	"github.com/modybick/pos/internal/service"
	"github.com/modybick/pos/internal/settings"
)

// App is the wired object graph behind every command.
type App struct {
	Repo     *repository.Repository
	Catalog  *catalog.Service
	Ledger   *service.Ledger
	Session  *service.Session
	Handoff  *handoff.Store
	Identity *identity.Manager
	Settings *settings.Store
	Exporter *export.Exporter
}

func newApp(ctx context.Context, opts *RootOptions) (*App, error) {
	repo, err := repository.NewRepository(opts.DBPath)
	if err != nil {
		return nil, err
	}

	if err := repo.RunMigrations(opts.MigrationsPath); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var productCache cache.ProductCache = cache.Noop{}
	if opts.RedisAddr != "" {
		productCache = cache.NewRedisCache(redis.NewClient(&redis.Options{Addr: opts.RedisAddr}))
	}

	cat := catalog.NewService(repo, productCache)
	ledger := service.NewLedger(repo)
	hs := handoff.NewStore(repo)
	idm := identity.NewManager(repo)
	session := service.NewSession(cat, ledger, hs, idm)

	settingsStore, err := settings.NewStore(ctx, repo)
	if err != nil {
		repo.Close()
		return nil, err
	}

	return &App{
		Repo:     repo,
		Catalog:  cat,
		Ledger:   ledger,
		Session:  session,
		Handoff:  hs,
		Identity: idm,
		Settings: settingsStore,
		Exporter: export.NewExporter(repo, cat),
	}, nil
}

func (a *App) Close() error {
	return a.Repo.Close()
}
