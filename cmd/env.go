package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/rosterlab/scout-cli/internal/pipeline"
	"github.com/rosterlab/scout-cli/internal/scoring/params"
	"github.com/rosterlab/scout-cli/internal/store"
)

// openStore connects to the configured backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	var st store.Store
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: database_url is required for the postgres driver (SCOUT_STORE_DATABASE_URL)")
		}
		pg, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
		if err != nil {
			return nil, err
		}
		st = pg
	case "sqlite":
		sq, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		st = sq
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// newService builds the scoring service on top of the configured store and
// analytical parameters. The caller owns the returned store's lifecycle.
func newService(ctx context.Context) (*pipeline.Service, store.Store, error) {
	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	p, err := params.Load(cfg.Scoring.ParamsPath)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}

	return pipeline.New(st, p, cfg.Scoring.RollingWeeks), st, nil
}
