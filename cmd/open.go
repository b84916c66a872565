package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/abhisek/malla/internal/config"
	"github.com/abhisek/malla/internal/curriculum"
	"github.com/abhisek/malla/internal/logging"
	"github.com/abhisek/malla/internal/progress"
	"github.com/abhisek/malla/internal/session"
	"github.com/abhisek/malla/internal/store"
)

// backend is an opened progress medium plus its optional event log.
type backend struct {
	storage progress.Storage
	events  store.EventRepo
	close   func() error
}

// openBackend opens the storage medium named by the configuration.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return &backend{storage: st.KV(), events: st.EventRepo(), close: st.Close}, nil

	case config.BackendRedis:
		kv, err := store.OpenRedis(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		return &backend{storage: kv, close: kv.Close}, nil

	case config.BackendMemory:
		return &backend{storage: progress.NewMemoryStorage(), close: func() error { return nil }}, nil
	}
	return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Storage.Backend)
}

// resolveDBPath returns the configured database path (--db, MALLA_DB_PATH
// or db_path), else the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Storage.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// exportPath returns the default export file location.
func exportPath(cfg *config.Config) string {
	return filepath.Join(cfg.Export.Dir, cfg.Export.Filename)
}

// openSession loads the curriculum, opens the backend and starts a
// session. The returned close function releases the backend.
func openSession(ctx context.Context, cfg *config.Config, opts ...session.Option) (*session.Session, func() error, error) {
	logger := logging.FromContext(ctx)

	timer := logging.Start(logger)
	graph, err := curriculum.Load(cfg.Curriculum)
	if err != nil {
		return nil, nil, fmt.Errorf("load curriculum: %w", err)
	}
	logger.Debug("curriculum loaded", "units", graph.Len(), "groups", len(graph.Groups()))
	if dangling := graph.Dangling(); len(dangling) > 0 {
		logger.Debug("unlock targets without a unit", "ids", dangling)
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	ps := progress.NewStore(b.storage,
		progress.WithKey(cfg.Storage.Key),
		progress.WithLogger(logger),
	)

	opts = append([]session.Option{session.WithLogger(logger)}, opts...)
	if b.events != nil {
		opts = append(opts, session.WithEventRepo(b.events))
	}

	sess, err := session.New(ctx, graph, ps, opts...)
	if err != nil {
		b.close()
		return nil, nil, err
	}
	timer.Done(fmt.Sprintf("Opened %s progress", cfg.Storage.Backend))
	return sess, b.close, nil
}
