package cmd

import (
	"fmt"

	"github.com/classpulse/rollcall/internal/attendance"
	"github.com/classpulse/rollcall/internal/config"
	"github.com/classpulse/rollcall/internal/kv"
	"github.com/classpulse/rollcall/internal/recognizer"
)

// openKV selects the durability backend: PostgreSQL when DATABASE_URL is
// set, files under the data directory otherwise.
func openKV(cfg *config.Config) (kv.Store, func(), error) {
	if cfg.Database.URL != "" {
		pg, err := kv.NewPostgresStore(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open PostgreSQL store: %w", err)
		}
		return pg, func() { pg.Close() }, nil
	}

	fs, err := kv.NewFileStore(cfg.Store.DataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data directory: %w", err)
	}
	return fs, func() {}, nil
}

// openStore opens the attendance store over the configured backend.
func openStore(cfg *config.Config) (*attendance.Store, func(), error) {
	backend, closer, err := openKV(cfg)
	if err != nil {
		return nil, nil, err
	}
	return attendance.NewStore(backend, cfg.Store.DayCap), closer, nil
}

// openClient creates a recognizer client with the persisted session, if any.
func openClient(cfg *config.Config, store *attendance.Store) (*recognizer.Client, error) {
	if cfg.Recognizer.URL == "" {
		return nil, fmt.Errorf("RECOGNIZER_URL environment variable is required")
	}

	client, err := recognizer.New(cfg.Recognizer.URL, cfg.Recognizer.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create recognizer client: %w", err)
	}

	email, token, err := store.Session()
	if err == nil && token != "" {
		client.SetSession(token, email)
	}
	return client, nil
}
