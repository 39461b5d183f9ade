package cmd

import (
	"context"
	"fmt"
	"log"

	"bvgview/pkg/config"
	"bvgview/pkg/kvstore"
	"bvgview/pkg/recent"
	"bvgview/pkg/transit"
)

// env is what most commands need: settings, an API client and the recent
// stations backed by the configured store.
type env struct {
	cfg     *config.AppConfig
	client  *transit.Client
	store   kvstore.Store
	recents *recent.Store
}

func newClient(cfg *config.AppConfig) *transit.Client {
	return transit.NewClient(transit.WithBaseURL(cfg.APIBaseURL))
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := kvstore.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("could not open %s storage: %w", cfg.StoreOptions().Backend, err)
	}

	return &env{
		cfg:     cfg,
		client:  newClient(cfg),
		store:   store,
		recents: recent.New(ctx, store),
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(context.Background()); err != nil {
		log.Printf("Error closing storage: %v", err)
	}
}
