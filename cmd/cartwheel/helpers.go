package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/viper"

	"github.com/haggleworks/cartwheel/internal/common"
	"github.com/haggleworks/cartwheel/internal/config"
	"github.com/haggleworks/cartwheel/internal/ingest"
	"github.com/haggleworks/cartwheel/internal/model"
	"github.com/haggleworks/cartwheel/internal/service"
	"github.com/haggleworks/cartwheel/internal/storage"
)

// initStorage opens the catalog database and applies pending migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadCatalog returns the persisted snapshot, rebuilding it from the
// product table when none exists yet.
func loadCatalog(ctx context.Context, store service.Storage) (*model.CatalogSnapshot, error) {
	snapshot, err := store.LoadSnapshot(ctx)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	slog.Debug("no snapshot found, rebuilding index")
	return rebuildSnapshot(ctx, store)
}

// rebuildSnapshot re-indexes every active product and persists the result.
// Rebuilds replace the previous snapshot wholesale.
func rebuildSnapshot(ctx context.Context, store service.Storage) (*model.CatalogSnapshot, error) {
	products, err := store.GetProducts(ctx, service.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	engine := ingest.NewEngine(slog.Default())
	snapshot := &model.CatalogSnapshot{
		LastUpdated: time.Now(),
		Index:       engine.BuildLookupIndex(products),
		Products:    products,
	}

	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	common.LogInfo("rebuilt lookup index", common.Fields{
		"products": snapshot.Index.ProductCount,
		"variants": snapshot.Index.VariantCount,
		"tokens":   len(snapshot.Index.TokenMap),
	})
	return snapshot, nil
}
