package server

import (
	"context"
	"fmt"

	"catalog-api/internal/config"
	"catalog-api/internal/database"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"

	"go.uber.org/zap"
)

// Store bundles the repositories of one backend with its connection.
type Store struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Conn       database.Service
}

// OpenStore connects to the backend selected by cfg.Store.Driver, prepares
// its schema and seeds the configured categories.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	store, err := openDriver(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	created, err := service.SeedCategories(ctx, store.Categories, cfg.Store.SeedCategories)
	if err != nil {
		_ = store.Conn.Close(ctx)
		return nil, err
	}
	if created > 0 {
		logger.Info("Seeded categories", zap.Int("created", created))
	}

	return store, nil
}

func openDriver(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		m, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := repository.EnsureMongoIndexes(ctx, m.Database()); err != nil {
			_ = m.Close(ctx)
			return nil, err
		}
		logger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

		return &Store{
			Products:   repository.NewMongoProductRepository(m.Database()),
			Categories: repository.NewMongoCategoryRepository(m.Database()),
			Conn:       m,
		}, nil

	case config.DriverPostgres:
		pg, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, pg.DB(), cfg.Store.MigrationsDir, logger); err != nil {
			_ = pg.Close(ctx)
			return nil, err
		}
		logger.Info("Connected to PostgreSQL", zap.String("host", cfg.Database.Host))

		return &Store{
			Products:   repository.NewProductRepository(pg.DB()),
			Categories: repository.NewCategoryRepository(pg.DB()),
			Conn:       pg,
		}, nil

	case config.DriverMemory:
		categories := repository.NewMemoryCategoryRepository()
		logger.Warn("Using in-memory store, data is lost on restart")

		return &Store{
			Products:   repository.NewMemoryProductRepository(categories),
			Categories: categories,
			Conn:       database.Memory{},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
