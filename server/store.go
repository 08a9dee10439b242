package server

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"video-catalog/config"
	"video-catalog/constant"
	"video-catalog/repository"
)

// OpenRepository connects the record store named by store.driver. The returned
// func releases the connection.
func OpenRepository(ctx context.Context, cfg *config.Config) (repository.VideoRepository, func(), error) {
	driver := constant.StoreDriver(cfg.Store.Driver)
	zerolog.Ctx(ctx).Info().Str("driver", string(driver)).Msg("opening record store")

	switch driver {
	case constant.StoreDriverMongo, "":
		db, err := config.NewMongoDatabase(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		closer := func() {
			if err := db.Client().Disconnect(context.Background()); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("failed to disconnect mongo")
			}
		}
		return repository.NewMongoRepo(db), closer, nil
	case constant.StoreDriverPostgres:
		db, err := config.NewPostgresDB(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewPostgresRepo(db, cfg.App.Environment == constant.EnvironmentDevelop.String())
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		closer := func() {
			if err := db.Close(); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close postgres")
			}
		}
		return repo, closer, nil
	case constant.StoreDriverMemory:
		return repository.NewMemoryRepo(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
