package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"video-catalog/config"
	server2 "video-catalog/server"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create store schema, indexes and the media bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := server2.SetupLogger(config)

			repo, closeRepo, err := server2.OpenRepository(ctx, config)
			if err != nil {
				return err
			}
			defer closeRepo()
			if err := repo.Migrate(ctx); err != nil {
				return err
			}

			uploader, err := server2.NewUploader(config)
			if err != nil {
				return err
			}
			if err := uploader.EnsureBucket(ctx); err != nil {
				return err
			}

			zerolog.Ctx(ctx).Info().Str("driver", config.Store.Driver).Str("bucket", config.MinIO.Bucket).Msg("migration done")
			return nil
		},
	}
}
