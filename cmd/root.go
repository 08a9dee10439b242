package cmd

import (
	"github.com/spf13/cobra"
	"video-catalog/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "video-catalog",
		Short: "video catalog REST API",
	}
	rootCmd.AddCommand(server(config), migrate(config), token(config))
	return rootCmd
}
