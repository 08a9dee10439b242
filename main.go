package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"video-catalog/cmd"
	"video-catalog/config"
)

func main() {
	// config.yaml is read from CONFIG_PATH, falling back to the working directory.
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		path = wd
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("failed to load config")
	}

	if err := cmd.Root(cfg).Execute(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
