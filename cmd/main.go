package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"brainbuzz/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("brainbuzz exited")
		os.Exit(1)
	}
}
