// Package main starts the ledger API server.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/go-petr/tx-ledger/cmd/httpserver"
	"github.com/go-petr/tx-ledger/internal/middleware"
	"github.com/go-petr/tx-ledger/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	server, err := httpserver.New(logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("LEDGER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
