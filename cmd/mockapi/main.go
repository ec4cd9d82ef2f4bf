package main

import (
	"os"

	"app/internal/config"
	"app/internal/devserver"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	//.envは任意
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.LoadDev()
	if err != nil {
		logger.Fatal().Err(err).Msg("mockapi: config load failed")
	}

	srv, err := devserver.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("mockapi: init failed")
	}

	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	logger.Info().Str("addr", addr).Msg("mockapi: listening")
	if err := srv.Start(addr); err != nil {
		logger.Fatal().Err(err).Msg("mockapi: server stopped")
	}
}
