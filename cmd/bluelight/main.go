package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nerahikada/BlueLight/network"
	"github.com/Nerahikada/BlueLight/server"
	"github.com/Nerahikada/BlueLight/world"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML configuration file")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()

	cfg, err := server.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *configPath).Msg("unable to load config")
	}
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	logger = logger.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := world.New(logger.With().Str("component", "world").Logger())
	defer w.Close()

	srv, err := server.New(cfg, logger.With().Str("component", "control").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to start control server")
	}
	srv.AddHandler(server.AuthHandler(cfg.Passphrase))
	srv.AddHandler(server.WorldHandler(w))
	go srv.Start()
	defer srv.Stop()

	l, err := network.Listen(cfg.BedrockAddress, cfg.WorldName, w, logger.With().Str("component", "network").Logger())
	if err != nil {
		logger.Fatal().Err(err).Msg("unable to start bedrock listener")
	}
	go func() {
		if err := l.Serve(ctx); err != nil {
			logger.Err(err).Msg("bedrock listener stopped")
			stop()
		}
	}()

	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Err(err).Msg("world stopped")
	}
	logger.Info().Msg("shutting down")
}
