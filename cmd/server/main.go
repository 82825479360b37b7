package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/RandomChat/internal/adapters/rtc"
	"github.com/dkeye/RandomChat/internal/app/exchange"
	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/app/session"
	"github.com/dkeye/RandomChat/internal/config"
)

func main() {
	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	root := &cobra.Command{
		Use:           "randomchat",
		Short:         "One-on-one ephemeral video and text chat",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newConsoleCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("exit")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping info")
	} else {
		zerolog.SetGlobalLevel(level)
	}
	return cfg, nil
}

func orchConfig(cfg *config.Config) orch.Config {
	return orch.Config{
		Session: session.Config{
			ConnectMin: cfg.Session.ConnectMin,
			ConnectMax: cfg.Session.ConnectMax,
			Greeting:   cfg.Session.Greeting,
		},
		Exchange: exchange.Config{
			ReplyProbability: cfg.Chat.ReplyProbability,
			ReplyMin:         cfg.Chat.ReplyMin,
			ReplyMax:         cfg.Chat.ReplyMax,
			Corpus:           exchange.Replies,
		},
	}
}

func newDevice(cfg *config.Config) *rtc.Device {
	return rtc.NewDevice(rtc.DeviceConfig{
		Enabled:    cfg.Media.Enabled,
		VideoCodec: cfg.Media.VideoCodec,
		AudioCodec: cfg.Media.AudioCodec,
	})
}
