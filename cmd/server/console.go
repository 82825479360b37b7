package main

import (
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dkeye/RandomChat/internal/adapters/console"
	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/app/timer"
)

func newConsoleCmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with a stranger from the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if seed == 0 {
				seed = rand.Uint64()
			}
			logger := log.With().Str("client", "console").Logger()
			o := orch.New(orchConfig(cfg), timer.Clock{}, rand.New(rand.NewPCG(seed, seed)), newDevice(cfg), logger)
			defer o.Close()

			return console.New(o, os.Stdout).Run(ctx, os.Stdin)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for matchmaking and replies, 0 picks one")
	return cmd
}
