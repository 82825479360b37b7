package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	router "github.com/dkeye/RandomChat/internal/adapters/http"
	sig "github.com/dkeye/RandomChat/internal/adapters/signal"
	"github.com/dkeye/RandomChat/internal/app"
	"github.com/dkeye/RandomChat/internal/app/orch"
	"github.com/dkeye/RandomChat/internal/app/timer"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Port = port
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			reg := app.NewRegistry()
			ctrl := &sig.SignalWSController{
				Registry: reg,
				Factory: &orch.Factory{
					Config:    orchConfig(cfg),
					Scheduler: timer.Clock{},
					Source:    newDevice(cfg),
				},
				Limiter:    sig.NewMessageRateLimiter(cfg.Chat.RateLimit, cfg.Chat.RateInterval),
				ICEURLs:    cfg.Media.ICEServers,
				ReadLimit:  cfg.ReadLimit,
				PingPeriod: cfg.PingPeriod,
			}

			r := router.SetupRouter(ctx, cfg, reg, ctrl)
			addr := fmt.Sprintf(":%d", cfg.Port)
			srv := &http.Server{
				Addr:    addr,
				Handler: r,
			}

			errc := make(chan error, 1)
			go func() {
				log.Info().Str("addr", addr).Msg("RandomChat server started")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errc <- err
				}
				close(errc)
			}()

			select {
			case <-ctx.Done():
			case err := <-errc:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			}

			log.Info().Msg("Shutting down")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Server forced to shutdown")
			}
			reg.CloseAll()
			log.Info().Msg("Server exited gracefully")
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port, overrides config")
	return cmd
}
