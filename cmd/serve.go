package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lead-console/internal/dashboard"
	"lead-console/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard and the periodic ad sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		a := newApp(cfg, logger)
		defer a.Close()

		composer, err := newComposer(cfg, logger)
		if err != nil {
			return err
		}

		dash, err := dashboard.New(dashboard.Options{
			Backend:      a.cache,
			Composer:     composer,
			Language:     cfg.OpenAI.Language,
			LeadsPerPage: cfg.Dashboard.LeadsPerPage,
			CSRFSecure:   cfg.Dashboard.CSRFSecure,
			Logger:       logger,
		})
		if err != nil {
			return err
		}

		var ws []worker.Worker
		if cfg.Sync.Interval > 0 {
			logger.Info().Dur("interval", cfg.Sync.Interval).Msg("starting ad syncer")
			ws = append(ws, &worker.AdSyncer{
				Client:   a.cache,
				Interval: cfg.Sync.Interval,
				Logger:   logger.With().Str("worker", "ad-syncer").Logger(),
			})
		}
		mgr := worker.NewManager(ws...)

		// Signal handling for systemd
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              cfg.Dashboard.Addr,
			Handler:           dash.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info().Str("addr", srv.Addr).Str("api", cfg.API.BaseURL).Msg("dashboard listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			return mgr.Start(gctx)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
