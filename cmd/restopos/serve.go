package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/restopos/internal/app"
	"github.com/dropDatabas3/restopos/internal/config"
	"github.com/dropDatabas3/restopos/internal/observability/logger"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta el servidor HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	log := logger.L().With(logger.Component("server"))

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           a.Handler,
		ReadTimeout:       cfg.ReadTimeout(),
		ReadHeaderTimeout: cfg.ReadTimeout(),
		WriteTimeout:      cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", logger.String("addr", cfg.Server.Addr), logger.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = a.Close(context.Background())
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown incomplete", logger.Err(err))
	}
	if err := a.Close(shutdownCtx); err != nil {
		log.Warn("close failed", logger.Err(err))
	}
	log.Info("bye")
	return nil
}
