package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/minju-kim98/personal-ai-hub/internal/api"
	"github.com/minju-kim98/personal-ai-hub/internal/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  "Start the HTTP API, the background job launcher and the news scheduler.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics.Register()
	server := api.New(
		api.NewAuthenticator(cfg.SecretKey),
		a.launcher,
		a.store,
		a.store,
		api.WithNews(a.store, a.news),
		api.WithReadiness(a.ready),
		api.WithLogger(a.logger),
	)
	httpServer := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	if cfg.NewsEnabled {
		if err := a.news.Start(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		metrics.ConsumeGateway(gctx, a.events)
		return nil
	})

	g.Go(func() error {
		a.logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if cfg.NewsEnabled {
			if err := a.news.Stop(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("news scheduler: %w", err))
			}
		}
		if err := server.Wait(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("news refresh: %w", err))
		}
		if err := a.launcher.Wait(shutdownCtx); err != nil {
			a.logger.Warn("jobs still running at shutdown", "running", a.launcher.Running())
			errs = append(errs, fmt.Errorf("drain jobs: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
