package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cookbook/internal/mockserver"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func (a *app) routes() http.Handler {
	mux := http.NewServeMux()
	mockserver.NewHandler(a.facade, a.planner).Register(mux)

	ready := newReadiness()
	if a.remote != nil && a.store == nil {
		ready.Add("remote", a.remote)
	}
	mux.Handle("GET /ready", ready)
	mux.Handle("GET /metrics", promhttp.Handler())
	return WithMiddleware(mux)
}

func runServer(ctx context.Context, a *app, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           a.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Serving cookbook", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutdown signal received")
		return gracefulShutdown(server)
	})
	return g.Wait()
}

func gracefulShutdown(svr *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("Server close error", "error", closeErr)
		}
		return err
	}
	return nil
}
