// Package app assembles the FixIt process: infrastructure, services, HTTP server and the
// contractor update listener.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"fixit/config"
	"fixit/internal/delivery/events"
	"fixit/internal/metrics"
)

type App struct {
	httpServer *http.Server
	listener   *events.ContractorListener
	infra      *Infra
	logger     *slog.Logger

	listenerCtx  context.Context
	stopListener context.CancelFunc
	listenerDone chan struct{}
	started      atomic.Bool
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	infra, err := setupInfra(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	svcs, err := setupServices(cfg, infra, m, logger)
	if err != nil {
		_ = infra.Close()
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupHTTP(cfg, infra, svcs, m, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listenerCtx, stopListener := context.WithCancel(context.Background())
	return &App{
		httpServer:   server,
		listener:     setupListener(infra, svcs, logger),
		infra:        infra,
		logger:       logger,
		listenerCtx:  listenerCtx,
		stopListener: stopListener,
		listenerDone: make(chan struct{}),
	}, nil
}

// Run starts the contractor listener in the background and serves HTTP until Shutdown.
func (a *App) Run() error {
	if a.started.CompareAndSwap(false, true) {
		go a.runListener()
	}

	if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (a *App) runListener() {
	defer close(a.listenerDone)
	if err := a.listener.Run(a.listenerCtx); err != nil {
		a.logger.Error("contractor listener stopped", "err", err)
	}
}

// Shutdown drains HTTP requests, stops the listener and closes connections.
func (a *App) Shutdown(ctx context.Context) error {
	httpErr := a.httpServer.Shutdown(ctx)
	a.stopListener()
	if a.started.Load() {
		select {
		case <-a.listenerDone:
		case <-ctx.Done():
		}
	}
	return errors.Join(httpErr, a.infra.Close())
}
