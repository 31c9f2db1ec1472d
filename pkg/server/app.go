package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	drepo "CoinSentry/internal/domain/repository"
	"CoinSentry/internal/handler/api"
	"CoinSentry/internal/usecase"
	"CoinSentry/pkg/config"
	xhttp "CoinSentry/pkg/http"
	applogger "CoinSentry/pkg/logger"
)

// App encapsulates the application lifecycle. With no scan interval
// configured it runs a single scan and exits; otherwise it serves HTTP
// and scans on a ticker until interrupted.
type App struct {
	cfg        *config.Config
	runner     *usecase.Runner
	publisher  drepo.CandidatePublisher
	log        *applogger.Logger
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, runner *usecase.Runner, publisher drepo.CandidatePublisher, log *applogger.Logger) *App {
	return &App{
		cfg:       cfg,
		runner:    runner,
		publisher: publisher,
		log:       log,
	}
}

// Run starts the application. It blocks until the work is done (single
// scan mode) or a shutdown signal arrives (service mode).
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Scanner.Interval <= 0 {
		_, err := a.runner.RunScan(ctx)
		a.closePublisher()
		return err
	}

	handler := api.NewScansEchoHandler(a.log, a.runner)
	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	go a.scanLoop(ctx)
	a.log.Info("scanner started",
		applogger.Duration("interval", a.cfg.Scanner.Interval),
		applogger.Int("rank_min", a.cfg.Scanner.RankMin),
		applogger.Int("rank_max", a.cfg.Scanner.RankMax),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// scanLoop runs one scan immediately, then one per interval. Faults
// are already logged and notified inside the runner.
func (a *App) scanLoop(ctx context.Context) {
	if _, err := a.runner.RunScan(ctx); err != nil {
		a.log.Error("scan error", applogger.Error(err))
	}

	ticker := time.NewTicker(a.cfg.Scanner.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := a.runner.RunScan(ctx); err != nil {
				a.log.Error("scan error", applogger.Error(err))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if a.httpServer != nil {
		if err := a.httpServer.Stop(shutdownCtx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	a.closePublisher()

	a.log.Info("shutdown complete")
	return nil
}

func (a *App) closePublisher() {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Close(); err != nil {
		a.log.Warn("publisher close error", applogger.Error(err))
	}
}
