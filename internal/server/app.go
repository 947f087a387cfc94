// Package server initializes and runs the deposit service: it wires the
// database, repositories, lifecycle services, background scheduler, and the
// HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"tiredepot/internal/clock"
	"tiredepot/internal/logging"
	"tiredepot/internal/server/api"
	"tiredepot/internal/server/config"
	"tiredepot/internal/server/mailer"
	"tiredepot/internal/server/repositories/repomanager"
	"tiredepot/internal/server/scheduler"
	"tiredepot/internal/server/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	deposits  *services.DepositService
	clients   *services.ClientService
	reminders *services.ReminderService
	clock     clock.Clock
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	clk := clock.NewSystem()
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.EmailFrom)

	deposits := services.NewDepositService(db, rm, clk, logger)
	clients := services.NewClientService(db, rm, logger)
	reminders := services.NewReminderService(db, rm, mail, clk, logger, cfg.ReminderLeadDays, cfg.CompanyName)

	return &App{
		config:    cfg,
		logger:    logger,
		db:        db,
		deposits:  deposits,
		clients:   clients,
		reminders: reminders,
		clock:     clk,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	srv := api.NewServer(app.deposits, app.clients, app.reminders, app.clock, app.logger, app.config.DefaultActor)

	httpServer := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: srv.Router(),
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.EndpointAddrHTTP)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startScheduler(ctx context.Context) {
	s := scheduler.New(app.logger)

	s.Add("duration_refresh", app.config.DurationRefreshInterval, func(ctx context.Context) error {
		n, err := app.deposits.RefreshDurations(ctx)
		if err != nil {
			return err
		}
		app.logger.Debug(ctx, "durations refreshed", "deposits", n)
		return nil
	})

	s.Add("reminder_scan", app.config.ReminderScanInterval, func(ctx context.Context) error {
		sent, err := app.reminders.Scan(ctx)
		if err != nil {
			return err
		}
		app.logger.Info(ctx, "reminder scan finished", "sent", sent)
		return nil
	})

	s.Run(ctx)
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startScheduler(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
