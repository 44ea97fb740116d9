package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vsinha/shortage/pkg/application/services/ledger"
	"github.com/vsinha/shortage/pkg/infrastructure/scheduler"
	"github.com/vsinha/shortage/pkg/interfaces/server/handlers"
	"github.com/vsinha/shortage/pkg/interfaces/server/router"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Common CommonConfig
	Addr   string // overrides server.addr
	Cron   string // overrides refresh.cron
}

// ServeCommand exposes reports and the production plan over HTTP
type ServeCommand struct {
	config ServeConfig
	out    io.Writer
}

// NewServeCommand creates a new serve command with the given configuration
func NewServeCommand(config ServeConfig) *ServeCommand {
	return &ServeCommand{config: config, out: os.Stdout}
}

// Execute serves until ctx is cancelled, then shuts down gracefully
func (c *ServeCommand) Execute(ctx context.Context) error {
	if c.config.Common.Help {
		c.showHelp()
		return nil
	}

	app, err := NewApp(c.config.Common)
	if err != nil {
		return err
	}
	defer app.Close()

	addr := c.config.Addr
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	spec := c.config.Cron
	if spec == "" {
		spec = app.Config.Refresh.Cron
	}

	log := app.Logger
	handler := handlers.NewShortageHandler(app.Orchestrator, log.Named("handlers.shortage"))
	engine := router.New(handler, log.Named("router"))

	if spec != "" {
		sched := scheduler.NewScheduler(log.Named("scheduler"))
		err := sched.Schedule(spec, "refresh", func(ctx context.Context) error {
			_, err := app.Orchestrator.RunCompletePlanning(ctx, ledger.View{})
			return err
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			sched.Stop(stopCtx)
		}()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server crashed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

// showHelp displays the help message
func (c *ServeCommand) showHelp() {
	fmt.Fprint(c.out, `shortage serve - expose reports and the production plan over HTTP

USAGE:
    shortage serve [-addr :8080] [-cron <spec>] [-config <file>] [-data <dir>] [-db <file>]

ENDPOINTS:
    GET    /healthz
    GET    /api/v1/report        ?model= &part= &name= &shortage_only=true &format=json|csv|xlsx|html
    GET    /api/v1/plan
    POST   /api/v1/plan          {"date": "2024-03-05", "model": "CTRL-100", "quantity": 10}
    DELETE /api/v1/plan/:id
    DELETE /api/v1/plan
    GET    /api/v1/events        ?from=<position>

Every report request recomputes the ledger from the current inputs. With
-cron the ledger is also recomputed on a schedule so shortage transitions
show up in /api/v1/events without polling the report.
`)
}
