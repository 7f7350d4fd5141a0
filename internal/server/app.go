// Package server wires storage, services and transports together and runs
// them until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/httpapi"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/passvault/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	http   *http.Server
	health *gs.HealthServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := repomanager.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	authSvc := services.NewAuthService(repos.Users(), c, logger)
	vault := services.NewVaultStore(repos.Records(), logger)
	backups := services.NewBackupService(c, logger)

	h := httpapi.NewHandler(c, authSvc, vault, backups, repos, logger)

	app := &App{
		config: c,
		logger: logger,
		repos:  repos,
		http: &http.Server{
			Addr:              c.HTTPAddr,
			Handler:           httpapi.NewRouter(h),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
	if c.GRPCAddr != "" {
		app.health = gs.NewHealthServer(c.GRPCAddr, repos, logger)
	}
	return app, nil
}

// Run serves HTTP and gRPC health until ctx is done or either fails, then
// drains in-flight requests and closes storage.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	if app.health != nil {
		g.Go(func() error {
			return app.health.Run(gctx)
		})
	}

	g.Go(func() error {
		app.logger.Info(gctx, "Starting HTTP server", "address", app.config.HTTPAddr)
		if err := app.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(gctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		return app.http.Shutdown(shutdownCtx)
	})

	err := g.Wait()

	closeCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
	defer cancel()
	if cerr := app.repos.Close(closeCtx); cerr != nil {
		app.logger.Error(closeCtx, "error closing storage", "error", cerr)
	}

	app.logger.Info(closeCtx, "App stopped")
	return err
}
