// Package server wires the document store server: it opens the persistent
// store, serves it over gRPC and the websocket gateway, runs periodic S3
// backups and shuts everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vignaraja/internal/logging"
	"github.com/dmitrijs2005/vignaraja/internal/server/backup"
	"github.com/dmitrijs2005/vignaraja/internal/server/config"
	"github.com/dmitrijs2005/vignaraja/internal/server/storage"
	"github.com/dmitrijs2005/vignaraja/internal/server/ws"

	gs "github.com/dmitrijs2005/vignaraja/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	backend *storage.Backend
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	backend, err := storage.Open(ctx, c.DatabaseDSN, c.DocumentID, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &App{config: c, logger: logger, backend: backend}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.backend.Store, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGateway(ctx context.Context, cancelFunc context.CancelFunc) {
	g := ws.NewGateway(app.config.EndpointAddrWS, app.logger, app.backend.Store, app.config.SecretKey)

	if err := g.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startBackups(ctx context.Context) {
	b, err := backup.New(ctx, backup.Settings{
		AccessKey:    app.config.S3RootUser,
		SecretKey:    app.config.S3RootPassword,
		Bucket:       app.config.S3Bucket,
		Region:       app.config.S3Region,
		BaseEndpoint: app.config.S3BaseEndpoint,
	}, app.backend, app.logger)
	if err != nil {
		app.logger.Error(ctx, "backup init error", "err", err)
		return
	}
	b.Run(ctx, app.config.BackupInterval)
}

// Run blocks until a termination signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.EndpointAddrWS != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGateway(ctx, cancelFunc)
		}()
	}

	if app.config.BackupInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startBackups(ctx)
		}()
	}

	wg.Wait()

	if err := app.backend.Close(); err != nil {
		app.logger.Error(context.Background(), "storage close error", "err", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
