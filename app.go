package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve(context.Context, context.CancelFunc) func() error
	Stop(context.Context, context.Context) func() error
}

type App struct {
	logger   *zap.Logger
	config   *Config
	cli      *CLI
	storage  CatalogStorage
	cleanups []func()
}

// NewApp provides an instance of App.
func NewApp() (AppProvider, error) {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// Ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(filepath.Dir(config.LogFile), 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging file: %s", err)
	}
	closer := func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Println("error during closing of log file: ", cerr)
		}
	}
	logger, flusher := SetupLogging(config, logFile)

	// Setup the storage backend selected by configuration.
	storage, err := SetupStorage(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to setup the storage backend: %s", err)
	}

	// Setup the catalog and the menu interface on top of it. The initial
	// snapshot load happens here, before the first command is accepted.
	catalog := NewCatalog(context.Background(), logger, NewClock(config.IsProduction), storage)
	cli := NewCLI(logger, config, NewIDsHandler(), catalog, os.Stdin, os.Stdout)

	return &App{
		logger:  logger,
		config:  config,
		cli:     cli,
		storage: storage,
		cleanups: []func(){
			flusher,
			closer,
		},
	}, nil
}

// Run starts the menu loop and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Serve(gCtx, stop))
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("library tracker stopped",
		zap.String("backend", app.config.Storage.Backend),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve runs the interactive menu loop. The cancel function is invoked
// once the loop ends, menu exit included, so the Stop watcher is released.
func (app *App) Serve(ctx context.Context, cancel context.CancelFunc) func() error {
	return func() error {
		defer cancel()
		app.logger.Info("library tracker starting",
			zap.String("backend", app.config.Storage.Backend),
		)
		return app.cli.Start(ctx)
	}
}

// Stop waits for the group context and releases the storage backend. It
// states the reason of its call. We explicitly return `nil` to allow the
// errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("library tracker stopping. reason: requested to stop")
		} else {
			app.logger.Info("library tracker stopping. reason: errored at running")
		}

		if err := app.storage.Close(); err != nil {
			app.logger.Error("failed to close the storage backend", zap.Error(err))
		}
		return nil
	}
}
