// Package server initializes and runs the message-board server: it wires
// the entity store, the attachment store and the transport multiplexer
// together and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/groupboard/internal/logging"
	"github.com/dmitrijs2005/groupboard/internal/server/board"
	"github.com/dmitrijs2005/groupboard/internal/server/config"
	"github.com/dmitrijs2005/groupboard/internal/server/files"
	"github.com/dmitrijs2005/groupboard/internal/server/mux"
	"github.com/dmitrijs2005/groupboard/internal/server/store"
)

type App struct {
	config *config.Config
	logger logging.Logger
	files  *files.Store
	mux    *mux.Server
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewText(os.Stdout, c.Verbose)

	fs, err := files.New(c.FilesDir)
	if err != nil {
		return nil, fmt.Errorf("attachment store init: %w", err)
	}

	st := store.New()
	handler := board.New(st, fs, logger)
	m := mux.New(c.Port, handler, logger)

	return &App{config: c, logger: logger, files: fs, mux: m}, nil
}

// initSignalHandler cancels the run context on a termination signal.
// SIGPIPE is ignored process-wide so a half-closed TCP peer cannot kill
// the server.
func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	signal.Ignore(syscall.SIGPIPE)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives, then releases the sockets
// and purges staged attachments.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting server", "port", app.config.Port, "files", app.files.Dir())

	app.initSignalHandler(cancelFunc)

	if err := app.mux.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if err := app.files.Purge(); err != nil {
		app.logger.Error(ctx, "attachment purge failed", "err", err.Error())
	}

	app.logger.Info(ctx, "shutdown complete")
}
