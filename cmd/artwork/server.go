package main

import (
	"context"
	"github.com/go-faster/errors"
	"github.com/katana-project/artwork/config"
	"github.com/katana-project/artwork/server"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"net/http"
	"os"
	"os/signal"
	"time"
)

// shutdownTimeout is the time in-flight requests are given to finish on shutdown.
const shutdownTimeout = 10 * time.Second

// handleServer handles the server sub-command.
func (ac *appContext) handleServer(cCtx *cli.Context) (err error) {
	path := cCtx.String("config")

	cfg, err := config.ParseWithDefaults(path)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	srv, handler, err := server.NewConfiguredRouter(cfg, ac.logger)
	if err != nil {
		return errors.Wrap(err, "failed to configure router")
	}

	if cCtx.Bool("watch") {
		watcher, werr := config.NewWatcher(path, func(cfg *config.Config) {
			if err := srv.Reconfigure(cfg); err != nil {
				ac.logger.Error("failed to reconfigure server", zap.Error(err))
			}
		}, ac.logger)
		if werr != nil {
			return errors.Wrap(werr, "failed to watch config")
		}
		defer func() {
			if err0 := watcher.Close(); err0 != nil {
				err = multierr.Append(err, errors.Wrap(err0, "failed to close config watcher"))
			}
		}()
	}

	var (
		httpServer = &http.Server{Addr: cfg.HTTP.Host, Handler: handler}
		errorChan  = make(chan error)
	)
	go func() {
		ac.logger.Info("listening for http requests", zap.String("addr", httpServer.Addr))
		errorChan <- httpServer.ListenAndServe()
	}()

	ctx, stop := signal.NotifyContext(cCtx.Context, os.Interrupt)
	defer stop()

	select {
	case <-ctx.Done():
		ac.logger.Info("shutting down gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err = httpServer.Shutdown(shutdownCtx); err != nil {
			err = errors.Wrap(err, "failed to shutdown http server")
		}
	case err = <-errorChan:
		err = errors.Wrap(err, "http server errored")
	}

	return err
}
