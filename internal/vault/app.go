// Package vault wires the snippet vault backend together: configuration,
// logging, the shared database client, command routing and the stdin/stdout
// bridge to the UI process.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sabry-awad97/snippet-vault/internal/logging"
	"github.com/sabry-awad97/snippet-vault/internal/vault/auth"
	"github.com/sabry-awad97/snippet-vault/internal/vault/bridge"
	"github.com/sabry-awad97/snippet-vault/internal/vault/commands"
	"github.com/sabry-awad97/snippet-vault/internal/vault/config"
	"github.com/sabry-awad97/snippet-vault/internal/vault/state"
	"golang.org/x/term"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

type App struct {
	config *config.Config
	logger logging.Logger
	state  *state.State
	bridge *bridge.Server
	in     io.Reader
	out    io.Writer
}

// NewApp builds the backend. Replies go to out, logs go to logOut.
func NewApp(cfg *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logOut, level)

	keys, err := auth.NewKeyring(cfg.SecretKey, cfg.RetiredSecretKeys...)
	if err != nil {
		return nil, fmt.Errorf("keyring: %w", err)
	}
	tokens, err := auth.NewTokenService(keys, cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	st := state.New()
	d := commands.NewDispatcher(st, tokens, logger, commands.WithBcryptCost(cfg.BcryptCost))

	return &App{
		config: cfg,
		logger: logger,
		state:  st,
		bridge: bridge.NewServer(commands.NewRouter(d), logger, cfg.MaxInFlight),
		in:     in,
		out:    out,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) (stop func()) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancelFunc()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

// Run opens the database, serves the bridge until the input ends or a
// signal arrives, and closes the client once in-flight commands finish.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	stop := app.initSignalHandler(cancelFunc)
	defer stop()

	if f, ok := app.in.(*os.File); ok && isTerminal(int(f.Fd())) {
		app.logger.Warn(ctx, "stdin is a terminal; expecting one JSON request per line")
	}

	app.logger.Info(ctx, "Starting app...", "driver", app.config.DatabaseDriver)

	client, err := state.Open(ctx, app.config.Dialect(), app.config.DatabaseDSN)
	if err != nil {
		app.logger.Error(ctx, "database init failed", "error", errors.Unwrap(err))
		return err
	}
	if err := app.state.Init(client); err != nil {
		return err
	}
	defer func() {
		if err := app.state.Close(); err != nil {
			app.logger.Error(ctx, "close database", "error", err)
		}
	}()

	served := make(chan error, 1)
	go func() { served <- app.bridge.Serve(ctx, app.in, app.out) }()

	select {
	case err = <-served:
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")
	}

	if err != nil {
		app.logger.Error(ctx, "bridge stopped", "error", err)
		return err
	}
	app.logger.Info(ctx, "app stopped")
	return nil
}
