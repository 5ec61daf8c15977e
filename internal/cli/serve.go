// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillview/internal/catalog"
	"skillview/internal/instance"
	"skillview/internal/web"
)

// runServe runs the HTTP API in the foreground until SIGINT or SIGTERM.
// It holds the instance lock, so it excludes a TUI on the same data dir.
func (r *runner) runServe(args []string) error {
	fs := newFlagSet("serve")
	bind := fs.String("bind", "", "address to bind (default from config)")
	port := fs.IntP("port", "p", -1, "port to listen on, 0 for ephemeral (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	env, err := r.loadEnv(r.opts)
	if err != nil {
		return err
	}
	cfg := web.Config{Bind: env.Config.Web.Bind, Port: env.Config.Web.Port}
	if *bind != "" {
		cfg.Bind = *bind
	}
	if *port >= 0 {
		cfg.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, env, cfg)
}

// Serve acquires the instance lock, starts the API and blocks until ctx is
// done or the server fails.
func Serve(ctx context.Context, env *Env, cfg web.Config) error {
	fl, err := instance.Lock(env.DataDir)
	if err != nil {
		return err
	}
	defer instance.Cleanup(env.DataDir, fl)

	logManager, err := env.NewLogManager(env.Stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logManager.Close() }()

	logger := logManager.For("serve")

	store, err := env.OpenUsage(logManager.For("usage"))
	if err != nil {
		return err
	}
	scanner := env.Scanner(logManager.For("catalog"))

	server := web.New(cfg, web.Deps{
		Catalog:   scanner,
		Usage:     store,
		Overrides: env.Overrides,
	}, logManager)

	ln, err := server.Listen()
	if err != nil {
		return err
	}
	if err := instance.WritePort(env.DataDir, server.Addr()); err != nil {
		logger.Error("failed to write port file", "error", err)
	}

	logger.Info("serving catalog",
		"root", scanner.Root(),
		"skills", catalog.Count(scanner.Scan()),
		"url", "http://"+server.Addr(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("web server shutdown error", "error", err)
	}
	<-errCh
	return nil
}
