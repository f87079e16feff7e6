package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leengari/recordstore/internal/network"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	addConfigFlags(cmd.Flags(),
		"addr", "static_dir", "read_timeout", "write_timeout", "shutdown_timeout", "max_body_bytes")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	eng, registry, err := a.openEngine()
	if err != nil {
		return err
	}
	defer func() {
		if err := registry.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	server, err := network.NewServer(eng, network.Options{
		Addr:            a.cfg.Addr,
		ReadTimeout:     a.cfg.ReadTimeout,
		WriteTimeout:    a.cfg.WriteTimeout,
		ShutdownTimeout: a.cfg.ShutdownTimeout,
		MaxBodyBytes:    a.cfg.MaxBodyBytes,
		StaticDir:       a.cfg.StaticDir,
	})
	if err != nil {
		return err
	}

	slog.Info("Application ready!",
		"storage_root", a.cfg.StorageRoot,
		"backend", a.cfg.Backend,
		"pid", os.Getpid(),
	)
	if err := server.Run(ctx); err != nil {
		return err
	}
	slog.Info("Server stopped")
	return nil
}
