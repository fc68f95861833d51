package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/melih/dockhouse/internal/adapters/builder"
	"github.com/melih/dockhouse/internal/adapters/docker"
	"github.com/melih/dockhouse/internal/adapters/http"
	"github.com/melih/dockhouse/internal/config"
)

// version is set at build time via ldflags
var version = "dev"

var rootCmd = &cobra.Command{
	Use:     "dockhouse",
	Short:   "HTTP API over the local Docker daemon",
	Version: version,
	Long: `dockhouse serves a small JSON API for listing, starting, stopping and removing
containers, reading their logs, listing and building images and launching new
containers. Every request is forwarded to the Docker daemon on its local unix socket.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log, nil
}

func serve(cfg *config.Config) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	// 1. Connect to the daemon; refuse to start without it
	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	cli, err := docker.Connect(ctx, cfg.Socket)
	cancel()
	if err != nil {
		log.WithError(err).WithField("socket", cfg.Socket).Error("Docker connection failed")
		return err
	}
	defer cli.Close()
	log.WithFields(logrus.Fields{"socket": cfg.Socket, "api_version": cli.ClientVersion()}).Info("connected to Docker daemon")

	// 2. Initialize Adapters, all sharing the one client
	dockerAdapter := docker.NewAdapter(cli, log)
	builderAdapter := builder.NewBuilderAdapter(cli, log)

	// 3. Setup Framework (Fiber) and routes
	app := http.NewApp(http.Options{
		Containers:   dockerAdapter,
		Images:       dockerAdapter,
		System:       dockerAdapter,
		Builder:      builderAdapter,
		StrictStatus: cfg.StrictStatus,
		Logger:       log,
	})

	// 4. Start Server
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("server starting")
		errCh <- app.Listen(cfg.Addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("shutting down")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("shutdown timed out with requests still in flight")
			return nil
		}
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
