package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nulzo/model-registry/internal/catalog"
	"github.com/nulzo/model-registry/internal/cli"
	"github.com/nulzo/model-registry/internal/config"
	"github.com/nulzo/model-registry/internal/gateway"
	"github.com/nulzo/model-registry/internal/platform/logger"
	"github.com/nulzo/model-registry/internal/platform/otel"
	"github.com/nulzo/model-registry/internal/registry"
	"github.com/nulzo/model-registry/internal/server"
	"go.uber.org/zap"
)

func main() {
	log, err := logger.New(logger.DefaultConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer := otel.ShutdownFunc(otel.Noop)
	if cfg.Tracing.Enabled {
		shutdownTracer, err = otel.InitTracer(cfg.Tracing.ServiceName, log, os.Stderr)
		if err != nil {
			log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	if cfg.Gateway.APIKey == "" {
		log.Warn(fmt.Sprintf("%s %s", cli.WarningSign(), cli.Style("no gateway API key configured, chat completions will fail", cli.Yellow)))
	}

	client := gateway.NewClient(cfg.Gateway, nil)

	reg, err := registry.New(
		catalog.Default(),
		client.Factory(),
		registry.WithDefaultModel(cfg.Registry.DefaultModel),
		registry.WithLogger(log.Named("registry")),
	)
	if err != nil {
		log.Fatal("failed to build model registry", zap.Error(err))
	}

	models := 0
	for _, p := range reg.ListCatalog() {
		models += len(p.Models)
	}
	log.Info(fmt.Sprintf("%s model registry ready", cli.CheckMark()),
		zap.Int("models", models),
		zap.String("default", reg.DefaultID()),
	)

	srv := server.New(cfg, log, reg)
	if err := srv.Run(ctx); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
