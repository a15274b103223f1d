package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/config"
	"github.com/rovshanmuradov/token-dashboard/internal/logger"
	"github.com/rovshanmuradov/token-dashboard/internal/mockapi"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (defaults and TOKEN_DASHBOARD_* env when empty)")
	addr := flag.String("addr", "", "Listen address, overrides api_listen_addr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.CreatePrettyLogger(cfg.DebugLogging, nil)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	listenAddr := cfg.APIListenAddr
	if *addr != "" {
		listenAddr = *addr
	}

	server := mockapi.NewServer(mockapi.Config{
		FailEvery: cfg.APIFailEvery,
		Latency:   cfg.APILatency(),
		Jitter:    cfg.APIJitter,
	}, appLogger)

	if err := server.Start(ctx, listenAddr); err != nil {
		appLogger.Error("Positions API failed", zap.Error(err))
		_ = appLogger.Sync()
		os.Exit(1)
	}
}
