package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/token-dashboard/internal/config"
	"github.com/rovshanmuradov/token-dashboard/internal/dashboard"
	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/events"
	"github.com/rovshanmuradov/token-dashboard/internal/export"
	"github.com/rovshanmuradov/token-dashboard/internal/logger"
	"github.com/rovshanmuradov/token-dashboard/internal/metrics"
	"github.com/rovshanmuradov/token-dashboard/internal/positions"
	"github.com/rovshanmuradov/token-dashboard/internal/query"
	"github.com/rovshanmuradov/token-dashboard/internal/ui"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/screen"
	"github.com/rovshanmuradov/token-dashboard/internal/wallet"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "Path to config file (defaults and TOKEN_DASHBOARD_* env when empty)")
	flag.Parse()

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Logs go to the ring buffer only; console output would corrupt the TUI
	logBuffer, err := logger.NewLogBuffer(cfg.LogBufferSize, cfg.LogSpillFile, nil)
	if err != nil {
		log.Fatalf("Failed to create log buffer: %v", err)
	}
	stopFlush := logBuffer.StartPeriodicFlush(5 * time.Second)

	appLogger, err := logger.CreateTUILoggerWithBuffer(cfg.DebugLogging, logBuffer)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	runErr := run(rootCtx, cfg, appLogger, logBuffer)

	close(stopFlush)
	_ = appLogger.Sync()
	if err := logBuffer.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close log buffer: %v\n", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Dashboard failed: %v\n", runErr)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger *zap.Logger, logs *logger.LogBuffer) error {
	appLogger.Info("Starting token dashboard",
		zap.String("api", cfg.APIBaseURL),
		zap.Duration("refresh_interval", cfg.RefreshInterval()))

	bus := events.NewBus(appLogger, 256)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := bus.Shutdown(shutdownCtx); err != nil {
			appLogger.Warn("Event bus shutdown incomplete", zap.Error(err))
		}
	}()

	audit := bus.SubscribeAll(events.HandlerFunc(func(_ context.Context, e events.Event) error {
		appLogger.Debug("Event", zap.String("event_type", string(e.Type())))
		return nil
	}))
	defer audit.Unsubscribe()

	client := positions.NewClient(cfg.APIBaseURL,
		positions.WithLatency(cfg.SimulatedLatency()),
		positions.WithLogger(appLogger))
	collector := metrics.NewCollector(true)

	opts := []query.Option[[]domain.Position]{
		query.WithInterval[[]domain.Position](cfg.RefreshInterval()),
		query.WithLogger[[]domain.Position](appLogger),
		query.WithObserver[[]domain.Position](collector),
		query.WithRefetchOnFocus[[]domain.Position](cfg.RefetchOnFocus),
	}
	if cfg.PrefetchSeed {
		if seed, ok := dashboard.Prefetch(ctx, client.Fetch, appLogger); ok {
			opts = append(opts, query.WithInitialData(seed))
		}
	}

	controller := query.NewController[[]domain.Position](positions.ResourceKey, client.Fetch, opts...)
	defer controller.Close()

	binder := dashboard.NewBinder(controller, bus, appLogger)
	binder.Start()
	defer binder.Stop()

	updates := ui.NewUpdateSender(64, appLogger)
	defer updates.Close()
	unsubscribe := controller.Subscribe(updates.SendSnapshot)
	defer unsubscribe()

	connector := wallet.NewMockConnector(cfg.WalletAddress, bus, appLogger)

	services := ui.Services{
		Context:   ctx,
		Positions: controller,
		Wallet:    connector,
		Exporter:  export.NewPositionExporter(appLogger),
		Logs:      logs,
		ExportDir: cfg.ExportDir,
		Logger:    appLogger,
	}

	root := router.New(ui.RouteDashboard, screen.NewDashboardScreen(services)).
		Register(ui.RouteLogs, func() router.Screen { return screen.NewLogsScreen(services.Logs) }).
		WithListener(updates)

	program := tea.NewProgram(
		ui.NewSafeModel(root, appLogger),
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		// the program exiting ends the metrics server too
		defer cancel()

		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("TUI application failed: %w", err)
		}
		return nil
	})

	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, cfg.MetricsAddr, collector, appLogger)
		})
	}

	err := g.Wait()

	sent, dropped := updates.GetStats()
	appLogger.Info("Shutting down token dashboard",
		zap.Uint64("ui_updates_sent", sent),
		zap.Uint64("ui_updates_dropped", dropped))

	return err
}

func serveMetrics(ctx context.Context, addr string, collector *metrics.Collector, appLogger *zap.Logger) error {
	r := chi.NewRouter()
	r.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Metrics listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
