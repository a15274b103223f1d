package ui

import (
	"context"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/export"
	"github.com/rovshanmuradov/token-dashboard/internal/logger"
)

// PositionsResource is the part of the positions controller the screens use
type PositionsResource interface {
	Snapshot() Snapshot
	Refetch(ctx context.Context) ([]domain.Position, error)
	Focus()
}

// Wallet is the wallet connector as seen by the screens
type Wallet interface {
	Connect(ctx context.Context) (string, error)
	Disconnect()
	Address() (string, bool)
}

// Exporter writes positions snapshots to disk
type Exporter interface {
	ExportPositions(positions []domain.Position, options export.ExportOptions) (string, error)
}

// LogSource supplies recent log entries to the logs screen
type LogSource interface {
	GetRecentLogs(limit int) []logger.LogEntry
}

// Services provides the dependencies of the UI screens
type Services struct {
	Context   context.Context
	Positions PositionsResource
	Wallet    Wallet
	Exporter  Exporter
	Logs      LogSource
	ExportDir string
	Logger    *zap.Logger
}

// GetContext returns the context bound to the program lifetime
func (s Services) GetContext() context.Context {
	if s.Context == nil {
		return context.Background()
	}
	return s.Context
}

// GetLogger returns the logger
func (s Services) GetLogger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
