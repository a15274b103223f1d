package ui

import (
	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/query"
)

// Tea message types for UI communication

// Snapshot is the positions resource state rendered by the dashboard
type Snapshot = query.Snapshot[[]domain.Position]

// RouterMsg represents navigation between screens
type RouterMsg struct {
	To Route
}

// SnapshotMsg carries the latest controller snapshot
type SnapshotMsg struct {
	Snapshot Snapshot
}

// WalletMsg reports the outcome of a connect or disconnect request
type WalletMsg struct {
	Address   string
	Connected bool
	Err       error
}

// RefetchResultMsg reports the outcome of a manual refresh
type RefetchResultMsg struct {
	Count int
	Err   error
}

// ExportResultMsg reports the outcome of an export
type ExportResultMsg struct {
	Path string
	Err  error
}

// ToastExpiredMsg hides the toast with the given id
type ToastExpiredMsg struct {
	ID int
}

// ErrorMsg represents error conditions
type ErrorMsg struct {
	Error error
	Title string
}

// SuccessMsg represents successful operations
type SuccessMsg struct {
	Message string
}

// Route represents different screens in the application
type Route int

const (
	RouteDashboard Route = iota
	RouteLogs
)

// String returns the string representation of the route
func (r Route) String() string {
	switch r {
	case RouteDashboard:
		return "Dashboard"
	case RouteLogs:
		return "Logs"
	default:
		return "Unknown"
	}
}
