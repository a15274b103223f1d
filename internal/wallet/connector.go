// Package wallet provides a simulated wallet connection
package wallet

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/events"
)

const (
	// DefaultAddress is the address yielded by the mock connector
	DefaultAddress = "0xMockedAddress"

	// MockSignature is returned for every signed message
	MockSignature = "0xSignedMessage"
)

// ErrNotConnected is returned by operations that need an active connection
var ErrNotConnected = errors.New("wallet not connected")

// Publisher delivers wallet lifecycle events
type Publisher interface {
	PublishSync(ctx context.Context, event events.Event) error
}

// MockConnector simulates a browser wallet: connecting always succeeds with a fixed address.
type MockConnector struct {
	mu        sync.Mutex
	address   string
	connected bool
	publisher Publisher
	logger    *zap.Logger
}

// NewMockConnector creates a disconnected connector. An empty address means DefaultAddress.
func NewMockConnector(address string, publisher Publisher, logger *zap.Logger) *MockConnector {
	if address == "" {
		address = DefaultAddress
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MockConnector{
		address:   address,
		publisher: publisher,
		logger:    logger.Named("wallet"),
	}
}

// Connect establishes the connection and returns the wallet address.
// Connecting while connected returns the current address without publishing.
func (m *MockConnector) Connect(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return m.address, nil
	}
	m.connected = true

	m.logger.Info("Wallet connected", zap.String("address", m.address))
	m.publish(ctx, events.WalletConnectedEvent{
		BaseEvent: events.NewBaseEvent(events.WalletConnected),
		Address:   m.address,
	})

	return m.address, nil
}

// Disconnect drops the connection. Disconnecting while disconnected does nothing.
func (m *MockConnector) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return
	}
	m.connected = false

	m.logger.Info("Wallet disconnected", zap.String("address", m.address))
	m.publish(context.Background(), events.WalletDisconnectedEvent{
		BaseEvent: events.NewBaseEvent(events.WalletDisconnected),
		Address:   m.address,
	})
}

// Address returns the connected address, if any
func (m *MockConnector) Address() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return "", false
	}
	return m.address, true
}

// SignMessage returns the mock signature for msg
func (m *MockConnector) SignMessage(ctx context.Context, msg string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, ok := m.Address(); !ok {
		return "", ErrNotConnected
	}

	m.logger.Debug("Message signed", zap.Int("length", len(msg)))
	return MockSignature, nil
}

// publish runs under m.mu so transitions reach subscribers in order
func (m *MockConnector) publish(ctx context.Context, event events.Event) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishSync(ctx, event); err != nil {
		m.logger.Warn("Wallet event handlers failed",
			zap.String("event_type", string(event.Type())),
			zap.Error(err))
	}
}
