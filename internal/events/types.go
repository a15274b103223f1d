// internal/events/types.go
package events

import (
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	// Wallet lifecycle events
	WalletConnected    EventType = "wallet.connected"
	WalletDisconnected EventType = "wallet.disconnected"

	// Positions resource events
	PositionsFetched     EventType = "positions.fetched"
	PositionsFetchFailed EventType = "positions.fetch_failed"
	PositionsInvalidated EventType = "positions.invalidated"
)

// Event is the base interface for all events.
type Event interface {
	Type() EventType
	Timestamp() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	EventType EventType
	EventTime time.Time
}

// NewBaseEvent stamps an event of the given type with the current time.
func NewBaseEvent(t EventType) BaseEvent {
	return BaseEvent{EventType: t, EventTime: time.Now()}
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.EventTime
}

// WalletConnectedEvent is emitted when the wallet yields an address.
type WalletConnectedEvent struct {
	BaseEvent
	Address string
}

// WalletDisconnectedEvent is emitted when the wallet connection drops.
type WalletDisconnectedEvent struct {
	BaseEvent
	Address string
}

// PositionsFetchedEvent is emitted after a successful positions fetch.
type PositionsFetchedEvent struct {
	BaseEvent
	Address       string
	Count         int
	TotalValueUSD string
}

// PositionsFetchFailedEvent is emitted after a failed positions fetch.
type PositionsFetchFailedEvent struct {
	BaseEvent
	Address string
	Error   error
}

// PositionsInvalidatedEvent is emitted when cached positions are dropped.
type PositionsInvalidatedEvent struct {
	BaseEvent
	Address string
}
