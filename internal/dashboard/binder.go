// Package dashboard wires the wallet lifecycle to the positions controller
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/events"
	"github.com/rovshanmuradov/token-dashboard/internal/query"
)

// Snapshot is the controller snapshot of the positions resource
type Snapshot = query.Snapshot[[]domain.Position]

// PositionsController is the part of the synchronization controller the binder drives
type PositionsController interface {
	Enable(connectionKey string, opts ...query.ConfigureOption[[]domain.Position])
	Invalidate()
	Subscribe(fn func(Snapshot)) (unsubscribe func())
}

// EventBus is the part of the event bus the binder uses
type EventBus interface {
	Subscribe(eventType events.EventType, handler events.Handler) events.Subscription
	Publish(event events.Event) error
}

// Binder enables the controller while a wallet is connected and republishes
// fetch outcomes as positions events.
type Binder struct {
	controller PositionsController
	bus        EventBus
	logger     *zap.Logger

	mu          sync.Mutex
	started     bool
	subs        []events.Subscription
	unsubscribe func()
	lastCount   uint64
	lastKey     string
}

// NewBinder creates a binder. Call Start to begin forwarding.
func NewBinder(controller PositionsController, bus EventBus, logger *zap.Logger) *Binder {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Binder{
		controller: controller,
		bus:        bus,
		logger:     logger.Named("binder"),
	}
}

// Start subscribes to wallet events and to controller snapshots
func (b *Binder) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return
	}
	b.started = true

	b.subs = append(b.subs,
		b.bus.Subscribe(events.WalletConnected, events.HandlerFunc(b.onConnected)),
		b.bus.Subscribe(events.WalletDisconnected, events.HandlerFunc(b.onDisconnected)),
	)
	b.unsubscribe = b.controller.Subscribe(b.onSnapshot)

	b.logger.Debug("Binder started")
}

// Stop removes all subscriptions
func (b *Binder) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.started {
		return
	}
	b.started = false

	for _, sub := range b.subs {
		sub.Unsubscribe()
	}
	b.subs = nil

	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}

	b.logger.Debug("Binder stopped")
}

func (b *Binder) onConnected(_ context.Context, e events.Event) error {
	ev, ok := e.(events.WalletConnectedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.Type())
	}

	b.logger.Info("Enabling positions", zap.String("address", ev.Address))
	b.controller.Enable(ev.Address)
	return nil
}

func (b *Binder) onDisconnected(_ context.Context, e events.Event) error {
	if _, ok := e.(events.WalletDisconnectedEvent); !ok {
		return fmt.Errorf("unexpected event %T for %s", e, e.Type())
	}

	b.logger.Info("Invalidating positions")
	b.controller.Invalidate()
	return nil
}

// onSnapshot runs on the controller's notify path and must not block
func (b *Binder) onSnapshot(s Snapshot) {
	b.mu.Lock()
	var out []events.Event

	if b.lastKey != "" && !s.Enabled {
		out = append(out, events.PositionsInvalidatedEvent{
			BaseEvent: events.NewBaseEvent(events.PositionsInvalidated),
			Address:   b.lastKey,
		})
	}
	b.lastKey = s.ConnectionKey

	if s.FetchCount > b.lastCount {
		b.lastCount = s.FetchCount
		switch s.Status {
		case query.StatusSuccess:
			out = append(out, events.PositionsFetchedEvent{
				BaseEvent:     events.NewBaseEvent(events.PositionsFetched),
				Address:       s.ConnectionKey,
				Count:         len(s.Data),
				TotalValueUSD: domain.TotalValueUSD(s.Data).StringFixed(2),
			})
		case query.StatusError:
			out = append(out, events.PositionsFetchFailedEvent{
				BaseEvent: events.NewBaseEvent(events.PositionsFetchFailed),
				Address:   s.ConnectionKey,
				Error:     s.Err,
			})
		}
	}
	b.mu.Unlock()

	for _, e := range out {
		if err := b.bus.Publish(e); err != nil {
			b.logger.Debug("Positions event not published",
				zap.String("event_type", string(e.Type())),
				zap.Error(err))
		}
	}
}
