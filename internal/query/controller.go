package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the current value of a resource
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Controller keeps one resource synchronized with its data source.
// It decides when to fetch (enable, interval, focus, manual refetch), keeps the
// last good value across failures and drops everything on invalidation.
type Controller[T any] struct {
	key            string
	fetch          FetchFunc[T]
	interval       time.Duration
	refetchOnFocus bool
	initial        *T
	logger         *zap.Logger
	observer       Observer
	cache          *Cache[T]
	group          singleflight.Group

	mu             sync.Mutex
	closed         bool
	enabled        bool
	connectionKey  string
	status         Status
	hasData        bool
	err            error
	updatedAt      time.Time
	fetchCount     uint64
	generation     uint64
	inFlight       bool
	sessionStarted bool
	cancel         context.CancelFunc
	timer          *time.Timer
	timerSeq       uint64

	// notifyMu serializes listener delivery
	notifyMu  sync.Mutex
	subMu     sync.Mutex
	subs      []subscriber[T]
	nextSubID uint64
}

type subscriber[T any] struct {
	id uint64
	fn func(Snapshot[T])
}

// NewController creates a disabled controller for the resource identified by key
func NewController[T any](key string, fetch FetchFunc[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		key:            key,
		fetch:          fetch,
		interval:       DefaultInterval,
		refetchOnFocus: true,
		logger:         zap.NewNop(),
		observer:       nopObserver{},
		cache:          NewCache[T](),
		status:         StatusIdle,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.logger = c.logger.Named("query").With(zap.String("resource", key))
	return c
}

// Key returns the resource key
func (c *Controller[T]) Key() string {
	return c.key
}

// Configure follows the upstream connection state. Enabling starts exactly one fetch;
// a seed (or the construction-time initial data on the first enable) is shown
// immediately while that fetch runs in the background. Disabling clears data and
// error and discards any in-flight or scheduled fetch.
func (c *Controller[T]) Configure(enabled bool, opts ...ConfigureOption[T]) {
	var o configureOptions[T]
	for _, opt := range opts {
		opt(&o)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	switch {
	case enabled && c.enabled:
		if o.connectionKey == "" || o.connectionKey == c.connectionKey {
			c.mu.Unlock()
			return
		}
		c.logger.Info("Connection changed, resetting resource",
			zap.String("from", c.connectionKey),
			zap.String("to", o.connectionKey))
		c.resetLocked()
		c.enableLocked(o)
	case enabled:
		c.enableLocked(o)
	case c.enabled:
		c.resetLocked()
		c.logger.Info("Resource invalidated")
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.notify()
}

// Enable is Configure(true) for the given connection key
func (c *Controller[T]) Enable(connectionKey string, opts ...ConfigureOption[T]) {
	c.Configure(true, append([]ConfigureOption[T]{WithConnectionKey[T](connectionKey)}, opts...)...)
}

// Invalidate is Configure(false)
func (c *Controller[T]) Invalidate() {
	c.Configure(false)
}

// Refetch fetches now and returns the outcome. A fetch already in flight is joined
// instead of starting a second one. Disabled controllers reject with ErrDisabled.
func (c *Controller[T]) Refetch(ctx context.Context) (T, error) {
	var zero T

	c.mu.Lock()
	if c.closed || !c.enabled {
		c.mu.Unlock()
		return zero, &DisabledError{Key: c.key}
	}

	var ch <-chan singleflight.Result
	started := false
	if c.inFlight {
		c.observer.TriggerJoined(c.key, TriggerManual)
		ch = c.group.DoChan(c.key, c.orphan)
	} else {
		ch = c.startFetchLocked(TriggerManual)
		started = true
	}
	c.mu.Unlock()

	if started {
		c.notify()
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Focus signals that the host UI regained foreground visibility
func (c *Controller[T]) Focus() {
	c.mu.Lock()
	if c.closed || !c.enabled || !c.refetchOnFocus {
		c.mu.Unlock()
		return
	}

	if c.inFlight {
		c.observer.TriggerCoalesced(c.key, TriggerFocus)
		c.logger.Debug("Focus trigger coalesced with in-flight fetch")
		c.mu.Unlock()
		return
	}

	c.startFetchLocked(TriggerFocus)
	c.mu.Unlock()

	c.notify()
}

// Snapshot returns a copy of the current state
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshotLocked()
}

// Subscribe registers fn to receive a snapshot after every state change.
// Listeners run in registration order on the goroutine that changed the state and
// must not call Configure, Refetch or Focus synchronously.
func (c *Controller[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	c.subMu.Lock()
	c.nextSubID++
	id := c.nextSubID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			defer c.subMu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Close stops timers, cancels in-flight work and drops subscribers
func (c *Controller[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.resetLocked()
	c.closed = true
	c.mu.Unlock()

	c.subMu.Lock()
	c.subs = nil
	c.subMu.Unlock()

	c.logger.Debug("Controller closed")
}

func (c *Controller[T]) enableLocked(o configureOptions[T]) {
	c.enabled = true
	c.connectionKey = o.connectionKey
	c.sessionStarted = false

	seed := o.seed
	if seed == nil {
		seed = c.initial
	}
	c.initial = nil

	if seed != nil {
		entry := c.cache.Set(c.key, *seed)
		c.hasData = true
		c.updatedAt = entry.UpdatedAt
		c.status = StatusSuccess
	}

	c.logger.Info("Resource enabled",
		zap.String("connection", o.connectionKey),
		zap.Bool("seeded", seed != nil))

	c.startFetchLocked(TriggerEnable)
}

func (c *Controller[T]) resetLocked() {
	c.generation++
	c.stopTimerLocked()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.inFlight {
		c.group.Forget(c.key)
		c.inFlight = false
	}

	c.enabled = false
	c.connectionKey = ""
	c.status = StatusIdle
	c.hasData = false
	c.err = nil
	c.updatedAt = time.Time{}
	c.sessionStarted = false
	c.cache.Remove(c.key)
}

func (c *Controller[T]) startFetchLocked(trigger Trigger) <-chan singleflight.Result {
	c.stopTimerLocked()

	if c.hasData || c.sessionStarted {
		c.status = StatusFetching
	} else {
		c.status = StatusLoading
	}
	c.sessionStarted = true
	c.inFlight = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	gen := c.generation

	c.observer.TriggerStarted(c.key, trigger)
	c.logger.Debug("Fetch started",
		zap.String("trigger", trigger.String()),
		zap.String("status", c.status.String()))

	return c.group.DoChan(c.key, func() (interface{}, error) {
		return c.run(ctx, cancel, gen)
	})
}

func (c *Controller[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64) (interface{}, error) {
	defer cancel()

	c.observer.FetchStarted(c.key)
	start := time.Now()
	data, err := c.safeFetch(ctx)
	elapsed := time.Since(start)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.observer.FetchDiscarded(c.key, elapsed)
		c.logger.Debug("Discarding fetch result after invalidation",
			zap.Duration("elapsed", elapsed))
		return nil, ErrInvalidated
	}

	c.group.Forget(c.key)
	c.inFlight = false
	c.cancel = nil
	c.fetchCount++

	if err != nil {
		c.err = err
		c.status = StatusError
	} else {
		entry := c.cache.Set(c.key, data)
		c.hasData = true
		c.updatedAt = entry.UpdatedAt
		c.err = nil
		c.status = StatusSuccess
	}
	c.armTimerLocked()
	c.mu.Unlock()

	c.observer.FetchFinished(c.key, elapsed, err)
	if err != nil {
		c.logger.Warn("Fetch failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	} else {
		c.logger.Debug("Fetch succeeded", zap.Duration("elapsed", elapsed))
	}

	c.notify()

	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Controller[T]) safeFetch(ctx context.Context) (data T, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Fetch panicked", zap.Any("panic", r))
			err = fmt.Errorf("fetch %q panicked: %v", c.key, r)
		}
	}()

	return c.fetch(ctx)
}

// orphan only runs if a join races with completion; the caller then gets ErrInvalidated
func (c *Controller[T]) orphan() (interface{}, error) {
	return nil, ErrInvalidated
}

func (c *Controller[T]) armTimerLocked() {
	c.stopTimerLocked()
	if c.interval <= 0 || !c.enabled {
		return
	}

	seq := c.timerSeq
	c.timer = time.AfterFunc(c.interval, func() {
		c.onTick(seq)
	})
}

func (c *Controller[T]) stopTimerLocked() {
	c.timerSeq++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller[T]) onTick(seq uint64) {
	c.mu.Lock()
	if c.closed || !c.enabled || seq != c.timerSeq {
		c.mu.Unlock()
		return
	}
	c.timer = nil

	if c.inFlight {
		c.observer.TriggerCoalesced(c.key, TriggerInterval)
		c.mu.Unlock()
		return
	}

	c.startFetchLocked(TriggerInterval)
	c.mu.Unlock()

	c.notify()
}

func (c *Controller[T]) snapshotLocked() Snapshot[T] {
	s := Snapshot[T]{
		Key:           c.key,
		Status:        c.status,
		HasData:       c.hasData,
		IsLoading:     c.status == StatusLoading,
		IsFetching:    c.inFlight,
		Err:           c.err,
		ConnectionKey: c.connectionKey,
		Enabled:       c.enabled,
		UpdatedAt:     c.updatedAt,
		FetchCount:    c.fetchCount,
	}

	if c.hasData {
		if entry, ok := c.cache.Get(c.key); ok {
			s.Data = entry.Data
		}
	}

	return s
}

func (c *Controller[T]) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.subMu.Lock()
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.subMu.Unlock()

	if len(subs) == 0 {
		return
	}

	snap := c.Snapshot()
	for _, s := range subs {
		s.fn(snap)
	}
}
