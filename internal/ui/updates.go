package ui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// UpdateSender delivers messages from background goroutines to the program without
// blocking them. Snapshots are latest-wins and never dropped; other messages are
// dropped when the queue is full.
type UpdateSender struct {
	msgChan        chan tea.Msg
	snapReady      chan struct{}
	droppedUpdates uint64
	sentUpdates    uint64
	logger         *zap.Logger
	statsInterval  time.Duration
	stopStats      chan struct{}
	closeOnce      sync.Once

	mu     sync.Mutex
	latest *Snapshot
}

// NewUpdateSender creates a sender with a queue of size messages
func NewUpdateSender(size int, logger *zap.Logger) *UpdateSender {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	us := &UpdateSender{
		msgChan:       make(chan tea.Msg, size),
		snapReady:     make(chan struct{}, 1),
		logger:        logger.Named("ui_updates"),
		statsInterval: 30 * time.Second,
		stopStats:     make(chan struct{}),
	}

	go us.logStats()

	return us
}

// SendUpdate queues a message without blocking and reports whether it was queued
func (us *UpdateSender) SendUpdate(msg tea.Msg) bool {
	select {
	case us.msgChan <- msg:
		atomic.AddUint64(&us.sentUpdates, 1)
		return true
	default:
		atomic.AddUint64(&us.droppedUpdates, 1)
		return false
	}
}

// SendSnapshot replaces the pending snapshot. It fits the controller's Subscribe signature.
func (us *UpdateSender) SendSnapshot(s Snapshot) {
	us.mu.Lock()
	us.latest = &s
	us.mu.Unlock()

	select {
	case us.snapReady <- struct{}{}:
	default:
	}
	atomic.AddUint64(&us.sentUpdates, 1)
}

// Listen returns a command that waits for the next message. Screens re-issue it
// after every message they receive from it.
func (us *UpdateSender) Listen() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-us.snapReady:
				if s, ok := us.takeSnapshot(); ok {
					return SnapshotMsg{Snapshot: s}
				}
			case msg := <-us.msgChan:
				return msg
			case <-us.stopStats:
				return nil
			}
		}
	}
}

func (us *UpdateSender) takeSnapshot() (Snapshot, bool) {
	us.mu.Lock()
	defer us.mu.Unlock()

	if us.latest == nil {
		return Snapshot{}, false
	}
	s := *us.latest
	us.latest = nil
	return s, true
}

// GetStats returns current statistics
func (us *UpdateSender) GetStats() (sent, dropped uint64) {
	sent = atomic.LoadUint64(&us.sentUpdates)
	dropped = atomic.LoadUint64(&us.droppedUpdates)
	return sent, dropped
}

// logStats periodically logs statistics
func (us *UpdateSender) logStats() {
	ticker := time.NewTicker(us.statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sent, dropped := us.GetStats()
			if dropped > 0 {
				us.logger.Warn("UI update statistics",
					zap.Uint64("sent", sent),
					zap.Uint64("dropped", dropped),
					zap.Float64("drop_rate", float64(dropped)/float64(sent+dropped)*100))
			}
		case <-us.stopStats:
			return
		}
	}
}

// Close stops the sender and releases pending Listen commands
func (us *UpdateSender) Close() {
	us.closeOnce.Do(func() {
		close(us.stopStats)
	})
}
