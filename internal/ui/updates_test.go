package ui

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/token-dashboard/internal/query"
)

func TestUpdateSenderNonBlocking(t *testing.T) {
	sender := NewUpdateSender(10, zaptest.NewLogger(t))
	defer sender.Close()

	for i := 0; i < 10; i++ {
		assert.True(t, sender.SendUpdate(SuccessMsg{Message: "queued"}))
	}

	start := time.Now()
	for i := 0; i < 100; i++ {
		assert.False(t, sender.SendUpdate(SuccessMsg{Message: "dropped"}))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond, "SendUpdate must not block")

	sent, dropped := sender.GetStats()
	assert.Equal(t, uint64(10), sent)
	assert.Equal(t, uint64(100), dropped)
}

func TestUpdateSenderConcurrent(t *testing.T) {
	sender := NewUpdateSender(100, zaptest.NewLogger(t))
	defer sender.Close()

	const goroutines, perGoroutine = 10, 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				sender.SendUpdate(ErrorMsg{Error: errors.New("boom")})
			}
		}()
	}
	wg.Wait()

	sent, dropped := sender.GetStats()
	assert.Equal(t, uint64(goroutines*perGoroutine), sent+dropped)
}

func TestUpdateSenderSnapshotsAreLatestWins(t *testing.T) {
	sender := NewUpdateSender(1, zaptest.NewLogger(t))
	defer sender.Close()

	sender.SendSnapshot(Snapshot{Status: query.StatusLoading, FetchCount: 0})
	sender.SendSnapshot(Snapshot{Status: query.StatusFetching, FetchCount: 1})
	sender.SendSnapshot(Snapshot{Status: query.StatusSuccess, FetchCount: 2})

	msg := sender.Listen()()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, query.StatusSuccess, snap.Snapshot.Status)
	assert.Equal(t, uint64(2), snap.Snapshot.FetchCount)

	_, dropped := sender.GetStats()
	assert.Zero(t, dropped, "snapshots are never dropped")
}

func TestUpdateSenderListenDeliversQueuedMessage(t *testing.T) {
	sender := NewUpdateSender(4, zaptest.NewLogger(t))
	defer sender.Close()

	sender.SendUpdate(ExportResultMsg{Path: "exports/positions.csv"})

	msg := sender.Listen()()
	assert.Equal(t, ExportResultMsg{Path: "exports/positions.csv"}, msg)
}

func TestUpdateSenderCloseReleasesListen(t *testing.T) {
	sender := NewUpdateSender(4, zaptest.NewLogger(t))

	done := make(chan any, 1)
	go func() {
		done <- sender.Listen()()
	}()

	sender.Close()
	sender.Close()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("Listen did not return after Close")
	}
}
