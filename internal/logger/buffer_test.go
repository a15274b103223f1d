package logger

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLogBufferConcurrentAccess(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "test_spill.log")

	buffer, err := NewLogBuffer(100, spillFile, zap.NewNop())
	require.NoError(t, err)
	defer buffer.Close()

	done := buffer.StartPeriodicFlush(50 * time.Millisecond)
	defer close(done)

	var wg sync.WaitGroup
	numGoroutines := 10
	logsPerGoroutine := 100

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < logsPerGoroutine; j++ {
				fields := map[string]interface{}{"goroutine": id, "iteration": j}
				assert.NoError(t, buffer.Add("info", fmt.Sprintf("Log from goroutine %d, iteration %d", id, j), fields))
			}
		}(i)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			_ = buffer.GetRecentLogs(10)
			_, _ = buffer.GetStats()
			time.Sleep(time.Millisecond)
		}
	}()

	wg.Wait()
	require.NoError(t, buffer.Flush())

	total, spilled := buffer.GetStats()
	assert.EqualValues(t, numGoroutines*logsPerGoroutine, total)
	assert.EqualValues(t, numGoroutines*logsPerGoroutine-100, spilled)
	assert.FileExists(t, spillFile)
}

func TestLogBufferRingBufferBehavior(t *testing.T) {
	spillFile := filepath.Join(t.TempDir(), "test_ring.log")

	bufferSize := 5
	buffer, err := NewLogBuffer(bufferSize, spillFile, zap.NewNop())
	require.NoError(t, err)

	assert.Empty(t, buffer.GetRecentLogs(10))

	for i := 0; i < 10; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}

	logs := buffer.GetRecentLogs(10)
	require.Len(t, logs, bufferSize)
	assert.Equal(t, "Log 5", logs[0].Message)
	assert.Equal(t, "Log 9", logs[len(logs)-1].Message)

	recent := buffer.GetRecentLogs(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "Log 8", recent[0].Message)
	assert.Equal(t, "Log 9", recent[1].Message)

	require.NoError(t, buffer.Close())
	require.NoError(t, buffer.Close())

	// evicted entries plus the in-memory tail end up in the spill file, in order
	file, err := os.Open(spillFile)
	require.NoError(t, err)
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 10)
	for i, line := range lines {
		assert.Contains(t, line, fmt.Sprintf(`"message":"Log %d"`, i))
	}
}

func TestLogBufferWithoutSpillFile(t *testing.T) {
	buffer, err := NewLogBuffer(2, "", nil)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, buffer.Add("info", fmt.Sprintf("Log %d", i), nil))
	}
	total, spilled := buffer.GetStats()
	assert.EqualValues(t, 4, total)
	assert.Zero(t, spilled)
	assert.NoError(t, buffer.Sync())
	assert.NoError(t, buffer.Close())

	_, err = NewLogBuffer(0, "", nil)
	assert.Error(t, err)
}

func TestTUILoggerWritesIntoBuffer(t *testing.T) {
	buffer, err := NewLogBuffer(10, "", nil)
	require.NoError(t, err)

	logger, err := CreateTUILoggerWithBuffer(false, buffer)
	require.NoError(t, err)

	logger.Named("query").Info("Fetch succeeded", zap.String("resource", "positions"), zap.Int("count", 3))
	logger.Debug("hidden at info level")

	logs := buffer.GetRecentLogs(0)
	require.Len(t, logs, 1)
	entry := logs[0]
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "query", entry.Logger)
	assert.Equal(t, "Fetch succeeded", entry.Message)
	assert.Equal(t, "positions", entry.Fields["resource"])
	assert.EqualValues(t, 3, entry.Fields["count"])
	assert.False(t, entry.Timestamp.IsZero())

	_, err = CreateTUILoggerWithBuffer(false, nil)
	assert.Error(t, err)
}

func TestLogBufferWritePlainText(t *testing.T) {
	buffer, err := NewLogBuffer(10, "", nil)
	require.NoError(t, err)

	n, err := buffer.Write([]byte("not json"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "not json", buffer.GetRecentLogs(1)[0].Message)
}

func TestPrettyLoggerFormatsKnownMessages(t *testing.T) {
	var out bytes.Buffer
	logger, err := CreatePrettyLogger(false, &out)
	require.NoError(t, err)

	logger.Info("Wallet connected", zap.String("address", "0xMockedAddress"))
	logger.Warn("Fetch failed", zap.Error(errors.New("boom")))
	logger.Info("Something else", zap.String("secret", "hidden"))
	logger.Debug("not shown")

	text := out.String()
	assert.Contains(t, text, "Wallet connected: 0xMock...ress")
	assert.Contains(t, text, "Positions refresh failed: boom")
	assert.Contains(t, text, "Something else")
	assert.NotContains(t, text, "hidden", "structured fields are dropped")
	assert.NotContains(t, text, "not shown")
	assert.Equal(t, 3, strings.Count(text, "\n"))
}

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		msg    string
		fields []zap.Field
		want   string
	}{
		{"Mock positions API listening", []zap.Field{zap.String("addr", ":8080")}, "Positions API listening on :8080"},
		{"Seed pre-fetched", []zap.Field{zap.Int("positions", 5)}, "Pre-fetched 5 positions"},
		{"Injecting failure", []zap.Field{zap.Uint64("request", 4)}, "Injected failure on request #4"},
		{"Unrelated", nil, "Unrelated"},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Contains(t, FormatMessage(tt.msg, tt.fields...), tt.want)
		})
	}
}
