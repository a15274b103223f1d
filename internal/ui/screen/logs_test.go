package screen

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rovshanmuradov/token-dashboard/internal/logger"
)

func newBufferWithLogs(t *testing.T) *logger.LogBuffer {
	t.Helper()

	buf, err := logger.NewLogBuffer(100, "", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = buf.Close() })

	require.NoError(t, buf.Add("debug", "Fetch started", nil))
	require.NoError(t, buf.Add("info", "Wallet connected", map[string]interface{}{"address": "0xMockedAddress"}))
	require.NoError(t, buf.Add("warn", "Fetch failed", nil))
	require.NoError(t, buf.Add("error", "Export failed", nil))
	return buf
}

func TestLogsScreenShowsBufferEntries(t *testing.T) {
	s := NewLogsScreen(newBufferWithLogs(t))
	s.SetSize(120, 40)

	view := s.View()
	assert.Contains(t, view, "Application Logs")
	assert.Contains(t, view, "Wallet connected")
	assert.Contains(t, view, "address=0xMockedAddress")
	assert.Contains(t, view, "Export failed")
	assert.Equal(t, 4, s.GetFilteredLogCount())
}

func TestLogsScreenFiltersByMinimumLevel(t *testing.T) {
	s := NewLogsScreen(newBufferWithLogs(t))
	s.SetSize(120, 40)

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2")})
	assert.Equal(t, LogLevelWarn, s.GetCurrentFilter())
	assert.Equal(t, 2, s.GetFilteredLogCount())
	assert.NotContains(t, s.View(), "Wallet connected")

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	assert.Equal(t, 1, s.GetFilteredLogCount())

	s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	assert.Equal(t, 4, s.GetFilteredLogCount())
}

func TestLogsScreenRefreshPicksUpNewEntries(t *testing.T) {
	buf := newBufferWithLogs(t)
	s := NewLogsScreen(buf)
	s.SetSize(120, 40)

	require.NoError(t, buf.Add("info", "Positions exported", nil))

	_, cmd := s.Update(RefreshLogsMsg{Timestamp: time.Now()})
	assert.NotNil(t, cmd, "refresh is rescheduled")
	assert.Equal(t, 5, s.GetFilteredLogCount())
	assert.Contains(t, s.View(), "Positions exported")
}

func TestLogsScreenWithoutSource(t *testing.T) {
	s := NewLogsScreen(nil)
	assert.Contains(t, s.View(), "No log entries match the current filter.")
}
