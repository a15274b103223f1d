package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// mockModel is a test UI model
type mockModel struct {
	panicOnInit   bool
	panicOnUpdate bool
	panicOnView   bool
	updateCount   int
}

func (m *mockModel) Init() tea.Cmd {
	if m.panicOnInit {
		panic("init panic test")
	}
	return tea.Quit
}

func (m *mockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updateCount++
	if m.panicOnUpdate {
		panic("update panic test")
	}
	return m, tea.Quit
}

func (m *mockModel) View() string {
	if m.panicOnView {
		panic("view panic test")
	}
	return "Test UI"
}

func TestSafeModelPassesThrough(t *testing.T) {
	inner := &mockModel{}
	safe := NewSafeModel(inner, zaptest.NewLogger(t))

	assert.NotNil(t, safe.Init())

	next, cmd := safe.Update(SuccessMsg{Message: "ok"})
	assert.Same(t, safe, next)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, inner.updateCount)
	assert.Equal(t, "Test UI", safe.View())
	assert.Zero(t, safe.Panics())
}

func TestSafeModelRecoversUpdatePanic(t *testing.T) {
	inner := &mockModel{panicOnUpdate: true}
	safe := NewSafeModel(inner, zaptest.NewLogger(t))

	var (
		next tea.Model
		cmd  tea.Cmd
	)
	require.NotPanics(t, func() {
		next, cmd = safe.Update(SuccessMsg{})
	})
	assert.Same(t, safe, next, "the wrapper stays the program model")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, safe.Panics())
}

func TestSafeModelRecoversInitAndViewPanics(t *testing.T) {
	safe := NewSafeModel(&mockModel{panicOnInit: true, panicOnView: true}, zaptest.NewLogger(t))

	var cmd tea.Cmd
	require.NotPanics(t, func() { cmd = safe.Init() })
	assert.Nil(t, cmd)

	assert.Contains(t, safe.View(), "View crashed")
	assert.Equal(t, 2, safe.Panics())
}
