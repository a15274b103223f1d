package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/token-dashboard/internal/ui"
)

type fakeScreen struct {
	name   string
	got    []tea.Msg
	width  int
	inited int
}

func (f *fakeScreen) Init() tea.Cmd {
	f.inited++
	return nil
}

func (f *fakeScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	f.got = append(f.got, msg)
	return f, nil
}

func (f *fakeScreen) View() string { return f.name }

func (f *fakeScreen) SetSize(width, _ int) { f.width = width }

type fakeListener struct {
	msgs []tea.Msg
}

func (l *fakeListener) Listen() tea.Cmd {
	return func() tea.Msg {
		if len(l.msgs) == 0 {
			return nil
		}
		msg := l.msgs[0]
		l.msgs = l.msgs[1:]
		return msg
	}
}

func newTestRouter() (*Router, *fakeScreen, *fakeScreen) {
	dashboard := &fakeScreen{name: "dashboard"}
	logs := &fakeScreen{name: "logs"}
	r := New(ui.RouteDashboard, dashboard).
		Register(ui.RouteLogs, func() Screen { return logs })
	return r, dashboard, logs
}

func TestRouterNavigatesAndGoesBack(t *testing.T) {
	r, _, logs := newTestRouter()
	r.SetSize(100, 30)

	r.Update(ui.RouterMsg{To: ui.RouteLogs})
	assert.Equal(t, 2, r.Depth())
	assert.Equal(t, ui.RouteLogs, r.CurrentRoute())
	assert.Equal(t, "logs", r.View())
	assert.Equal(t, 100, logs.width)
	assert.Equal(t, 1, logs.inited)

	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, "dashboard", r.View())

	// esc on the root screen is forwarded instead
	r.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, 1, r.Depth())
}

func TestRouterNavigateToStackedRoutePops(t *testing.T) {
	r, _, _ := newTestRouter()

	r.Update(ui.RouterMsg{To: ui.RouteLogs})
	r.Update(ui.RouterMsg{To: ui.RouteDashboard})
	assert.Equal(t, 1, r.Depth())
	assert.Equal(t, ui.RouteDashboard, r.CurrentRoute())
}

func TestRouterKeysGoToTopScreenOthersBroadcast(t *testing.T) {
	r, dashboard, logs := newTestRouter()
	r.Update(ui.RouterMsg{To: ui.RouteLogs})

	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}
	r.Update(key)
	assert.NotContains(t, dashboard.got, tea.Msg(key))
	assert.Contains(t, logs.got, tea.Msg(key))

	snap := ui.SnapshotMsg{}
	r.Update(snap)
	assert.Contains(t, dashboard.got, tea.Msg(snap))
	assert.Contains(t, logs.got, tea.Msg(snap))
}

func TestRouterRelaysListenerUpdates(t *testing.T) {
	r, dashboard, _ := newTestRouter()
	listener := &fakeListener{msgs: []tea.Msg{ui.SuccessMsg{Message: "first"}}}
	r.WithListener(listener)

	cmd := r.listen()
	require.NotNil(t, cmd)
	wrapped := cmd()

	_, next := r.Update(wrapped)
	assert.Contains(t, dashboard.got, tea.Msg(ui.SuccessMsg{Message: "first"}))
	assert.NotNil(t, next, "listening continues after an update")
}
