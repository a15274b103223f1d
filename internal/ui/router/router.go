package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rovshanmuradov/token-dashboard/internal/ui"
)

// Screen represents a screen that can be navigated to
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Listener produces background updates for the program
type Listener interface {
	Listen() tea.Cmd
}

// update wraps a message that came from the Listener
type update struct {
	msg tea.Msg
}

type entry struct {
	route  ui.Route
	screen Screen
}

// Router manages navigation between screens using a stack-based approach.
// Key presses go to the top screen only; every other message reaches all
// screens on the stack so screens below keep their state current.
type Router struct {
	stack    []entry
	factory  map[ui.Route]func() Screen
	listener Listener
	width    int
	height   int
}

// New creates a new router with the initial screen
func New(route ui.Route, initialScreen Screen) *Router {
	return &Router{
		stack:   []entry{{route: route, screen: initialScreen}},
		factory: make(map[ui.Route]func() Screen),
	}
}

// Register sets the constructor used when navigating to route
func (r *Router) Register(route ui.Route, newScreen func() Screen) *Router {
	r.factory[route] = newScreen
	return r
}

// WithListener makes the router pull background updates from l
func (r *Router) WithListener(l Listener) *Router {
	r.listener = l
	return r
}

// Init initializes the router
func (r *Router) Init() tea.Cmd {
	cmds := []tea.Cmd{r.listen()}
	if len(r.stack) > 0 {
		cmds = append(cmds, r.top().screen.Init())
	}
	return tea.Batch(cmds...)
}

// Update processes messages and updates the current screen
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.RouterMsg:
		return r, r.Navigate(msg.To)

	case tea.WindowSizeMsg:
		r.SetSize(msg.Width, msg.Height)
		return r, nil

	case tea.KeyMsg:
		if msg.String() == "esc" && len(r.stack) > 1 {
			return r, r.Back()
		}
		if len(r.stack) == 0 {
			return r, nil
		}
		top := r.top()
		updated, cmd := top.screen.Update(msg)
		top.screen = updated
		return r, cmd

	case update:
		return r, tea.Batch(r.broadcast(msg.msg), r.listen())
	}

	return r, r.broadcast(msg)
}

func (r *Router) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range r.stack {
		updated, cmd := r.stack[i].screen.Update(msg)
		r.stack[i].screen = updated
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return tea.Batch(cmds...)
}

func (r *Router) listen() tea.Cmd {
	if r.listener == nil {
		return nil
	}
	next := r.listener.Listen()
	return func() tea.Msg {
		msg := next()
		if msg == nil {
			return nil
		}
		return update{msg: msg}
	}
}

// View renders the current screen
func (r *Router) View() string {
	if len(r.stack) == 0 {
		return "No screen available"
	}
	return r.top().screen.View()
}

// SetSize sets the size for the router and every screen on the stack
func (r *Router) SetSize(width, height int) {
	r.width = width
	r.height = height

	for _, e := range r.stack {
		e.screen.SetSize(width, height)
	}
}

// Navigate shows the screen registered for route. Navigating to a route already on
// the stack pops back to it.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	for i, e := range r.stack {
		if e.route == route {
			r.stack = r.stack[:i+1]
			return nil
		}
	}

	newScreen, ok := r.factory[route]
	if !ok {
		return nil
	}
	return r.Push(route, newScreen())
}

// Push adds a new screen to the navigation stack
func (r *Router) Push(route ui.Route, screen Screen) tea.Cmd {
	screen.SetSize(r.width, r.height)
	r.stack = append(r.stack, entry{route: route, screen: screen})
	return screen.Init()
}

// Pop removes the current screen from the stack
func (r *Router) Pop() tea.Cmd {
	if len(r.stack) <= 1 {
		return nil // Can't pop the last screen
	}

	r.stack = r.stack[:len(r.stack)-1]
	return nil
}

// Back navigates back to the previous screen
func (r *Router) Back() tea.Cmd {
	return r.Pop()
}

// Current returns the current screen
func (r *Router) Current() Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.top().screen
}

// CurrentRoute returns the route of the current screen
func (r *Router) CurrentRoute() ui.Route {
	if len(r.stack) == 0 {
		return ui.RouteDashboard
	}
	return r.top().route
}

// Depth returns the current navigation depth
func (r *Router) Depth() int {
	return len(r.stack)
}

func (r *Router) top() *entry {
	return &r.stack[len(r.stack)-1]
}
