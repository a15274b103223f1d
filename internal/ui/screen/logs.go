package screen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/token-dashboard/internal/logger"
	"github.com/rovshanmuradov/token-dashboard/internal/ui"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/style"
)

// LogLevel filters log entries by severity
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
	LogLevelAll   LogLevel = "all"
)

// RefreshLogsMsg is sent to trigger a refresh
type RefreshLogsMsg struct {
	Timestamp time.Time
}

// LogsScreen shows the newest entries of the in-memory log buffer
type LogsScreen struct {
	source ui.LogSource
	width  int
	height int
	keyMap ui.KeyMap

	helpBar *component.HelpBar
	styles  style.LogStyles

	// State
	logs            []logger.LogEntry
	filteredLogs    []logger.LogEntry
	currentFilter   LogLevel
	refreshInterval time.Duration
	lastUpdate      time.Time
	offset          int // lines scrolled up from the newest entry
	tailMode        bool

	maxLogEntries int
}

// NewLogsScreen creates a new logs screen reading from source
func NewLogsScreen(source ui.LogSource) *LogsScreen {
	s := &LogsScreen{
		source:          source,
		keyMap:          ui.DefaultKeyMap(),
		helpBar:         component.NewHelpBar(),
		styles:          style.NewLogStyles(style.DefaultPalette()),
		currentFilter:   LogLevelAll,
		refreshInterval: time.Second,
		tailMode:        true,
		maxLogEntries:   500,
		width:           80,
		height:          24,
	}

	s.helpBar.SetKeyBindings(s.keyMap.ContextualHelp(ui.RouteLogs))
	s.loadLogs(time.Now())
	return s
}

// Init initializes the logs screen
func (s *LogsScreen) Init() tea.Cmd {
	return s.scheduleRefresh()
}

// Update handles screen updates
func (s *LogsScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keyMap.Quit):
			return s, tea.Quit

		case key.Matches(msg, s.keyMap.Up):
			if s.offset < len(s.filteredLogs)-1 {
				s.offset++
			}
			s.tailMode = false

		case key.Matches(msg, s.keyMap.Down):
			if s.offset > 0 {
				s.offset--
			}
			s.tailMode = s.offset == 0

		case key.Matches(msg, s.keyMap.Tail):
			s.tailMode = !s.tailMode
			if s.tailMode {
				s.offset = 0
			}

		case key.Matches(msg, s.keyMap.FilterError):
			s.setFilter(LogLevelError)
		case key.Matches(msg, s.keyMap.FilterWarn):
			s.setFilter(LogLevelWarn)
		case key.Matches(msg, s.keyMap.FilterInfo):
			s.setFilter(LogLevelInfo)
		case key.Matches(msg, s.keyMap.FilterAll):
			s.setFilter(LogLevelAll)
		}

	case RefreshLogsMsg:
		s.loadLogs(msg.Timestamp)
		return s, s.scheduleRefresh()
	}

	return s, nil
}

func (s *LogsScreen) setFilter(level LogLevel) {
	s.currentFilter = level
	s.offset = 0
	s.applyFilters()
}

func (s *LogsScreen) loadLogs(at time.Time) {
	s.lastUpdate = at
	if s.source == nil {
		return
	}

	prev := len(s.filteredLogs)
	s.logs = s.source.GetRecentLogs(s.maxLogEntries)
	s.applyFilters()

	// keep the viewport anchored while new entries arrive
	if !s.tailMode && len(s.filteredLogs) > prev {
		s.offset += len(s.filteredLogs) - prev
	}
	if s.offset > len(s.filteredLogs)-1 {
		s.offset = max(len(s.filteredLogs)-1, 0)
	}
}

// applyFilters keeps entries at or above the selected level
func (s *LogsScreen) applyFilters() {
	if s.currentFilter == LogLevelAll {
		s.filteredLogs = s.logs
		return
	}

	minRank := levelRank(string(s.currentFilter))
	filtered := make([]logger.LogEntry, 0, len(s.logs))
	for _, e := range s.logs {
		if levelRank(e.Level) >= minRank {
			filtered = append(filtered, e)
		}
	}
	s.filteredLogs = filtered
}

func (s *LogsScreen) scheduleRefresh() tea.Cmd {
	return tea.Tick(s.refreshInterval, func(t time.Time) tea.Msg {
		return RefreshLogsMsg{Timestamp: t}
	})
}

// View renders the logs screen
func (s *LogsScreen) View() string {
	var content strings.Builder

	title := "Application Logs"
	if s.tailMode {
		title += " (tail)"
	}
	content.WriteString(s.styles.Title.Render(title))
	content.WriteString("\n")
	content.WriteString(s.renderStatusBar())
	content.WriteString("\n\n")

	lines := s.visibleLines()
	if len(lines) == 0 {
		content.WriteString(s.styles.Debug.Render("No log entries match the current filter."))
	} else {
		content.WriteString(strings.Join(lines, "\n"))
	}
	content.WriteString("\n")

	content.WriteString(s.helpBar.SetWidth(s.width).View())
	return content.String()
}

func (s *LogsScreen) renderStatusBar() string {
	parts := []string{
		fmt.Sprintf("Total: %d", len(s.logs)),
		fmt.Sprintf("Shown: %d", len(s.filteredLogs)),
		fmt.Sprintf("Filter: %s", s.currentFilter),
		fmt.Sprintf("Updated: %s", s.lastUpdate.Format("15:04:05")),
	}
	return s.styles.Timestamp.Render(strings.Join(parts, " • "))
}

// visibleLines returns the window of entries ending offset lines above the newest
func (s *LogsScreen) visibleLines() []string {
	rows := max(s.height-8, 3)
	end := len(s.filteredLogs) - s.offset
	start := max(end-rows, 0)

	lines := make([]string, 0, end-start)
	for _, e := range s.filteredLogs[start:end] {
		lines = append(lines, s.renderEntry(e))
	}
	return lines
}

func (s *LogsScreen) renderEntry(e logger.LogEntry) string {
	level := strings.ToUpper(e.Level)
	if level == "" {
		level = "INFO"
	}

	parts := []string{
		s.styles.Timestamp.Render(e.Timestamp.Format("15:04:05")),
		s.levelStyle(e.Level).Render(fmt.Sprintf("%-5s", level)),
	}
	if e.Logger != "" {
		parts = append(parts, s.styles.Logger.Render(e.Logger))
	}
	parts = append(parts, s.styles.Entry.Render(e.Message))
	if fields := formatFields(e.Fields); fields != "" {
		parts = append(parts, s.styles.Debug.Render(fields))
	}

	line := strings.Join(parts, " ")
	if s.width > 0 && lipgloss.Width(line) > s.width {
		line = lipgloss.NewStyle().MaxWidth(s.width).Render(line)
	}
	return line
}

func (s *LogsScreen) levelStyle(level string) lipgloss.Style {
	switch LogLevel(level) {
	case LogLevelDebug:
		return s.styles.Debug
	case LogLevelWarn:
		return s.styles.Warning
	case LogLevelError:
		return s.styles.Error
	default:
		if levelRank(level) > levelRank(string(LogLevelError)) {
			return s.styles.Error
		}
		return s.styles.Info
	}
}

// SetSize sets the screen dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}

// GetFilteredLogCount returns the number of entries passing the filter
func (s *LogsScreen) GetFilteredLogCount() int {
	return len(s.filteredLogs)
}

// GetCurrentFilter returns the current log level filter
func (s *LogsScreen) GetCurrentFilter() LogLevel {
	return s.currentFilter
}

func levelRank(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return 0
	case "info", "":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	case "dpanic", "panic", "fatal":
		return 4
	default:
		return 1
	}
}

func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}
