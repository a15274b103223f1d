package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/token-dashboard/internal/domain"
	"github.com/rovshanmuradov/token-dashboard/internal/export"
	"github.com/rovshanmuradov/token-dashboard/internal/ui"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/component"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/router"
	"github.com/rovshanmuradov/token-dashboard/internal/ui/style"
)

// ToastDuration is how long a toast stays visible
const ToastDuration = 4 * time.Second

type toast struct {
	id      int
	text    string
	isError bool
}

// DashboardScreen shows the wallet connection and the positions of the connected wallet
type DashboardScreen struct {
	services ui.Services
	logger   *zap.Logger
	width    int
	height   int
	keyMap   ui.KeyMap

	// UI components
	helpBar *component.HelpBar
	spinner spinner.Model

	// State
	address    string
	connected  bool
	connecting bool
	snapshot   ui.Snapshot
	toast      *toast
	toastSeq   int
}

// NewDashboardScreen creates the dashboard. Wallet state is read once here and then
// followed through WalletMsg.
func NewDashboardScreen(services ui.Services) *DashboardScreen {
	s := &DashboardScreen{
		services: services,
		logger:   services.GetLogger().Named("dashboard_screen"),
		width:    80,
		keyMap:   ui.DefaultKeyMap(),
		helpBar:  component.NewHelpBar(),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(style.DefaultPalette().Primary)),
		),
	}

	if services.Wallet != nil {
		s.address, s.connected = services.Wallet.Address()
	}
	if services.Positions != nil {
		s.snapshot = services.Positions.Snapshot()
	}

	s.syncBindings()
	return s
}

// Init initializes the dashboard screen
func (s *DashboardScreen) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles screen updates
func (s *DashboardScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd = s.handleKey(msg)

	case tea.FocusMsg:
		if s.connected && s.services.Positions != nil {
			s.services.Positions.Focus()
		}

	case ui.SnapshotMsg:
		s.snapshot = msg.Snapshot

	case ui.WalletMsg:
		s.connecting = false
		if msg.Err != nil {
			cmd = s.showToast("Failed to connect wallet: "+msg.Err.Error(), true)
			break
		}
		s.connected = msg.Connected
		s.address = msg.Address
		if s.services.Positions != nil {
			s.snapshot = s.services.Positions.Snapshot()
		}

	case ui.RefetchResultMsg:
		if msg.Err != nil {
			cmd = s.showToast("Failed to refresh positions: "+msg.Err.Error(), true)
		} else {
			cmd = s.showToast(fmt.Sprintf("Positions refreshed (%d)", msg.Count), false)
		}

	case ui.ExportResultMsg:
		if msg.Err != nil {
			cmd = s.showToast("Export failed: "+msg.Err.Error(), true)
		} else {
			cmd = s.showToast("Exported to "+msg.Path, false)
		}

	case ui.ToastExpiredMsg:
		if s.toast != nil && s.toast.id == msg.ID {
			s.toast = nil
		}

	case ui.ErrorMsg:
		cmd = s.showToast(msg.Error.Error(), true)

	case ui.SuccessMsg:
		cmd = s.showToast(msg.Message, false)

	case spinner.TickMsg:
		s.spinner, cmd = s.spinner.Update(msg)
	}

	s.syncBindings()
	return s, cmd
}

func (s *DashboardScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, s.keyMap.Quit):
		return tea.Quit

	case key.Matches(msg, s.keyMap.Connect):
		if s.connected || s.connecting || s.services.Wallet == nil {
			return nil
		}
		s.connecting = true
		return s.connectCmd()

	case key.Matches(msg, s.keyMap.Disconnect):
		if !s.connected || s.services.Wallet == nil {
			return nil
		}
		s.services.Wallet.Disconnect()
		s.connected = false
		s.address = ""
		if s.services.Positions != nil {
			s.snapshot = s.services.Positions.Snapshot()
		}
		return nil

	case key.Matches(msg, s.keyMap.Refresh):
		if !s.keyMap.Refresh.Enabled() {
			return nil
		}
		return s.refetchCmd()

	case key.Matches(msg, s.keyMap.Export):
		if !s.keyMap.Export.Enabled() {
			return nil
		}
		return s.exportCmd(s.snapshot.Data)

	case key.Matches(msg, s.keyMap.Logs):
		return func() tea.Msg {
			return ui.RouterMsg{To: ui.RouteLogs}
		}
	}

	return nil
}

func (s *DashboardScreen) connectCmd() tea.Cmd {
	wallet := s.services.Wallet
	ctx := s.services.GetContext()

	return func() tea.Msg {
		address, err := wallet.Connect(ctx)
		return ui.WalletMsg{Address: address, Connected: err == nil, Err: err}
	}
}

func (s *DashboardScreen) refetchCmd() tea.Cmd {
	positions := s.services.Positions
	ctx := s.services.GetContext()

	return func() tea.Msg {
		data, err := positions.Refetch(ctx)
		return ui.RefetchResultMsg{Count: len(data), Err: err}
	}
}

func (s *DashboardScreen) exportCmd(data []domain.Position) tea.Cmd {
	exporter := s.services.Exporter
	opts := export.ExportOptions{
		Format:    export.FormatCSV,
		OutputDir: s.services.ExportDir,
		Address:   s.address,
	}

	return func() tea.Msg {
		if len(data) == 0 {
			return ui.ExportResultMsg{Err: export.ErrNothingToExport}
		}
		path, err := exporter.ExportPositions(data, opts)
		return ui.ExportResultMsg{Path: path, Err: err}
	}
}

func (s *DashboardScreen) showToast(text string, isError bool) tea.Cmd {
	s.toastSeq++
	id := s.toastSeq
	s.toast = &toast{id: id, text: text, isError: isError}

	if isError {
		s.logger.Warn("Dashboard action failed", zap.String("message", text))
	}

	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return ui.ToastExpiredMsg{ID: id}
	})
}

// syncBindings enables only the actions valid in the current state
func (s *DashboardScreen) syncBindings() {
	s.keyMap.Connect.SetEnabled(!s.connected && !s.connecting && s.services.Wallet != nil)
	s.keyMap.Disconnect.SetEnabled(s.connected)
	s.keyMap.Refresh.SetEnabled(s.connected && s.services.Positions != nil && !s.snapshot.IsFetching)
	s.keyMap.Export.SetEnabled(s.connected && s.services.Exporter != nil && len(s.snapshot.Data) > 0)
}

// View renders the dashboard screen
func (s *DashboardScreen) View() string {
	var content strings.Builder

	content.WriteString(style.TitleStyle.Render("Token Dashboard"))
	content.WriteString("\n")

	if !s.connected {
		s.renderDisconnected(&content)
	} else {
		s.renderConnected(&content)
	}

	if s.toast != nil {
		content.WriteString("\n")
		content.WriteString(s.renderToast())
	}

	content.WriteString("\n")
	content.WriteString(s.helpBar.
		SetKeyBindings(s.keyMap.ContextualHelp(ui.RouteDashboard)).
		SetWidth(s.width).
		View())

	return content.String()
}

func (s *DashboardScreen) renderDisconnected(b *strings.Builder) {
	label := "Connect Wallet"
	if s.connecting {
		label = "Connecting..."
	}
	b.WriteString(style.ButtonStyle.Render(label))
	b.WriteString(style.MutedStyle.Render("  press c"))
	b.WriteString("\n\n")
	b.WriteString("Please connect your wallet to view your token positions.")
	b.WriteString("\n")
}

func (s *DashboardScreen) renderConnected(b *strings.Builder) {
	b.WriteString("Connected: ")
	b.WriteString(style.LinkStyle.Render(s.address))
	b.WriteString("  ")
	b.WriteString(style.DangerButtonStyle.Render("Disconnect (d)"))
	b.WriteString("\n")
	b.WriteString(style.MutedStyle.Render(domain.ExplorerURL(s.address)))
	b.WriteString("\n\n")

	snap := s.snapshot
	showSkeleton := snap.IsLoading || snap.IsFetching
	hasData := len(snap.Data) > 0

	b.WriteString(style.SubHeaderStyle.Render("Token Positions"))
	b.WriteString("  ")
	if snap.IsFetching {
		b.WriteString(s.spinner.View())
		b.WriteString(style.MutedStyle.Render(" Refreshing..."))
	} else {
		b.WriteString(style.InfoStyle.Render("↻ refresh (r)"))
	}
	b.WriteString("\n")

	if !showSkeleton && hasData {
		total := domain.TotalValueUSD(snap.Data)
		change := domain.WeightedChange24h(snap.Data)
		changeText := domain.FormatChange(change.InexactFloat64())
		b.WriteString(style.MutedStyle.Render("Total "))
		b.WriteString(domain.FormatUSDDecimal(total))
		b.WriteString("  ")
		b.WriteString(changeStyle(change.Sign()).Render(changeText))
		if !snap.UpdatedAt.IsZero() {
			b.WriteString(style.MutedStyle.Render("  updated " + snap.UpdatedAt.Format("15:04:05")))
		}
		b.WriteString("\n")
	}

	if snap.Err != nil {
		b.WriteString(style.ErrorStyle.Render("⚠ " + snap.Err.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case showSkeleton:
		cards := make([]string, component.SkeletonCount)
		for i := range cards {
			cards[i] = component.SkeletonCard()
		}
		b.WriteString(component.Grid(cards, s.width))
	case hasData:
		cards := make([]string, len(snap.Data))
		for i, p := range snap.Data {
			cards[i] = component.PositionCard(p)
		}
		b.WriteString(component.Grid(cards, s.width))
	default:
		b.WriteString("No positions found.")
	}
	b.WriteString("\n")
}

func (s *DashboardScreen) renderToast() string {
	st := style.ToastStyle.BorderForeground(style.DefaultPalette().Success)
	text := style.SuccessStyle.Render("✓ " + s.toast.text)
	if s.toast.isError {
		st = style.ToastStyle.BorderForeground(style.DefaultPalette().Error)
		text = style.ErrorStyle.Render("✗ " + s.toast.text)
	}
	return st.Render(text)
}

// SetSize sets the screen dimensions
func (s *DashboardScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.helpBar.SetWidth(width)
}

func changeStyle(sign int) lipgloss.Style {
	switch {
	case sign > 0:
		return style.GainStyle
	case sign < 0:
		return style.LossStyle
	default:
		return style.FlatStyle
	}
}
