package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mandachord/debug"
	"mandachord/gesture"
	"mandachord/layout"
	"mandachord/midi"
	"mandachord/sequencer"
	"mandachord/theme"
	"mandachord/widgets"
)

const (
	// rows above the canvas (header) and below it (legend, help)
	canvasTop  = 1
	chromeRows = canvasTop + 2

	// approximate width of a terminal cell in pixels, so pointer deltas
	// turn the disc at roughly the same rate as a mouse on a screen
	cellPixels = 8.0

	// a nudge turns the disc by exactly one step
	nudgePixels = sequencer.StepSweep / sequencer.DragSpeed
)

// Options configures a Model
type Options struct {
	FPS      int
	DashSeed int64

	// Ports delivers output port hot-plug events; nil when MIDI is off
	Ports <-chan midi.PortEvent
	// OnPort is called for every port event before the header updates
	OnPort func(midi.PortEvent) error
}

type Model struct {
	Manager *sequencer.Manager
	Theme   *theme.Theme

	opts     Options
	composer *layout.Composer
	router   *gesture.Router
	gestures *gesture.Controller
	help     help.Model

	cols, rows int
	viewport   layout.Viewport
	lastFrame  time.Time

	port     string
	status   string
	quitting bool
}

type frameMsg time.Time

type PortEventMsg midi.PortEvent

// portsClosedMsg is sent once the port channel closes
type portsClosedMsg struct{}

func NewModel(manager *sequencer.Manager, th *theme.Theme, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	router := gesture.NewRouter()
	return Model{
		Manager:  manager,
		Theme:    th,
		opts:     opts,
		composer: layout.NewComposer(opts.DashSeed),
		router:   router,
		gestures: gesture.NewController(router, manager, manager),
		help:     widgets.NewHelp(th.Accent(), th.Muted()),
	}
}

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func ListenForPorts(ports <-chan midi.PortEvent) tea.Cmd {
	if ports == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ports
		if !ok {
			return portsClosedMsg{}
		}
		return PortEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	m.Manager.SetClientLoaded(true)
	return tea.Batch(
		tick(m.opts.FPS),
		ListenForPorts(m.opts.Ports),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			m.gestures.Cancel()
			return m, tea.Quit

		case key.Matches(msg, keys.PlayPause):
			m.Manager.TogglePlay()

		case key.Matches(msg, keys.NudgeLeft):
			m.Manager.Drag(-nudgePixels)

		case key.Matches(msg, keys.NudgeRight):
			m.Manager.Drag(nudgePixels)

		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case frameMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			m.Manager.Frame(float64(now.Sub(m.lastFrame)) / float64(time.Millisecond))
		}
		m.lastFrame = now
		return m, tick(m.opts.FPS)

	case PortEventMsg:
		event := midi.PortEvent(msg)
		m.status = ""
		if m.opts.OnPort != nil {
			if err := m.opts.OnPort(event); err != nil {
				m.status = err.Error()
			}
		}
		if event.Type == midi.PortConnected && m.status == "" {
			m.port = event.Name
		} else {
			m.port = ""
		}
		return m, ListenForPorts(m.opts.Ports)

	case portsClosedMsg:
		m.port = ""
	}

	return m, nil
}

func (m *Model) resize(width, height int) {
	m.cols = max(width, 0)
	m.rows = max(height-chromeRows, 0)
	m.viewport = layout.NewViewport(widgets.CellSize(m.cols, m.rows))
	m.help.Width = width
	debug.Log("tui", "resize %dx%d scale=%.3f", m.cols, m.rows, m.viewport.Scale)
}

// pointer maps a terminal cell to a virtual point, false when off the canvas
func (m Model) pointer(x, y int) (layout.Point, bool) {
	row := y - canvasTop
	if !m.viewport.Ready() || row < 0 || row >= m.rows || x < 0 || x >= m.cols {
		return layout.Point{}, false
	}
	return m.viewport.ToVirtual(widgets.CellToDot(x, row)), true
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	px := float64(msg.X) * cellPixels

	switch msg.Action {
	case tea.MouseActionMotion:
		m.router.Move(px)
		return
	case tea.MouseActionRelease:
		m.router.Up()
		return
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	p, ok := m.pointer(msg.X, msg.Y)
	if !ok {
		return
	}

	switch {
	case layout.InTransport(p):
		m.Manager.TogglePlay()
	case layout.InPanControl(p):
		if !m.gestures.Begin(px) {
			debug.Log("drag", "rejected at x=%.0f state=%s", px, m.gestures.State())
		}
	default:
		id, ok := layout.NoteAt(p, m.Manager.Rotation())
		if !ok {
			return
		}
		if _, err := m.gestures.Click(id); err != nil {
			m.status = err.Error()
		}
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Manager.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())

	playState := "PAUSE"
	if !snap.State.IsPaused {
		playState = "PLAY "
	}
	step := snap.State.CurrentStep()
	header := headerStyle.Render(fmt.Sprintf("mandachord  %s  bar:%d step:%02d/%d  %6.1fs",
		playState, layout.BarNumber(step), step+1, sequencer.NumSteps, snap.State.PlaybackTime/1000))

	if m.gestures.Dragging() {
		header += dimStyle.Render("  drag")
	}
	switch {
	case m.status != "":
		header += "  " + warnStyle.Render(m.status)
	case m.port != "":
		header += dimStyle.Render("  → " + m.port)
	case m.opts.Ports != nil:
		header += dimStyle.Render("  no port")
	}

	var out strings.Builder
	out.WriteString(header)
	out.WriteString("\n")

	if m.viewport.Ready() {
		canvas := widgets.NewCanvas(m.cols, m.rows)
		canvas.Draw(m.composer.Compose(snap, m.viewport))
		out.WriteString(canvas.Render(m.Theme.Style))
	} else {
		out.WriteString(dimStyle.Render("waiting for terminal size..."))
	}
	out.WriteString("\n")

	out.WriteString(widgets.RenderLegend(m.legend()))
	out.WriteString("\n")
	out.WriteString(m.help.View(keys))

	return out.String()
}

func (m Model) legend() []widgets.LegendItem {
	sym := m.Theme.Symbols
	return []widgets.LegendItem{
		{Color: m.Theme.RoleColor(layout.RoleNote), Glyph: sym.NoteEmpty, Name: "empty"},
		{Color: m.Theme.RoleColor(layout.RoleNoteActive), Glyph: sym.NoteActive, Name: "active"},
		{Color: m.Theme.RoleColor(layout.RoleNoteCurrent), Glyph: sym.NoteCurrent, Name: "playing"},
		{Color: m.Theme.RoleColor(layout.RoleMarker), Glyph: sym.Marker, Name: "marker"},
	}
}
