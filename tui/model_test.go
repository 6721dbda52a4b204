package tui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandachord/layout"
	"mandachord/midi"
	"mandachord/sequencer"
	"mandachord/theme"
	"mandachord/widgets"
)

func newTestModel(opts Options) Model {
	m := NewModel(sequencer.NewManager(), theme.New(theme.DefaultPalette()), opts)
	return update(m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// cellAt finds the terminal cell over a virtual point
func cellAt(m Model, p layout.Point) (x, y int) {
	dot := m.viewport.ToScreen(p)
	return int(dot.X / 2), int(dot.Y/4) + canvasTop
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestResizeBuildsViewport(t *testing.T) {
	m := newTestModel(Options{})
	assert.Equal(t, 100, m.cols)
	assert.Equal(t, 40-chromeRows, m.rows)
	assert.True(t, m.viewport.Ready())

	m = update(m, tea.WindowSizeMsg{Width: 0, Height: 2})
	assert.False(t, m.viewport.Ready())
	assert.Contains(t, m.View(), "waiting for terminal size")
}

func TestFramesAdvanceOnlyWhilePlaying(t *testing.T) {
	m := newTestModel(Options{})
	t0 := time.Now()

	m = update(m, frameMsg(t0))
	m = update(m, frameMsg(t0.Add(100*time.Millisecond)))
	assert.Zero(t, m.Manager.Snapshot().State.PlaybackTime)

	m = update(m, runes("p"))
	require.False(t, m.Manager.IsPaused())

	m = update(m, frameMsg(t0.Add(200*time.Millisecond)))
	snap := m.Manager.Snapshot()
	assert.InDelta(t, 100, snap.State.PlaybackTime, 1e-9)
	assert.InDelta(t, -4.5, snap.Rotation.Disc, 1e-9)
	assert.InDelta(t, -4.5, snap.Rotation.Marker, 1e-9)
}

func TestMouseDragTurnsDisc(t *testing.T) {
	m := newTestModel(Options{})
	x, y := cellAt(m, layout.Center)

	m = update(m, press(x, y))
	require.True(t, m.gestures.Dragging())
	assert.Equal(t, 1, m.router.Len())

	m = update(m, tea.MouseMsg{X: x + 5, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: x + 10, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = update(m, tea.MouseMsg{X: x + 10, Y: y, Action: tea.MouseActionRelease})

	assert.False(t, m.gestures.Dragging())
	assert.Equal(t, 0, m.router.Len())
	assert.InDelta(t, sequencer.DragSpeed*10*cellPixels, m.Manager.Rotation().Disc, 1e-9)
}

func TestMouseDragRejectedWhilePlaying(t *testing.T) {
	m := newTestModel(Options{})
	m.Manager.TogglePlay()

	x, y := cellAt(m, layout.Center)
	m = update(m, press(x, y))
	assert.False(t, m.gestures.Dragging())
	assert.Equal(t, 0, m.router.Len())
}

func TestClickTogglesNoteUnderPointer(t *testing.T) {
	m := newTestModel(Options{})

	for y := canvasTop; y < canvasTop+m.rows; y++ {
		for x := 0; x < m.cols; x++ {
			p, ok := m.pointer(x, y)
			if !ok || layout.InPanControl(p) || layout.InTransport(p) {
				continue
			}
			id, ok := layout.NoteAt(p, m.Manager.Rotation())
			if !ok {
				continue
			}

			m = update(m, press(x, y))
			active, err := m.Manager.Store().State().Notes.IsActiveAt(id.Step, id.Note)
			require.NoError(t, err)
			assert.True(t, active, "note %s under cell %d,%d", id, x, y)
			assert.Equal(t, 1, m.Manager.Store().State().Notes.ActiveCount())
			return
		}
	}
	t.Fatal("no note reachable from any cell")
}

func TestTransportClickTogglesPlayback(t *testing.T) {
	m := newTestModel(Options{})
	x, y := cellAt(m, layout.Transport.Center())

	m = update(m, press(x, y))
	assert.False(t, m.Manager.IsPaused())
	m = update(m, press(x, y))
	assert.True(t, m.Manager.IsPaused())
}

func TestNudgeTurnsOneStepWhilePaused(t *testing.T) {
	m := newTestModel(Options{})
	m = update(m, runes("l"))
	assert.InDelta(t, sequencer.StepSweep, m.Manager.Rotation().Disc, 1e-9)
	m = update(m, runes("h"))
	m = update(m, runes("h"))
	assert.InDelta(t, -sequencer.StepSweep, m.Manager.Rotation().Disc, 1e-9)

	m.Manager.TogglePlay()
	m = update(m, runes("l"))
	assert.InDelta(t, -sequencer.StepSweep, m.Manager.Rotation().Disc, 1e-9)
}

func TestQuitCancelsDrag(t *testing.T) {
	m := newTestModel(Options{})
	x, y := cellAt(m, layout.Center)
	m = update(m, press(x, y))
	require.Equal(t, 1, m.router.Len())

	next, cmd := m.Update(runes("q"))
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, m.router.Len())
	assert.Empty(t, m.View())
}

func TestPortEvents(t *testing.T) {
	ports := make(chan midi.PortEvent, 1)
	var got []midi.PortEvent
	m := newTestModel(Options{
		Ports: ports,
		OnPort: func(ev midi.PortEvent) error {
			got = append(got, ev)
			if ev.Name == "Broken" {
				return errors.New("open failed")
			}
			return nil
		},
	})

	ports <- midi.PortEvent{Type: midi.PortConnected, Name: "Synth"}
	msg := ListenForPorts(ports)()
	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, "Synth", m.port)
	assert.Contains(t, m.View(), "Synth")

	m = update(m, PortEventMsg{Type: midi.PortDisconnected, Name: "Synth"})
	assert.Empty(t, m.port)
	assert.Contains(t, m.View(), "no port")

	m = update(m, PortEventMsg{Type: midi.PortConnected, Name: "Broken"})
	assert.Empty(t, m.port)
	assert.Equal(t, "open failed", m.status)
	assert.Len(t, got, 3)

	close(ports)
	assert.Equal(t, portsClosedMsg{}, ListenForPorts(ports)())
	assert.Nil(t, ListenForPorts(nil))
}

func TestViewShowsTransportAndLegend(t *testing.T) {
	m := newTestModel(Options{})
	view := m.View()
	assert.Contains(t, view, "PAUSE")
	assert.Contains(t, view, "step:01/64")
	assert.Contains(t, view, "active")

	m.Manager.TogglePlay()
	assert.Contains(t, m.View(), "PLAY")
}

func TestInitMarksClientLoaded(t *testing.T) {
	m := NewModel(sequencer.NewManager(), theme.New(theme.DefaultPalette()), Options{})
	assert.NotNil(t, m.Init())
	assert.True(t, m.Manager.Store().State().ClientLoaded)
}

func TestHelpStyles(t *testing.T) {
	th := theme.New(theme.DefaultPalette())
	h := widgets.NewHelp(th.Accent(), th.Muted())
	assert.Contains(t, h.View(keys), "quit")
}
