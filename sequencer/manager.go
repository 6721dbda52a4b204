package sequencer

import (
	"sync"

	"mandachord/debug"
)

// StepEvent is emitted when the playhead enters a step
type StepEvent struct {
	Step  int
	Notes []int // active note positions, lowest first
}

// Snapshot is a read-only copy of everything a renderer needs
type Snapshot struct {
	State    State
	Rotation Rotation
}

// Manager orchestrates the store, the playback clock and the disc rotation.
// Frames are serialised by frameMu; mu only guards rotation and step tracking,
// so store subscribers may read Snapshot or Rotation while a frame runs.
type Manager struct {
	store *Store
	clock *Clock

	frameMu sync.Mutex

	mu       sync.Mutex
	rotation Rotation
	lastStep int // steps elapsed at the last emitted event, -1 before the first

	stepMu    sync.Mutex
	stepSubs  map[int]func(StepEvent)
	nextSubID int
}

// NewManager creates a manager over a fresh store
func NewManager() *Manager {
	store := NewStore()
	return &Manager{
		store:    store,
		clock:    NewClock(store),
		lastStep: -1,
		stepSubs: make(map[int]func(StepEvent)),
	}
}

// Store exposes the underlying store for subscriptions
func (m *Manager) Store() *Store {
	return m.store
}

// Clock exposes the playback clock
func (m *Manager) Clock() *Clock {
	return m.clock
}

// Frame advances playback by the time elapsed since the previous frame.
// Returns false when paused (nothing changed). Every step the playhead
// entered since the last frame gets its own StepEvent, at most one lap's worth.
// Frame must not be called from a store subscriber.
func (m *Manager) Frame(deltaMs float64) bool {
	if deltaMs < 0 {
		deltaMs = 0
	}

	m.frameMu.Lock()
	defer m.frameMu.Unlock()

	rot, advanced := m.clock.Tick(deltaMs)
	if !advanced {
		return false
	}
	st := m.store.State()
	elapsed := stepsElapsed(st.PlaybackTime)

	m.mu.Lock()
	m.rotation.Advance(rot)
	first := max(m.lastStep+1, elapsed-NumSteps+1)
	m.lastStep = max(m.lastStep, elapsed)
	m.mu.Unlock()

	for n := first; n <= elapsed; n++ {
		step := n % NumSteps
		debug.LogEvery(16, "frame", "step=%d t=%.0fms", step, st.PlaybackTime)
		m.emitStep(StepEvent{Step: step, Notes: st.Notes.ActiveNotes(step)})
	}
	return true
}

// Drag rotates the disc by a horizontal pointer delta. Only allowed while paused.
func (m *Manager) Drag(dx float64) bool {
	if !m.clock.Paused() {
		return false
	}
	m.mu.Lock()
	m.rotation.Drag(dx)
	m.mu.Unlock()
	return true
}

// IsPaused reports the transport state
func (m *Manager) IsPaused() bool {
	return m.clock.Paused()
}

// TogglePlay flips between paused and running
func (m *Manager) TogglePlay() error {
	if err := m.clock.TogglePaused(); err != nil {
		return err
	}
	debug.Log("transport", "paused=%v", m.clock.Paused())
	return nil
}

// Toggle flips one note
func (m *Manager) Toggle(id NoteID) error {
	if err := m.store.Dispatch(ToggleNote(id)); err != nil {
		return err
	}
	debug.Log("note", "toggled %s", id)
	return nil
}

// SetClientLoaded records that the view has mounted
func (m *Manager) SetClientLoaded(v bool) error {
	if err := m.store.Dispatch(SetClientLoaded(v)); err != nil {
		debug.Log("store", "client loaded=%v: %v", v, err)
		return err
	}
	return nil
}

// Rotation returns the current disc orientation
func (m *Manager) Rotation() Rotation {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rotation
}

// Snapshot returns a copy of state and rotation taken together
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{State: m.store.State(), Rotation: m.rotation}
}

// OnStep registers fn for step events and returns a func that removes it
func (m *Manager) OnStep(fn func(StepEvent)) (unsubscribe func()) {
	m.stepMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.stepSubs[id] = fn
	m.stepMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.stepMu.Lock()
			delete(m.stepSubs, id)
			m.stepMu.Unlock()
		})
	}
}

func (m *Manager) emitStep(ev StepEvent) {
	m.stepMu.Lock()
	subs := make([]func(StepEvent), 0, len(m.stepSubs))
	for _, fn := range m.stepSubs {
		subs = append(subs, fn)
	}
	m.stepMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
