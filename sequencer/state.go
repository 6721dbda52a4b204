package sequencer

import "fmt"

// State is the single source of truth for the sequencer's musical content and transport
type State struct {
	IsPaused     bool    `json:"isPaused"`
	PlaybackTime float64 `json:"playbackTime"` // ms, grows while running
	ClientLoaded bool    `json:"clientLoaded"`
	Notes        Grid    `json:"-"`
}

// NewState creates the initial state: paused, empty disc
func NewState() State {
	return State{
		IsPaused: true,
	}
}

// CurrentStep is the step under the playhead
func (s State) CurrentStep() int {
	return StepAt(s.PlaybackTime)
}

// ActiveAtCurrentStep returns the active notes of the step under the playhead
func (s State) ActiveAtCurrentStep() []int {
	return s.Notes.ActiveNotes(s.CurrentStep())
}

// Reduce applies one action and returns the next state. The input is not modified.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case ActionPlayPause:
		s.IsPaused = !s.IsPaused

	case ActionToggleNote:
		// Grid is an array, so s already holds a private copy
		if err := s.Notes.Toggle(a.ID.Step, a.ID.Note); err != nil {
			return s, err
		}

	case ActionUpdatePlaybackTime:
		s.PlaybackTime += a.Delta

	case ActionSetClientLoaded:
		s.ClientLoaded = a.Value

	default:
		return s, fmt.Errorf("unknown action %q", a.Type)
	}
	return s, nil
}
