package sequencer

// ActionType names a state transition
type ActionType string

const (
	ActionPlayPause          ActionType = "PLAY_PAUSE"
	ActionToggleNote         ActionType = "TOGGLE_NOTE"
	ActionUpdatePlaybackTime ActionType = "UPDATE_PLAYBACK_TIME"
	ActionSetClientLoaded    ActionType = "SET_CLIENT_LOADED"
)

// Action is one event fed to Reduce. Only the field matching Type is read.
type Action struct {
	Type  ActionType
	ID    NoteID  // TOGGLE_NOTE
	Delta float64 // UPDATE_PLAYBACK_TIME, milliseconds
	Value bool    // SET_CLIENT_LOADED
}

func PlayPause() Action {
	return Action{Type: ActionPlayPause}
}

func ToggleNote(id NoteID) Action {
	return Action{Type: ActionToggleNote, ID: id}
}

func UpdatePlaybackTime(deltaMs float64) Action {
	return Action{Type: ActionUpdatePlaybackTime, Delta: deltaMs}
}

func SetClientLoaded(v bool) Action {
	return Action{Type: ActionSetClientLoaded, Value: v}
}
