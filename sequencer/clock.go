package sequencer

import (
	"math"

	"mandachord/debug"
)

// Rotation speed: the disc turns DegreesPer100ms for every 100ms of playback,
// so angular velocity follows wall time rather than frame count.
const DegreesPer100ms = 4.5

// StepSweep is the angle covered by one step
const StepSweep = 360.0 / NumSteps

// MsPerStep is how long the playhead stays on one step (125ms at 45°/s)
const MsPerStep = StepSweep / DegreesPer100ms * 100

// RotationDelta converts elapsed playback time into disc rotation (degrees)
func RotationDelta(deltaMs float64) float64 {
	return -1 * (deltaMs / 100) * DegreesPer100ms
}

// StepAt returns the step under the playhead after playbackTime ms
func StepAt(playbackTime float64) int {
	return stepsElapsed(playbackTime) % NumSteps
}

// stepsElapsed counts step boundaries crossed since time 0, without wrapping
func stepsElapsed(playbackTime float64) int {
	if playbackTime <= 0 {
		return 0
	}
	return int(math.Floor(playbackTime / MsPerStep))
}

// Clock advances playback time on the store
type Clock struct {
	store *Store
}

func NewClock(store *Store) *Clock {
	return &Clock{store: store}
}

// Tick advances playback by deltaMs. While paused it does nothing and reports false.
// Otherwise it returns the rotation delta the elapsed time corresponds to.
func (c *Clock) Tick(deltaMs float64) (rotation float64, advanced bool) {
	if c.store.State().IsPaused {
		return 0, false
	}
	if err := c.store.Dispatch(UpdatePlaybackTime(deltaMs)); err != nil {
		return 0, false
	}
	return RotationDelta(deltaMs), true
}

// Paused reports the transport state
func (c *Clock) Paused() bool {
	return c.store.State().IsPaused
}

// SetPaused sets the transport state. Playback time is kept so resuming continues smoothly.
func (c *Clock) SetPaused(paused bool) error {
	if c.store.State().IsPaused == paused {
		return nil
	}
	return c.TogglePaused()
}

// TogglePaused flips the transport state
func (c *Clock) TogglePaused() error {
	if err := c.store.Dispatch(PlayPause()); err != nil {
		debug.Log("transport", "toggle rejected: %v", err)
		return err
	}
	return nil
}
