package layout

import (
	"math"

	"mandachord/sequencer"
)

// NoteAt finds the note slot under a virtual point for the given rotation.
// The radial band is half a spacing wider than the outermost/innermost notes.
func NoteAt(p Point, rot sequencer.Rotation) (sequencer.NoteID, bool) {
	d := p.Sub(Center)
	r := d.Len()
	if r < NoteRadius(0)-NoteSpacing/2 || r > NoteRadius(sequencer.NotesPerStep-1)+NoteSpacing/2 {
		return sequencer.NoteID{}, false
	}

	note := int(math.Round((r - NoteInner) / NoteSpacing))
	note = max(0, min(note, sequencer.NotesPerStep-1))

	theta := math.Atan2(d.Y, d.X) * 180 / math.Pi
	local := sequencer.Normalize(theta - baseAngle - StepRingOffset - rot.Disc)
	step := int(math.Round(local/sequencer.StepSweep)) % sequencer.NumSteps

	return sequencer.NoteID{Step: step, Note: note}, true
}

// InPanControl reports whether a virtual point is on the pan circle
func InPanControl(p Point) bool {
	return p.Sub(Center).Len() <= PanRadius
}

// InTransport reports whether a virtual point is on the play/pause button
func InTransport(p Point) bool {
	return Transport.Contains(p)
}
