package sequencer

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Disc dimensions
const (
	NumSteps     = 64
	NotesPerStep = 13
	NumNotes     = NumSteps * NotesPerStep
)

var (
	ErrOutOfRange  = errors.New("note index out of range")
	ErrMalformedID = errors.New("malformed note id")
)

// noteIDPattern matches the "<step>:<note>" key used for note identity
var noteIDPattern = regexp.MustCompile(`^(?P<step>\d+):(?P<note>\d+)$`)

// NoteID identifies one slot on the disc
type NoteID struct {
	Step int
	Note int
}

func (id NoteID) String() string {
	return fmt.Sprintf("%d:%d", id.Step, id.Note)
}

// Valid reports whether the id addresses a slot that exists
func (id NoteID) Valid() bool {
	return id.Step >= 0 && id.Step < NumSteps && id.Note >= 0 && id.Note < NotesPerStep
}

// ParseNoteID parses a "<step>:<note>" key
func ParseNoteID(s string) (NoteID, error) {
	m := noteIDPattern.FindStringSubmatch(s)
	if m == nil {
		return NoteID{}, fault.Wrap(ErrMalformedID,
			fmsg.With(fmt.Sprintf("parse %q", s)),
			ftag.With(ftag.InvalidArgument))
	}
	step, err := strconv.Atoi(m[noteIDPattern.SubexpIndex("step")])
	if err != nil {
		return NoteID{}, fault.Wrap(ErrMalformedID, fmsg.With(err.Error()), ftag.With(ftag.InvalidArgument))
	}
	note, err := strconv.Atoi(m[noteIDPattern.SubexpIndex("note")])
	if err != nil {
		return NoteID{}, fault.Wrap(ErrMalformedID, fmsg.With(err.Error()), ftag.With(ftag.InvalidArgument))
	}
	id := NoteID{Step: step, Note: note}
	if err := checkRange(id); err != nil {
		return NoteID{}, err
	}
	return id, nil
}

func checkRange(id NoteID) error {
	if id.Valid() {
		return nil
	}
	return fault.Wrap(ErrOutOfRange,
		fmsg.With(fmt.Sprintf("note %s outside %dx%d grid", id, NumSteps, NotesPerStep)),
		ftag.With(ftag.InvalidArgument))
}

// Grid holds the on/off flag of every note on the disc.
// It is a value type: copying a Grid yields an independent snapshot.
type Grid struct {
	notes [NumSteps][NotesPerStep]bool
}

// Toggle flips exactly one note
func (g *Grid) Toggle(step, note int) error {
	id := NoteID{Step: step, Note: note}
	if err := checkRange(id); err != nil {
		return err
	}
	g.notes[step][note] = !g.notes[step][note]
	return nil
}

// IsActiveAt reads one note
func (g Grid) IsActiveAt(step, note int) (bool, error) {
	if err := checkRange(NoteID{Step: step, Note: note}); err != nil {
		return false, err
	}
	return g.notes[step][note], nil
}

// ActiveNotes returns the active note positions of a step, lowest first.
// Steps outside the disc have no notes.
func (g Grid) ActiveNotes(step int) []int {
	if step < 0 || step >= NumSteps {
		return nil
	}
	var out []int
	for n, on := range g.notes[step] {
		if on {
			out = append(out, n)
		}
	}
	return out
}

// ActiveCount counts active notes across the whole disc
func (g Grid) ActiveCount() int {
	count := 0
	for s := range g.notes {
		for _, on := range g.notes[s] {
			if on {
				count++
			}
		}
	}
	return count
}

// StepHasContent reports whether any note in the step is active
func (g Grid) StepHasContent(step int) bool {
	if step < 0 || step >= NumSteps {
		return false
	}
	for _, on := range g.notes[step] {
		if on {
			return true
		}
	}
	return false
}
