package layout

import (
	"math/rand"
	"strconv"

	"mandachord/sequencer"
)

// Role tells the renderer which colour to use for a draw command
type Role int

const (
	RolePan Role = iota
	RolePanRing
	RoleStepLine
	RoleBarLine
	RoleBarLabel
	RoleNote
	RoleNoteActive
	RoleNoteCurrent
	RoleMarker
	RoleTransport
)

type Circle struct {
	Center Point
	Radius float64
	Dash   []int // on/off run lengths in container units, nil = solid
	Fill   bool
	Role   Role
}

type Line struct {
	From, To Point
	Dash     []int
	Role     Role
}

type Label struct {
	At   Point
	Text string
	Role Role
}

type Dot struct {
	ID     sequencer.NoteID
	At     Point
	Radius float64
	Role   Role
}

// Scene is everything to draw for one frame, in container coordinates
type Scene struct {
	Circles []Circle
	Lines   []Line
	Labels  []Label
	Dots    []Dot
}

var (
	barDash  = []int{3, 1}
	stepDash = []int{1, 3}
)

// Composer turns snapshots into scenes. Its dash patterns are picked once.
type Composer struct {
	panDash1 []int
	panDash2 []int
}

// NewComposer creates a composer whose pan ring dashes come from seed
func NewComposer(seed int64) *Composer {
	rng := rand.New(rand.NewSource(seed))
	return &Composer{
		panDash1: RandomDash(rng, 1, 25, 15),
		panDash2: RandomDash(rng, 3, 50, 20),
	}
}

// RandomDash builds a dash pattern of length runs, each in [lo, hi)
func RandomDash(rng *rand.Rand, lo, hi, length int) []int {
	dash := make([]int, length)
	for i := range dash {
		dash[i] = lo + rng.Intn(hi-lo)
	}
	return dash
}

// Compose lays out a snapshot inside a viewport
func (c *Composer) Compose(snap sequencer.Snapshot, vp Viewport) Scene {
	var sc Scene
	if !vp.Ready() {
		return sc
	}

	rot := snap.Rotation
	center := vp.ToScreen(Center)
	current := snap.State.CurrentStep()

	// Pan control
	sc.Circles = append(sc.Circles,
		Circle{Center: center, Radius: vp.ScaleLen(PanRadius), Fill: true, Role: RolePan},
		Circle{Center: center, Radius: vp.ScaleLen(PanRadius - 3), Dash: rotateDash(c.panDash1, rot.Disc), Role: RolePanRing},
		Circle{Center: center, Radius: vp.ScaleLen(PanRadius - 14), Dash: rotateDash(c.panDash2, rot.Disc), Role: RolePanRing},
	)

	// Step lines behind steps holding notes, then bar lines and labels
	for step := 0; step < sequencer.NumSteps; step++ {
		if IsBarBoundary(step) || !snap.State.Notes.StepHasContent(step) {
			continue
		}
		angle := StepScreenAngle(step, rot.Disc)
		sc.Lines = append(sc.Lines, Line{
			From: vp.ToScreen(Polar(Center, angle, StepInner)),
			To:   vp.ToScreen(Polar(Center, angle, StepOuter)),
			Dash: stepDash,
			Role: RoleStepLine,
		})
	}
	for step := 0; step < sequencer.NumSteps; step++ {
		if !IsBarBoundary(step) {
			continue
		}
		angle := StepScreenAngle(step, rot.Disc)
		sc.Lines = append(sc.Lines, Line{
			From: vp.ToScreen(Polar(Center, angle, StepInner)),
			To:   vp.ToScreen(Polar(Center, angle, StepOuter)),
			Dash: barDash,
			Role: RoleBarLine,
		})
		sc.Labels = append(sc.Labels, Label{
			At:   vp.ToScreen(Polar(Center, angle, LabelRadius)),
			Text: strconv.Itoa(BarNumber(step)),
			Role: RoleBarLabel,
		})
	}

	// Notes
	for step := 0; step < sequencer.NumSteps; step++ {
		for note := 0; note < sequencer.NotesPerStep; note++ {
			id := sequencer.NoteID{Step: step, Note: note}
			active, _ := snap.State.Notes.IsActiveAt(step, note)

			role, radius := RoleNote, 0.0
			if active {
				role, radius = RoleNoteActive, vp.ScaleLen(NoteDotRadius)
				if step == current && !snap.State.IsPaused {
					role = RoleNoteCurrent
				}
			}
			sc.Dots = append(sc.Dots, Dot{
				ID:     id,
				At:     vp.ToScreen(NotePoint(id, rot.Disc)),
				Radius: radius,
				Role:   role,
			})
		}
	}

	// Current-step marker
	markerAngle := MarkerScreenAngle(rot)
	head := vp.ToScreen(Polar(Center, markerAngle, MarkerOuter))
	sc.Lines = append(sc.Lines, Line{
		From: vp.ToScreen(Polar(Center, markerAngle, MarkerInner)),
		To:   head,
		Role: RoleMarker,
	})
	sc.Circles = append(sc.Circles, Circle{Center: head, Radius: vp.ScaleLen(MarkerHead), Fill: true, Role: RoleMarker})

	// Transport
	glyph := "❚❚"
	if snap.State.IsPaused {
		glyph = "▶"
	}
	sc.Labels = append(sc.Labels, Label{At: vp.ToScreen(Transport.Center()), Text: glyph, Role: RoleTransport})

	return sc
}

// rotateDash shifts a dash pattern so the ring appears to turn with the disc
func rotateDash(dash []int, disc float64) []int {
	if len(dash) == 0 {
		return dash
	}
	shift := int(sequencer.Normalize(disc)) % len(dash)
	out := make([]int, 0, len(dash))
	out = append(out, dash[shift:]...)
	out = append(out, dash[:shift]...)
	return out
}
