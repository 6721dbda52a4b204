// Package layout places the disc's steps and notes in the virtual canvas
// and turns sequencer snapshots into draw commands. Nothing here holds state.
package layout

import (
	"math"

	"mandachord/sequencer"
)

// Virtual canvas, scaled to fit whatever container is available
const (
	VirtualWidth  = 500.0
	VirtualHeight = 400.0
)

// StepsPerBar marks every quarter of the 64-step cycle
const StepsPerBar = 16

// Radii in virtual units. Note positions increase outward with the note index.
const (
	PanRadius      = 40.0
	StepInner      = 48.0
	StepOuter      = 190.0
	NoteInner      = 60.0
	NoteSpacing    = 10.0
	NoteDotRadius  = 3.0
	LabelRadius    = 196.0
	MarkerInner    = 46.0
	MarkerOuter    = 192.0
	MarkerHead     = 4.0
	StepRingOffset = 135.0 // steps sit this far ahead of the pan control
)

// Center of the disc
var Center = Point{X: VirtualWidth / 2, Y: VirtualHeight / 2}

// Transport button area, top-left of the canvas
var Transport = Rect{Min: Point{X: 10, Y: 10}, Max: Point{X: 40, Y: 40}}

type Point struct {
	X, Y float64
}

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Len() float64      { return math.Hypot(p.X, p.Y) }

type Rect struct {
	Min, Max Point
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// StepAngle is the angular position of a step on the disc (degrees)
func StepAngle(step int) float64 {
	return float64(step) * (360.0 / sequencer.NumSteps)
}

// IsBarBoundary reports whether a step starts a bar
func IsBarBoundary(step int) bool {
	return step%StepsPerBar == 0
}

// BarNumber is the 1-based bar a step belongs to
func BarNumber(step int) int {
	return step/StepsPerBar + 1
}

// NoteRadius is the distance of a note slot from the disc centre
func NoteRadius(note int) float64 {
	return NoteInner + float64(note)*NoteSpacing
}

// Polar returns the point at radius r along screen angle deg.
// Angles run clockwise from +X because screen Y grows downward.
func Polar(c Point, deg, r float64) Point {
	rad := deg * math.Pi / 180
	return Point{X: c.X + r*math.Cos(rad), Y: c.Y + r*math.Sin(rad)}
}

// Step lines point along +Y before rotation
const baseAngle = 90.0

// StepScreenAngle is the on-screen angle of a step for a disc rotation
func StepScreenAngle(step int, disc float64) float64 {
	return baseAngle + disc + StepRingOffset + StepAngle(step)
}

// MarkerScreenAngle is the on-screen angle of the current-step marker
func MarkerScreenAngle(rot sequencer.Rotation) float64 {
	return baseAngle + rot.Disc + StepRingOffset + rot.MarkerAngle()
}

// NotePoint is the virtual position of a note for a disc rotation
func NotePoint(id sequencer.NoteID, disc float64) Point {
	return Polar(Center, StepScreenAngle(id.Step, disc), NoteRadius(id.Note))
}
