package sequencer

import "math"

// DragSpeed converts horizontal pointer travel (pixels) into disc rotation (degrees)
const DragSpeed = 0.1

// Rotation holds the two angle accumulators of the disc.
// Both grow without bound; consumers normalise when drawing.
type Rotation struct {
	Disc   float64 `json:"disc"`
	Marker float64 `json:"marker"`
}

// Advance applies a playback rotation delta to disc and marker alike
func (r *Rotation) Advance(delta float64) {
	r.Disc += delta
	r.Marker += delta
}

// Drag rotates the disc by a pointer delta. The marker is unaffected.
func (r *Rotation) Drag(dxPixels float64) {
	r.Disc += DragSpeed * dxPixels
}

// MarkerAngle is the marker's angle relative to the steps (inverted at read time)
func (r Rotation) MarkerAngle() float64 {
	return -1 * r.Marker
}

// Normalize maps any angle into [0, 360)
func Normalize(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return a
}
