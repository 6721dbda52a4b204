package layout

import "math"

// FitScale scales the virtual canvas into a w x h container without distortion
func FitScale(w, h float64) float64 {
	if w <= 0 || h <= 0 {
		return 0
	}
	return math.Min(w/VirtualWidth, h/VirtualHeight)
}

// Viewport maps the virtual canvas onto a container, centred
type Viewport struct {
	Width, Height float64
	Scale         float64
}

// NewViewport computes the transform for a container size
func NewViewport(w, h float64) Viewport {
	return Viewport{Width: w, Height: h, Scale: FitScale(w, h)}
}

// Ready reports whether the container has any area to draw in
func (v Viewport) Ready() bool {
	return v.Scale > 0
}

func (v Viewport) offset() Point {
	return Point{
		X: (v.Width - VirtualWidth*v.Scale) / 2,
		Y: (v.Height - VirtualHeight*v.Scale) / 2,
	}
}

// ToScreen maps a virtual point into container coordinates
func (v Viewport) ToScreen(p Point) Point {
	o := v.offset()
	return Point{X: o.X + p.X*v.Scale, Y: o.Y + p.Y*v.Scale}
}

// ToVirtual maps a container point back into virtual coordinates
func (v Viewport) ToVirtual(p Point) Point {
	if !v.Ready() {
		return Point{}
	}
	o := v.offset()
	return Point{X: (p.X - o.X) / v.Scale, Y: (p.Y - o.Y) / v.Scale}
}

// ScaleLen converts a virtual length into container units
func (v Viewport) ScaleLen(l float64) float64 {
	return l * v.Scale
}
