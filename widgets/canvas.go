package widgets

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mandachord/layout"
)

// Braille dot positions (col, row) → bit offset:
//
//	(0,0)=0  (1,0)=3
//	(0,1)=1  (1,1)=4
//	(0,2)=2  (1,2)=5
//	(0,3)=6  (1,3)=7
var brailleBits = [2][4]uint{
	{0, 1, 2, 6},
	{3, 4, 5, 7},
}

const brailleBase = 0x2800

// Canvas is a dot raster backed by terminal cells, 2x4 dots per cell.
// Each cell takes the role of the last thing drawn into it.
type Canvas struct {
	cols, rows int
	dots       []uint8
	roles      []layout.Role
	text       []rune
}

// NewCanvas creates a blank canvas of cols x rows cells
func NewCanvas(cols, rows int) *Canvas {
	cols = max(cols, 0)
	rows = max(rows, 0)
	n := cols * rows
	return &Canvas{
		cols:  cols,
		rows:  rows,
		dots:  make([]uint8, n),
		roles: make([]layout.Role, n),
		text:  make([]rune, n),
	}
}

// CellSize maps a terminal size to the dot size the viewport should use
func CellSize(cols, rows int) (w, h float64) {
	return float64(cols * 2), float64(rows * 4)
}

// CellToDot maps a terminal cell to the dot at its centre
func CellToDot(col, row int) layout.Point {
	return layout.Point{X: float64(col*2) + 1, Y: float64(row*4) + 2}
}

func (c *Canvas) PixelWidth() int  { return c.cols * 2 }
func (c *Canvas) PixelHeight() int { return c.rows * 4 }

// Set lights one dot
func (c *Canvas) Set(x, y int, role layout.Role) {
	if x < 0 || y < 0 || x >= c.PixelWidth() || y >= c.PixelHeight() {
		return
	}
	i := (y/4)*c.cols + x/2
	c.dots[i] |= 1 << brailleBits[x%2][y%4]
	c.roles[i] = role
}

// dasher walks an on/off run-length pattern one dot at a time
type dasher struct {
	pattern []int
	idx     int
	left    int
}

func newDasher(pattern []int) *dasher {
	total := 0
	for _, n := range pattern {
		total += max(n, 0)
	}
	if total == 0 {
		return &dasher{}
	}
	return &dasher{pattern: pattern, left: pattern[0]}
}

// next reports whether the current dot is drawn, then advances
func (d *dasher) next() bool {
	if len(d.pattern) == 0 {
		return true
	}
	for d.left <= 0 {
		d.idx = (d.idx + 1) % len(d.pattern)
		d.left = d.pattern[d.idx]
	}
	on := d.idx%2 == 0
	d.left--
	return on
}

// Line draws a Bresenham line
func (c *Canvas) Line(from, to layout.Point, dash []int, role layout.Role) {
	x0, y0 := round(from.X), round(from.Y)
	x1, y1 := round(to.X), round(to.Y)
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	d := newDasher(dash)
	e := dx + dy

	for {
		if d.next() {
			c.Set(x0, y0, role)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Circle draws an outline, or a disc when fill is set
func (c *Canvas) Circle(center layout.Point, r float64, dash []int, fill bool, role layout.Role) {
	if r < 0.5 {
		c.Set(round(center.X), round(center.Y), role)
		return
	}
	if fill {
		ir := int(math.Ceil(r))
		for y := -ir; y <= ir; y++ {
			for x := -ir; x <= ir; x++ {
				if float64(x*x+y*y) <= r*r {
					c.Set(round(center.X)+x, round(center.Y)+y, role)
				}
			}
		}
		return
	}

	steps := max(16, int(2*math.Pi*r*2))
	d := newDasher(dash)
	lastX, lastY := math.MinInt, math.MinInt
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x := round(center.X + r*math.Cos(a))
		y := round(center.Y + r*math.Sin(a))
		if x == lastX && y == lastY {
			continue
		}
		lastX, lastY = x, y
		if d.next() {
			c.Set(x, y, role)
		}
	}
}

// Text writes s centred on the cell under the given dot
func (c *Canvas) Text(at layout.Point, s string, role layout.Role) {
	runes := []rune(s)
	row := round(at.Y) / 4
	col := round(at.X)/2 - len(runes)/2
	if row < 0 || row >= c.rows {
		return
	}
	for i, r := range runes {
		cc := col + i
		if cc < 0 || cc >= c.cols {
			continue
		}
		idx := row*c.cols + cc
		c.text[idx] = r
		c.roles[idx] = role
	}
}

// Draw rasterises a scene. Later commands paint over earlier ones.
func (c *Canvas) Draw(sc layout.Scene) {
	for _, ci := range sc.Circles {
		c.Circle(ci.Center, ci.Radius, ci.Dash, ci.Fill, ci.Role)
	}
	for _, d := range sc.Dots {
		c.Circle(d.At, d.Radius, nil, true, d.Role)
	}
	for _, l := range sc.Lines {
		c.Line(l.From, l.To, l.Dash, l.Role)
	}
	for _, l := range sc.Labels {
		c.Text(l.At, l.Text, l.Role)
	}
}

// Render turns the canvas into styled terminal lines. Runs of cells with
// the same role share one style call.
func (c *Canvas) Render(style func(layout.Role) lipgloss.Style) string {
	lines := make([]string, c.rows)
	for row := 0; row < c.rows; row++ {
		var line, run strings.Builder
		var runRole layout.Role
		runStyled := false

		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runStyled {
				line.WriteString(style(runRole).Render(run.String()))
			} else {
				line.WriteString(run.String())
			}
			run.Reset()
		}

		for col := 0; col < c.cols; col++ {
			i := row*c.cols + col
			ch, styled := ' ', false
			switch {
			case c.text[i] != 0:
				ch, styled = c.text[i], true
			case c.dots[i] != 0:
				ch, styled = rune(brailleBase+int(c.dots[i])), true
			}
			if styled != runStyled || (styled && c.roles[i] != runRole) {
				flush()
				runStyled = styled
				runRole = c.roles[i]
			}
			run.WriteRune(ch)
		}
		flush()
		lines[row] = line.String()
	}
	return strings.Join(lines, "\n")
}

// Plain renders without styling (tests, dumb terminals)
func (c *Canvas) Plain() string {
	return c.Render(func(layout.Role) lipgloss.Style { return lipgloss.NewStyle() })
}

func round(f float64) int {
	return int(math.Round(f))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
