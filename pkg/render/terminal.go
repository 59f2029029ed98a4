package render

import (
	"bufio"
	"io"
	"math"
	"strings"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

// Glyphs per shape kind.
var glyphs = map[shape.Kind]rune{
	shape.KindCircle:   'o',
	shape.KindRect:     '#',
	shape.KindPolygon:  '*',
	shape.KindCompound: '%',
	shape.KindCurve:    '~',
	shape.KindPath:     '~',
}

// TerminalRenderer rasterizes bodies into a character grid. One cell
// covers scale world units; world y grows upwards.
type TerminalRenderer struct {
	out         io.Writer
	width       int
	height      int
	buffer      [][]rune
	scale       float64
	centerPos   physics.Vector2D
	ClearScreen bool
}

// NewTerminalRenderer creates a width×height renderer writing to out.
func NewTerminalRenderer(out io.Writer, width, height int, scale float64) *TerminalRenderer {
	buffer := make([][]rune, height)
	for i := range buffer {
		buffer[i] = make([]rune, width)
	}

	r := &TerminalRenderer{
		out:    out,
		width:  width,
		height: height,
		buffer: buffer,
		scale:  scale,
	}
	r.Clear()
	return r
}

// SetCenter sets the world point shown in the middle of the grid.
func (r *TerminalRenderer) SetCenter(pos physics.Vector2D) {
	r.centerPos = pos
}

func (r *TerminalRenderer) worldToScreen(pos physics.Vector2D) (int, int) {
	x := math.Floor((pos.X-r.centerPos.X)/r.scale + float64(r.width)/2)
	y := math.Floor(float64(r.height)/2 - (pos.Y-r.centerPos.Y)/r.scale)
	return int(x), int(y)
}

func (r *TerminalRenderer) cellCenter(x, y int) physics.Vector2D {
	return physics.Vector2D{
		X: r.centerPos.X + (float64(x)+0.5-float64(r.width)/2)*r.scale,
		Y: r.centerPos.Y + (float64(r.height)/2-float64(y)-0.5)*r.scale,
	}
}

func (r *TerminalRenderer) plot(x, y int, glyph rune) {
	if x >= 0 && x < r.width && y >= 0 && y < r.height {
		r.buffer[y][x] = glyph
	}
}

// Clear implements Renderer.
func (r *TerminalRenderer) Clear() {
	for y := range r.buffer {
		for x := range r.buffer[y] {
			r.buffer[y][x] = ' '
		}
	}
}

// RenderBody implements Renderer. Filled shapes mark every cell whose
// center they contain; curves and paths trace their sampled polyline.
func (r *TerminalRenderer) RenderBody(b *body.Body) {
	if b == nil {
		return
	}
	s := b.Shape()
	glyph := glyphs[s.Kind()]

	switch s.Kind() {
	case shape.KindCurve, shape.KindPath:
		r.trace(s.Segments(), glyph)
		return
	}

	lo, hi := s.Bounds()
	x0, y1 := r.worldToScreen(lo)
	x1, y0 := r.worldToScreen(hi)
	filled := false
	for y := max(y0, 0); y <= min(y1, r.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.width-1); x++ {
			if s.Contains(r.cellCenter(x, y)) {
				r.buffer[y][x] = glyph
				filled = true
			}
		}
	}
	if !filled {
		x, y := r.worldToScreen(b.Centroid())
		r.plot(x, y, glyph)
	}
}

func (r *TerminalRenderer) trace(points []physics.Vector2D, glyph rune) {
	step := r.scale / 2
	for i := 0; i+1 < len(points); i++ {
		a, d := points[i], points[i+1].Sub(points[i])
		n := int(math.Ceil(d.Length()/step)) + 1
		for k := 0; k <= n; k++ {
			x, y := r.worldToScreen(a.Add(d.Scale(float64(k) / float64(n))))
			r.plot(x, y, glyph)
		}
	}
}

// String returns the grid without borders.
func (r *TerminalRenderer) String() string {
	var sb strings.Builder
	for y := range r.buffer {
		sb.WriteString(string(r.buffer[y]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Present implements Renderer by writing the bordered grid to the output.
func (r *TerminalRenderer) Present() {
	w := bufio.NewWriter(r.out)
	if r.ClearScreen {
		w.WriteString("\033[H\033[2J")
	}
	border := "+" + strings.Repeat("-", r.width) + "+\n"
	w.WriteString(border)
	for y := range r.buffer {
		w.WriteByte('|')
		w.WriteString(string(r.buffer[y]))
		w.WriteString("|\n")
	}
	w.WriteString(border)
	w.Flush()
}
