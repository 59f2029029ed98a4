package engo

import (
	"math"

	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

// circleSides approximates circles inside compounds.
const circleSides = 24

// Sprite is the screen-space rendition of a body: a drawable stretched
// over the box at Position with the given size.
type Sprite struct {
	Position engo.Point
	Width    float32
	Height   float32
	Drawable common.Drawable
}

// SpriteFor builds the sprite for b as seen through cam. Circles map to
// common.Circle; every other shape is triangulated in world space and
// drawn as common.ComplexTriangles, whose points are normalized to the
// sprite box.
func SpriteFor(b *body.Body, cam *CameraSystem) Sprite {
	s := b.Shape()
	style := s.Style()
	border := float32(style.BorderWidth)

	if s.Kind() == shape.KindCircle {
		c := cam.WorldToScreen(s.Location())
		r := float32(s.Radius()) * cam.PixelsPerUnit()
		return Sprite{
			Position: engo.Point{X: c.X - r, Y: c.Y - r},
			Width:    2 * r,
			Height:   2 * r,
			Drawable: common.Circle{BorderWidth: border, BorderColor: style.BorderColor},
		}
	}

	lineWidth := 2 / float64(cam.PixelsPerUnit())
	if style.BorderWidth > 0 {
		lineWidth = style.BorderWidth / float64(cam.PixelsPerUnit())
	}
	screen := make([]engo.Point, 0, 3*circleSides)
	for _, p := range Triangles(s, lineWidth) {
		screen = append(screen, cam.WorldToScreen(p))
	}
	pos, w, h := normalize(screen)
	return Sprite{
		Position: pos,
		Width:    w,
		Height:   h,
		Drawable: common.ComplexTriangles{Points: screen, BorderWidth: border, BorderColor: style.BorderColor},
	}
}

// normalize rewrites points relative to their bounding box, scaled to
// [0,1], and returns the box.
func normalize(points []engo.Point) (engo.Point, float32, float32) {
	if len(points) == 0 {
		return engo.Point{}, 1, 1
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	w, h := max(hi.X-lo.X, 1), max(hi.Y-lo.Y, 1)
	for i := range points {
		points[i].X = (points[i].X - lo.X) / w
		points[i].Y = (points[i].Y - lo.Y) / h
	}
	return lo, w, h
}

// Triangles returns a triangle list covering s in world coordinates.
// Curves and paths become strips lineWidth wide.
func Triangles(s *shape.Shape, lineWidth float64) []physics.Vector2D {
	switch s.Kind() {
	case shape.KindCircle:
		return fan(circleRing(s.Location(), s.Radius()))
	case shape.KindRect, shape.KindPolygon:
		return fan(s.Vertices())
	case shape.KindCompound:
		var out []physics.Vector2D
		for _, p := range s.Parts() {
			out = append(out, Triangles(p, lineWidth)...)
		}
		return out
	case shape.KindCurve, shape.KindPath:
		return strip(s.Segments(), lineWidth)
	}
	return nil
}

func fan(ring []physics.Vector2D) []physics.Vector2D {
	if len(ring) < 3 {
		return nil
	}
	out := make([]physics.Vector2D, 0, 3*(len(ring)-2))
	for i := 1; i+1 < len(ring); i++ {
		out = append(out, ring[0], ring[i], ring[i+1])
	}
	return out
}

func circleRing(center physics.Vector2D, r float64) []physics.Vector2D {
	ring := make([]physics.Vector2D, circleSides)
	for i := range ring {
		ring[i] = center.Add(physics.FromAngle(2*math.Pi*float64(i)/circleSides, r))
	}
	return ring
}

func strip(points []physics.Vector2D, width float64) []physics.Vector2D {
	out := make([]physics.Vector2D, 0, 6*len(points))
	for i := 0; i+1 < len(points); i++ {
		a, b := points[i], points[i+1]
		d := b.Sub(a)
		if d.IsZero() {
			continue
		}
		n := d.Perp().Normalize().Scale(width / 2)
		out = append(out,
			a.Add(n), a.Sub(n), b.Sub(n),
			a.Add(n), b.Sub(n), b.Add(n),
		)
	}
	return out
}
