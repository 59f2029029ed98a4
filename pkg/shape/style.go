package shape

import (
	"context"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/physics"
)

var (
	logger = logging.NewLogger()
	bg     = context.Background()
)

// SetLogger replaces the logger used for shape diagnostics.
func SetLogger(l *logging.Logger) {
	if l != nil {
		logger = l
	}
}

// DrawMode selects how a renderer paints a shape.
type DrawMode uint8

// Draw modes
const (
	DrawFill DrawMode = iota
	DrawOutline
	DrawFillAndOutline
)

// ParseDrawMode accepts "fill", "outline" (or "border") and "both".
func ParseDrawMode(s string) (DrawMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fill", "":
		return DrawFill, nil
	case "outline", "border":
		return DrawOutline, nil
	case "both", "fill_and_outline":
		return DrawFillAndOutline, nil
	}
	return DrawFill, fmt.Errorf("%w: unknown draw mode %q", physics.ErrConfiguration, s)
}

// Style is the read-only appearance surface handed to renderers.
type Style struct {
	Color       color.RGBA
	BorderColor color.RGBA
	BorderWidth float64
	Mode        DrawMode
	Visible     bool
}

// DefaultStyle is an opaque black fill without border.
func DefaultStyle() Style {
	return Style{
		Color:       color.RGBA{A: 255},
		BorderColor: color.RGBA{A: 255},
		Visible:     true,
	}
}

// Style returns the shape's appearance.
func (s *Shape) Style() Style {
	return s.style
}

// SetStyle replaces the appearance of the shape and, for compounds and
// paths, of every child.
func (s *Shape) SetStyle(style Style) {
	s.style = style
	for _, p := range s.parts {
		p.SetStyle(style)
	}
	for _, c := range s.curves {
		c.SetStyle(style)
	}
}

// SetColor changes only the fill color, propagating to children.
func (s *Shape) SetColor(c color.RGBA) {
	style := s.style
	style.Color = c
	s.SetStyle(style)
}

// SetVisible toggles rendering, propagating to children.
func (s *Shape) SetVisible(visible bool) {
	style := s.style
	style.Visible = visible
	s.SetStyle(style)
}

// SetProperties applies appearance keys from a level property map:
// color, border_color, border_width and drawmode. Malformed values fall
// back to black, zero width or fill and are logged; unknown keys are
// ignored.
func (s *Shape) SetProperties(props map[string]string) {
	style := s.style
	if v, ok := props["color"]; ok {
		style.Color = colorOrBlack(v, "color")
	}
	if v, ok := props["border_color"]; ok {
		style.BorderColor = colorOrBlack(v, "border_color")
	}
	if v, ok := props["border_width"]; ok {
		w, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || w < 0 {
			logger.Warn(bg, "invalid border width, using 0",
				"value", v,
				"shape", s.String(),
			)
			w = 0
		}
		style.BorderWidth = w
	}
	if v, ok := props["drawmode"]; ok {
		mode, err := ParseDrawMode(v)
		if err != nil {
			logger.Warn(bg, "invalid draw mode, using fill",
				"value", v,
				"shape", s.String(),
			)
		}
		style.Mode = mode
	}
	s.SetStyle(style)
}

func colorOrBlack(value, key string) color.RGBA {
	c, err := ParseColor(value)
	if err != nil {
		logger.Warn(bg, "invalid color, using black",
			"property", key,
			"value", value,
		)
		return color.RGBA{A: 255}
	}
	return c
}

var namedColors = map[string]color.RGBA{
	"black":      {0, 0, 0, 255},
	"white":      {255, 255, 255, 255},
	"red":        {255, 0, 0, 255},
	"green":      {0, 255, 0, 255},
	"blue":       {0, 0, 255, 255},
	"yellow":     {255, 255, 0, 255},
	"orange":     {255, 200, 0, 255},
	"pink":       {255, 175, 175, 255},
	"cyan":       {0, 255, 255, 255},
	"magenta":    {255, 0, 255, 255},
	"gray":       {128, 128, 128, 255},
	"grey":       {128, 128, 128, 255},
	"light_gray": {192, 192, 192, 255},
	"lightgray":  {192, 192, 192, 255},
	"dark_gray":  {64, 64, 64, 255},
	"darkgray":   {64, 64, 64, 255},
}

// ParseColor accepts a color name or an "r,g,b" / "r,g,b,a" triple of
// 0-255 integers.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}

	fields := strings.Split(s, ",")
	if len(fields) != 3 && len(fields) != 4 {
		return color.RGBA{}, fmt.Errorf("%w: unknown color %q", physics.ErrConfiguration, s)
	}
	channels := [4]uint8{255, 255, 255, 255}
	for i, f := range fields {
		v, err := strconv.ParseUint(strings.TrimSpace(f), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("%w: color channel %q: %v", physics.ErrConfiguration, f, err)
		}
		channels[i] = uint8(v)
	}
	return color.RGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}
