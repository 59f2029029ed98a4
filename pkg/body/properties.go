package body

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Surface colors applied when the gravitational property is set.
var (
	GravitationalColor    = color.RGBA{255, 255, 255, 255}
	NonGravitationalColor = color.RGBA{128, 128, 128, 255}
)

// SetProperties configures the body from a level property map. Known
// keys are restitution, density, friction, group, static, interactive,
// visible, gravitational, rotatable and reorients; the map is then
// forwarded to the shape for its appearance keys. Malformed values are
// skipped and reported together in the returned error, which wraps
// physics.ErrConfiguration; the remaining keys are still applied.
func (b *Body) SetProperties(props map[string]string) error {
	var errs []error
	bad := func(key, value string, err error) {
		errs = append(errs, fmt.Errorf("%w: property %s=%q: %v", physics.ErrConfiguration, key, value, err))
	}

	floatProp := func(key string, valid func(float64) bool, apply func(float64)) {
		v, ok := props[key]
		if !ok {
			return
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !valid(f) {
			err = errors.New("out of range")
		}
		if err != nil {
			bad(key, v, err)
			return
		}
		apply(f)
	}
	boolProp := func(key string, apply func(bool)) {
		v, ok := props[key]
		if !ok {
			return
		}
		flag, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			bad(key, v, err)
			return
		}
		apply(flag)
	}
	nonNegative := func(f float64) bool { return f >= 0 }

	floatProp("restitution", nonNegative, b.SetRestitution)
	floatProp("density", func(f float64) bool { return f > 0 }, b.SetDensity)
	floatProp("friction", nonNegative, b.SetFriction)
	boolProp("static", b.SetStatic)
	boolProp("interactive", b.SetInteractive)
	boolProp("rotatable", b.SetRotatable)
	boolProp("reorients", b.SetReorients)

	if v, ok := props["group"]; ok {
		g, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
		if err != nil {
			bad("group", v, err)
		} else {
			b.SetGroup(Group(g))
		}
	}

	b.shape.SetProperties(props)

	boolProp("visible", b.SetVisible)
	boolProp("gravitational", func(g bool) {
		b.SetGravitational(g)
		c := NonGravitationalColor
		if g {
			c = GravitationalColor
		}
		style := b.shape.Style()
		style.Color, style.BorderColor = c, c
		b.shape.SetStyle(style)
	})

	return errors.Join(errs...)
}
