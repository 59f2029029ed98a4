package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/physics"
	"github.com/opd-ai/go-gravidog/pkg/shape"
	"github.com/opd-ai/go-gravidog/pkg/world"
)

// Scene is a level placed into a world.
type Scene struct {
	World  *world.World
	Player *body.Body

	named map[string]*body.Body
}

// Body returns the body declared under name.
func (s *Scene) Body(name string) (*body.Body, bool) {
	b, ok := s.named[name]
	return b, ok
}

// Build adds every body and constraint of l to w. Geometry errors abort
// the build; malformed property values are logged and skipped like any
// other level property.
func Build(l *Level, w *world.World, logger *logging.Logger) (*Scene, error) {
	if l == nil || w == nil {
		return nil, fmt.Errorf("%w: level and world are required", physics.ErrConfiguration)
	}
	if logger == nil {
		logger = logging.NewLogger()
	}
	ctx := context.Background()

	if l.Gravity != nil {
		w.SetGravity(l.Gravity.Vec())
	}
	for _, pair := range l.DisabledGroups {
		w.GroupFilter().Disable(body.Group(pair[0]), body.Group(pair[1]))
	}

	scene := &Scene{World: w, named: make(map[string]*body.Body)}
	for i, spec := range l.Bodies {
		b, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, spec.label(), err)
		}
		if err := b.SetProperties(spec.Properties); err != nil {
			logger.Warn(ctx, "ignoring malformed body properties",
				"level", l.Name,
				"body", spec.label(),
				"error", err.Error(),
			)
		}
		if spec.Player {
			b.SetReorients(true)
			scene.Player = b
		}
		if err := w.Add(b); err != nil {
			return nil, err
		}
		if spec.Name != "" {
			if _, dup := scene.named[spec.Name]; dup {
				return nil, fmt.Errorf("%w: duplicate body name %q", physics.ErrConfiguration, spec.Name)
			}
			scene.named[spec.Name] = b
		}
	}

	for _, s := range l.Springs {
		b, err := scene.lookup(s.Body)
		if err != nil {
			return nil, fmt.Errorf("spring: %w", err)
		}
		if _, err := w.AddSpring(b, s.Stiffness, s.Damping); err != nil {
			return nil, err
		}
	}
	for _, p := range l.Pins {
		b, err := scene.lookup(p.Body)
		if err != nil {
			return nil, fmt.Errorf("pin: %w", err)
		}
		if _, err := w.AddPin(b, p.Anchor.Vec()); err != nil {
			return nil, err
		}
	}

	logger.Info(ctx, "level built",
		"level", l.Name,
		"bodies", w.Len(),
		"constraints", len(w.Constraints()),
	)
	return scene, nil
}

func (s *Scene) lookup(name string) (*body.Body, error) {
	b, ok := s.named[name]
	if !ok {
		return nil, fmt.Errorf("%w: no body named %q", physics.ErrConfiguration, name)
	}
	return b, nil
}

func (spec BodySpec) label() string {
	if spec.Name != "" {
		return spec.Name
	}
	return spec.Kind
}

func (spec BodySpec) build() (*body.Body, error) {
	s, err := spec.shape()
	if err != nil {
		return nil, err
	}
	if spec.Angle != 0 {
		s.SetAngle(spec.Angle)
	}
	b, err := body.New(s)
	if err != nil {
		return nil, err
	}
	b.Name = spec.Name
	b.SetVelocity(spec.Velocity.Vec())
	return b, nil
}

func (spec BodySpec) shape() (*shape.Shape, error) {
	points := make([]physics.Vector2D, len(spec.Points))
	for i, p := range spec.Points {
		points[i] = p.Vec()
	}

	switch strings.ToLower(spec.Kind) {
	case "circle":
		if spec.Radius <= 0 {
			return nil, fmt.Errorf("%w: circle radius must be positive", physics.ErrConfiguration)
		}
		return shape.NewCircle(spec.Center.Vec(), spec.Radius), nil
	case "rect":
		if spec.Size[0] <= 0 || spec.Size[1] <= 0 {
			return nil, fmt.Errorf("%w: rect size must be positive", physics.ErrConfiguration)
		}
		return shape.NewRect(spec.Min.Vec(), spec.Size.Vec()), nil
	case "polygon":
		return shape.NewPolygon(points...)
	case "curve":
		if len(points) != 4 {
			return nil, fmt.Errorf("%w: curve needs 4 points, got %d", physics.ErrConfiguration, len(points))
		}
		return shape.NewCurve(points[0], points[1], points[2], points[3]), nil
	case "path":
		return shape.NewPath(points...)
	case "closed_path":
		return shape.NewClosedPath(points...)
	case "open_path":
		return shape.NewOpenPath(points...)
	case "compound":
		if len(spec.Parts) == 0 {
			return nil, fmt.Errorf("%w: compound without parts", physics.ErrConfiguration)
		}
		parts := make([]*shape.Shape, 0, len(spec.Parts))
		var errs []error
		for _, p := range spec.Parts {
			s, err := p.shape()
			if err != nil {
				errs = append(errs, err)
				continue
			}
			parts = append(parts, s)
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
		return shape.NewCompound(spec.Center.Vec(), parts...), nil
	}
	return nil, fmt.Errorf("%w: unknown body kind %q", physics.ErrConfiguration, spec.Kind)
}
