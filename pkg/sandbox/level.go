// Package sandbox describes playground levels in JSON or YAML and builds
// them into a world.
package sandbox

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Point is an [x, y] pair as written in level files.
type Point [2]float64

// Vec converts p to a vector.
func (p Point) Vec() physics.Vector2D {
	return physics.Vector2D{X: p[0], Y: p[1]}
}

// Level lists the bodies and constraints of a playground.
type Level struct {
	Name    string `json:"name" yaml:"name"`
	Gravity *Point `json:"gravity,omitempty" yaml:"gravity,omitempty"`

	Bodies  []BodySpec   `json:"bodies" yaml:"bodies"`
	Springs []SpringSpec `json:"springs,omitempty" yaml:"springs,omitempty"`
	Pins    []PinSpec    `json:"pins,omitempty" yaml:"pins,omitempty"`

	// DisabledGroups lists pairs of collision groups that pass through
	// each other.
	DisabledGroups [][2]uint32 `json:"disabled_groups,omitempty" yaml:"disabled_groups,omitempty"`
}

// BodySpec describes one body. Which geometry fields are read depends on
// Kind:
//
//	circle       Center, Radius
//	rect         Min, Size
//	polygon      Points (vertices)
//	curve        Points (start, two controls, end)
//	path         Points (start, then control, control, knot per curve)
//	closed_path  Points (knots)
//	open_path    Points (knots)
//	compound     Center (reference location), Parts
type BodySpec struct {
	Name   string     `json:"name,omitempty" yaml:"name,omitempty"`
	Kind   string     `json:"kind" yaml:"kind"`
	Center Point      `json:"center,omitempty" yaml:"center,omitempty"`
	Radius float64    `json:"radius,omitempty" yaml:"radius,omitempty"`
	Min    Point      `json:"min,omitempty" yaml:"min,omitempty"`
	Size   Point      `json:"size,omitempty" yaml:"size,omitempty"`
	Points []Point    `json:"points,omitempty" yaml:"points,omitempty"`
	Parts  []BodySpec `json:"parts,omitempty" yaml:"parts,omitempty"`

	Velocity   Point             `json:"velocity,omitempty" yaml:"velocity,omitempty"`
	Angle      float64           `json:"angle,omitempty" yaml:"angle,omitempty"`
	Properties map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Player marks the body the viewer follows. It also reorients.
	Player bool `json:"player,omitempty" yaml:"player,omitempty"`
}

// SpringSpec ties the named body to its starting centroid.
type SpringSpec struct {
	Body      string  `json:"body" yaml:"body"`
	Stiffness float64 `json:"stiffness" yaml:"stiffness"`
	Damping   float64 `json:"damping" yaml:"damping"`
}

// PinSpec fixes a point of the named body.
type PinSpec struct {
	Body   string `json:"body" yaml:"body"`
	Anchor Point  `json:"anchor" yaml:"anchor"`
}

// LoadJSON reads a level from JSON.
func LoadJSON(r io.Reader) (*Level, error) {
	var l Level
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to decode level: %w", err)
	}
	return &l, nil
}

// LoadYAML reads a level from YAML.
func LoadYAML(r io.Reader) (*Level, error) {
	var l Level
	if err := yaml.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("failed to decode level: %w", err)
	}
	return &l, nil
}

// LoadLevel reads a level file, choosing the decoder by extension.
func LoadLevel(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open level file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".json":
		return LoadJSON(f)
	}
	return nil, fmt.Errorf("%w: unsupported level format %q", physics.ErrConfiguration, filepath.Ext(path))
}
