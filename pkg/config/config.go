// Package config loads and validates world settings from JSON or YAML
// files and the environment.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// Environment variables consulted by ApplyEnvironmentOverrides.
const (
	EnvGravityX    = "GRAVIDOG_GRAVITY_X"
	EnvGravityY    = "GRAVIDOG_GRAVITY_Y"
	EnvTimestepMS  = "GRAVIDOG_TIMESTEP_MS"
	EnvMaxSubsteps = "GRAVIDOG_MAX_SUBSTEPS"
)

// WorldConfig contains everything needed to build and run a world.
type WorldConfig struct {
	Physics PhysicsConfig `json:"physics" yaml:"physics"`
	Curves  CurveConfig   `json:"curves" yaml:"curves"`
	Render  RenderConfig  `json:"render" yaml:"render"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity         physics.Vector2D `json:"gravity" yaml:"gravity"`
	TimestepMS      int              `json:"timestepMs" yaml:"timestep_ms"`
	MaxSubsteps     int              `json:"maxSubsteps" yaml:"max_substeps"`
	WallNudge       float64          `json:"wallNudge" yaml:"wall_nudge"`
	SurfaceFriction float64          `json:"surfaceFriction" yaml:"surface_friction"`
	SpeedLimit      float64          `json:"speedLimit" yaml:"speed_limit"`
}

// Timestep returns the fixed step as a duration.
func (p PhysicsConfig) Timestep() time.Duration {
	return time.Duration(p.TimestepMS) * time.Millisecond
}

// CurveConfig contains Bézier sampling settings
type CurveConfig struct {
	Resolution int `json:"resolution" yaml:"resolution"`
}

// RenderConfig contains viewer settings
type RenderConfig struct {
	Scale  float64 `json:"scale" yaml:"scale"`
	Width  int     `json:"width" yaml:"width"`
	Height int     `json:"height" yaml:"height"`
	Title  string  `json:"title" yaml:"title"`
}

// DefaultConfig returns a default world configuration
func DefaultConfig() *WorldConfig {
	return &WorldConfig{
		Physics: PhysicsConfig{
			Gravity:         physics.Vector2D{X: 0, Y: -75},
			TimestepMS:      20,
			MaxSubsteps:     10,
			WallNudge:       1.0,
			SurfaceFriction: 0.5,
			SpeedLimit:      10000,
		},
		Curves: CurveConfig{
			Resolution: 100,
		},
		Render: RenderConfig{
			Scale:  10,
			Width:  800,
			Height: 600,
			Title:  "gravidog",
		},
	}
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

func formatFor(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: unsupported config extension %q", physics.ErrConfiguration, filepath.Ext(path))
}

// LoadConfig loads a configuration from a .json, .yaml or .yml file.
// Fields missing from the file keep their default values.
func LoadConfig(path string) (*WorldConfig, error) {
	f, err := formatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	switch f {
	case formatJSON:
		err = json.Unmarshal(data, config)
	case formatYAML:
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// SaveConfig saves a configuration to a file, picking the format from
// its extension.
func SaveConfig(config *WorldConfig, path string) error {
	if config == nil {
		return fmt.Errorf("%w: nil config", physics.ErrConfiguration)
	}
	f, err := formatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatJSON:
		data, err = json.MarshalIndent(config, "", "  ")
	case formatYAML:
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every invalid field at once.
func (c *WorldConfig) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{physics.ErrConfiguration}, args...)...))
	}

	if !c.Physics.Gravity.IsFinite() {
		add("gravity must be finite")
	}
	if c.Physics.TimestepMS <= 0 {
		add("timestep must be positive, got %dms", c.Physics.TimestepMS)
	}
	if c.Physics.MaxSubsteps < 0 {
		add("max substeps must not be negative, got %d", c.Physics.MaxSubsteps)
	}
	if c.Physics.WallNudge < 0 {
		add("wall nudge must not be negative, got %g", c.Physics.WallNudge)
	}
	if c.Physics.SurfaceFriction < 0 {
		add("surface friction must not be negative, got %g", c.Physics.SurfaceFriction)
	}
	if c.Physics.SpeedLimit < 0 {
		add("speed limit must not be negative, got %g", c.Physics.SpeedLimit)
	}
	if c.Curves.Resolution < 1 {
		add("curve resolution must be at least 1, got %d", c.Curves.Resolution)
	}
	if c.Render.Scale <= 0 {
		add("render scale must be positive, got %g", c.Render.Scale)
	}
	if c.Render.Width < 0 || c.Render.Height < 0 {
		add("render size must not be negative, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return errors.Join(errs...)
}

// ApplyEnvironmentOverrides replaces physics settings with values from
// GRAVIDOG_* environment variables when they are set.
func ApplyEnvironmentOverrides(c *WorldConfig) error {
	if c == nil {
		return fmt.Errorf("%w: nil config", physics.ErrConfiguration)
	}

	if err := overrideFloat(EnvGravityX, &c.Physics.Gravity.X); err != nil {
		return err
	}
	if err := overrideFloat(EnvGravityY, &c.Physics.Gravity.Y); err != nil {
		return err
	}
	if err := overrideInt(EnvTimestepMS, &c.Physics.TimestepMS); err != nil {
		return err
	}
	if err := overrideInt(EnvMaxSubsteps, &c.Physics.MaxSubsteps); err != nil {
		return err
	}
	return c.Validate()
}

func overrideFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("%w: invalid %s: %v", physics.ErrConfiguration, key, err)
	}
	*dst = f
	return nil
}

func overrideInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%w: invalid %s: %v", physics.ErrConfiguration, key, err)
	}
	*dst = i
	return nil
}
