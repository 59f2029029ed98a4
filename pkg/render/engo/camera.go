package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/physics"
)

// CameraSystem maps world coordinates (y up) to screen pixels (y down)
// and optionally follows a body.
type CameraSystem struct {
	target *body.Body

	// pixels per world unit at zoom 1
	scale   float32
	zoom    float32
	minZoom float32
	maxZoom float32

	followSpeed float32
	smoothing   bool

	currentPos physics.Vector2D
	screenW    float32
	screenH    float32
}

// NewCameraSystem creates a camera centered on the world origin.
func NewCameraSystem(scale, screenW, screenH float32) *CameraSystem {
	if scale <= 0 {
		scale = 1
	}
	return &CameraSystem{
		scale:       scale,
		zoom:        1.0,
		minZoom:     0.1,
		maxZoom:     3.0,
		followSpeed: 2.0,
		smoothing:   true,
		screenW:     screenW,
		screenH:     screenH,
	}
}

// Priority runs the camera after physics and before drawing.
func (cs *CameraSystem) Priority() int { return -5 }

// Remove implements ecs.System and drops the target when it leaves.
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {
	if cs.target != nil && cs.target.ID() == basic.ID() {
		cs.target = nil
	}
}

// Update implements ecs.System.
func (cs *CameraSystem) Update(dt float32) {
	if cs.target != nil {
		cs.follow(cs.target.Centroid(), dt)
	}
}

func (cs *CameraSystem) follow(goal physics.Vector2D, dt float32) {
	if !cs.smoothing {
		cs.currentPos = goal
		return
	}
	t := float64(cs.followSpeed * dt)
	if t > 1 {
		t = 1
	}
	cs.currentPos = cs.currentPos.Lerp(goal, t)
}

// SetTarget makes the camera follow b, jumping straight to it.
func (cs *CameraSystem) SetTarget(b *body.Body) {
	cs.target = b
	if b != nil {
		cs.currentPos = b.Centroid()
	}
}

// ClearTarget stops following.
func (cs *CameraSystem) ClearTarget() {
	cs.target = nil
}

// SetPosition moves the camera center.
func (cs *CameraSystem) SetPosition(p physics.Vector2D) {
	cs.currentPos = p
}

// GetCurrentPosition returns the world point at the screen center.
func (cs *CameraSystem) GetCurrentPosition() physics.Vector2D {
	return cs.currentPos
}

// SetZoom sets the zoom multiplier, clamped to the limits.
func (cs *CameraSystem) SetZoom(zoom float32) {
	cs.zoom = cs.clampZoom(zoom)
}

// GetZoom returns the zoom multiplier.
func (cs *CameraSystem) GetZoom() float32 {
	return cs.zoom
}

func (cs *CameraSystem) clampZoom(zoom float32) float32 {
	if zoom < cs.minZoom {
		return cs.minZoom
	}
	if zoom > cs.maxZoom {
		return cs.maxZoom
	}
	return zoom
}

// SetZoomLimits sets the minimum and maximum zoom levels
func (cs *CameraSystem) SetZoomLimits(min, max float32) {
	cs.minZoom = min
	cs.maxZoom = max
	cs.zoom = cs.clampZoom(cs.zoom)
}

// SetFollowSpeed sets how quickly the camera catches up, per second.
func (cs *CameraSystem) SetFollowSpeed(speed float32) {
	cs.followSpeed = speed
}

// EnableSmoothing enables or disables camera smoothing
func (cs *CameraSystem) EnableSmoothing(enabled bool) {
	cs.smoothing = enabled
}

// PixelsPerUnit is scale times zoom.
func (cs *CameraSystem) PixelsPerUnit() float32 {
	return cs.scale * cs.zoom
}

// WorldToScreen converts world coordinates to screen coordinates
func (cs *CameraSystem) WorldToScreen(p physics.Vector2D) engo.Point {
	k := float64(cs.PixelsPerUnit())
	return engo.Point{
		X: float32((p.X-cs.currentPos.X)*k) + cs.screenW/2,
		Y: cs.screenH/2 - float32((p.Y-cs.currentPos.Y)*k),
	}
}

// ScreenToWorld converts screen coordinates to world coordinates
func (cs *CameraSystem) ScreenToWorld(p engo.Point) physics.Vector2D {
	k := float64(cs.PixelsPerUnit())
	return physics.Vector2D{
		X: float64(p.X-cs.screenW/2)/k + cs.currentPos.X,
		Y: float64(cs.screenH/2-p.Y)/k + cs.currentPos.Y,
	}
}
