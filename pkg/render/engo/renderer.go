// Package engo shows a running world in an engo window.
package engo

import (
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/render"
	"github.com/opd-ai/go-gravidog/pkg/shape"
)

type bodyEntity struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// BodyRenderer implements render.Renderer by keeping one render entity
// per body in an engo RenderSystem.
type BodyRenderer struct {
	renderSystem *common.RenderSystem
	camera       *CameraSystem

	entities map[uint64]*bodyEntity
	seen     map[uint64]bool
}

var _ render.Renderer = (*BodyRenderer)(nil)

// NewBodyRenderer creates a renderer feeding rs through cam.
func NewBodyRenderer(rs *common.RenderSystem, cam *CameraSystem) *BodyRenderer {
	return &BodyRenderer{
		renderSystem: rs,
		camera:       cam,
		entities:     make(map[uint64]*bodyEntity),
		seen:         make(map[uint64]bool),
	}
}

// Clear implements render.Renderer.
func (r *BodyRenderer) Clear() {
	clear(r.seen)
}

// RenderBody implements render.Renderer.
func (r *BodyRenderer) RenderBody(b *body.Body) {
	if b == nil {
		return
	}
	r.seen[b.ID()] = true

	sprite := SpriteFor(b, r.camera)
	e, ok := r.entities[b.ID()]
	if !ok {
		e = &bodyEntity{BasicEntity: ecs.NewBasic()}
		r.entities[b.ID()] = e
		r.apply(e, b, sprite)
		if r.renderSystem != nil {
			r.renderSystem.Add(&e.BasicEntity, &e.RenderComponent, &e.SpaceComponent)
		}
		return
	}
	r.apply(e, b, sprite)
}

func (r *BodyRenderer) apply(e *bodyEntity, b *body.Body, sprite Sprite) {
	style := b.Shape().Style()
	fill := color.Color(style.Color)
	if style.Mode == shape.DrawOutline {
		fill = color.Transparent
	}

	e.RenderComponent.Drawable = sprite.Drawable
	e.RenderComponent.Color = fill
	e.RenderComponent.Scale = engo.Point{X: 1, Y: 1}
	e.RenderComponent.Hidden = !style.Visible
	if r.renderSystem != nil {
		// SetZIndex notifies engo.Mailbox, which only exists inside engo.Run.
		if b.IsStatic() {
			e.RenderComponent.SetZIndex(0)
		} else {
			e.RenderComponent.SetZIndex(1)
		}
	}

	e.SpaceComponent.Position = sprite.Position
	e.SpaceComponent.Width = sprite.Width
	e.SpaceComponent.Height = sprite.Height
}

// Present implements render.Renderer by dropping entities for bodies
// that were not drawn this frame.
func (r *BodyRenderer) Present() {
	for id, e := range r.entities {
		if r.seen[id] {
			continue
		}
		if r.renderSystem != nil {
			r.renderSystem.Remove(e.BasicEntity)
		}
		delete(r.entities, id)
	}
}

// Len returns the number of live render entities.
func (r *BodyRenderer) Len() int { return len(r.entities) }
