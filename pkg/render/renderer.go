// Package render draws bodies. The engine itself never depends on it.
package render

import (
	"context"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/logging"
)

// Renderer receives one frame at a time: Clear, RenderBody for every
// body, then Present.
type Renderer interface {
	Clear()
	RenderBody(b *body.Body)
	Present()
}

// Frame draws every visible body in order.
func Frame(r Renderer, bodies []*body.Body) {
	r.Clear()
	for _, b := range bodies {
		if b != nil && b.IsVisible() {
			r.RenderBody(b)
		}
	}
	r.Present()
}

// NullRenderer draws nothing and logs each call at debug level.
type NullRenderer struct {
	logger *logging.Logger
	frames int
}

// NewNullRenderer creates a NullRenderer. A nil logger logs to stdout.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.frames++
	d.logger.Debug(context.Background(), "Present called", "frame", d.frames)
}

// RenderBody implements Renderer.
func (d *NullRenderer) RenderBody(b *body.Body) {
	ctx := context.Background()
	if b == nil {
		d.logger.Debug(ctx, "RenderBody called with nil body")
		return
	}
	d.logger.Debug(ctx, "RenderBody called",
		"body", b.String(),
		"location", b.Location(),
		"angle", b.Angle(),
	)
}

// Frames returns how many frames were presented.
func (d *NullRenderer) Frames() int { return d.frames }
