package engo

import (
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-gravidog/pkg/body"
	"github.com/opd-ai/go-gravidog/pkg/logging"
	"github.com/opd-ai/go-gravidog/pkg/render"
	"github.com/opd-ai/go-gravidog/pkg/world"
)

// SceneType names the sandbox scene.
const SceneType = "GravidogSandbox"

// frameSystem draws the world once per engo frame.
type frameSystem struct {
	world    *world.World
	renderer render.Renderer
}

func (f *frameSystem) Priority() int { return -10 }

func (f *frameSystem) Update(dt float32) {
	render.Frame(f.renderer, f.world.Bodies())
}

func (f *frameSystem) Remove(ecs.BasicEntity) {}

// SandboxScene runs a world as an ecs.System and draws it.
type SandboxScene struct {
	World  *world.World
	Follow *body.Body

	logger   *logging.Logger
	camera   *CameraSystem
	renderer *BodyRenderer
}

// NewSandboxScene wraps w. follow, when not nil, is kept in view.
func NewSandboxScene(w *world.World, follow *body.Body, logger *logging.Logger) *SandboxScene {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &SandboxScene{World: w, Follow: follow, logger: logger}
}

// Type returns the scene type (required by Engo)
func (scene *SandboxScene) Type() string {
	return SceneType
}

// Preload is called before the scene starts (required by Engo)
func (scene *SandboxScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *SandboxScene) Setup(u engo.Updater) {
	ew, ok := u.(*ecs.World)
	if !ok {
		scene.logger.Error(context.Background(), "unexpected updater", nil)
		return
	}
	common.SetBackground(color.RGBA{40, 40, 48, 255})

	rs := &common.RenderSystem{}
	ew.AddSystem(rs)
	ew.AddSystem(scene.World)

	r := scene.World.Config().Render
	scene.camera = NewCameraSystem(float32(r.Scale), engo.GameWidth(), engo.GameHeight())
	scene.camera.SetTarget(scene.Follow)
	ew.AddSystem(scene.camera)

	scene.renderer = NewBodyRenderer(rs, scene.camera)
	ew.AddSystem(&frameSystem{world: scene.World, renderer: scene.renderer})

	scene.logger.Info(context.Background(), "sandbox scene ready", "bodies", scene.World.Len())
}

// Exit is called when the scene is exiting.
func (scene *SandboxScene) Exit() {
	scene.logger.Info(context.Background(), "sandbox scene closed", "steps", scene.World.Steps())
}

// Run opens a window sized by the world's render config and blocks until
// it closes.
func Run(scene *SandboxScene) {
	r := scene.World.Config().Render
	engo.Run(engo.RunOptions{
		Title:  r.Title,
		Width:  r.Width,
		Height: r.Height,
		VSync:  true,
	}, scene)
}
