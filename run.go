package hologram

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// Resizable lets the user resize the window. The field reseeds on
	// every size change.
	Resizable bool
	// ShowFPS draws the FPS overlay.
	ShowFPS bool
	// Debug enables per-frame stats logging.
	Debug bool
	// ExitWhenScriptDone terminates the game loop once an attached
	// TestRunner has finished.
	ExitWhenScriptDone bool
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene  *Scene
	update func() error
	exit   bool
}

func (g *game) Update() error {
	g.scene.Update()
	if g.update != nil {
		if err := g.update(); err != nil {
			return err
		}
	}
	if g.exit && g.scene.testRunner != nil && g.scene.testRunner.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.scene.Layout(outsideWidth, outsideHeight)
}

// SetUpdateFunc registers a function called after every Scene update when the
// scene is driven by Run. A non-nil error stops the game loop.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// Run opens a window and drives scene until the window is closed. The scene
// is disposed on return. ebiten.Termination is not reported as an error.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 800
	}
	if cfg.Height <= 0 {
		cfg.Height = 600
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	scene.SetShowFPS(cfg.ShowFPS)
	if cfg.Debug {
		scene.SetDebugMode(true)
	}
	scene.liveInput = true
	defer scene.Dispose()

	g := &game{scene: scene, update: scene.updateFunc, exit: cfg.ExitWhenScriptDone}
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
