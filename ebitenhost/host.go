package ebitenhost

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dragonworx/arena2d"
)

// RunConfig configures Run's window and pacing. Resizable is exposed since
// the underlying arena2d.Scene already supports Resize and a decoupled
// FrameDriver FPS.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	ShowFPS   bool
}

// Run blocks the calling goroutine, driving scene through ebiten's game
// loop until the window closes or a callback returns ebiten.Termination.
//
// gameShell is a thin ebiten.Game adapter whose Update polls input and
// advances the scene's FrameDriver, and whose Draw composites every View's
// Layer onto the screen image.
func Run(scene *arena2d.Scene, cfg RunConfig) error {
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	shell := &gameShell{
		scene:   scene,
		input:   newInputPoller(scene),
		width:   cfg.Width,
		height:  cfg.Height,
		showFPS: cfg.ShowFPS,
	}
	scene.Frame.Start()
	return ebiten.RunGame(shell)
}

type gameShell struct {
	scene   *arena2d.Scene
	input   *inputPoller
	width   int
	height  int
	showFPS bool
}

func (g *gameShell) Update() error {
	g.input.poll()
	g.scene.Frame.Advance(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	for _, v := range g.scene.Views() {
		l, ok := v.Layer.(*Layer)
		if !ok || l == nil {
			continue
		}
		var opts ebiten.DrawImageOptions
		opts.GeoM.Translate(v.Viewport.X, v.Viewport.Y)
		screen.DrawImage(l.Raw(), &opts)
	}
	if g.showFPS {
		ebiten.SetWindowTitle(fmt.Sprintf("%.1f FPS", ebiten.ActualFPS()))
	}
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.scene.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return g.width, g.height
}
