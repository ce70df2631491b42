package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/config"
	"github.com/milk9111/scenesim/ecs/render"
	"github.com/milk9111/scenesim/scene"
	"github.com/milk9111/scenesim/sim"
)

type Game struct {
	cfg      config.Config
	name     string
	samples  []string
	rt       *sim.Runtime
	renderer *render.Renderer
	watcher  *scene.Watcher
	viewport common.Viewport
	paused   bool
	loadErr  error
}

func NewGame(cfg config.Config) (*Game, error) {
	vp, err := common.NewViewport(float64(cfg.Width), float64(cfg.Height))
	if err != nil {
		return nil, err
	}
	renderer := render.NewRenderer()
	renderer.Debug = cfg.Debug

	g := &Game{
		cfg:      cfg,
		name:     cfg.Scene,
		samples:  scene.Samples(),
		renderer: renderer,
		viewport: vp,
	}
	if err := g.load(g.name); err != nil {
		return nil, err
	}
	return g, nil
}

// load builds name against the current viewport. The previous run keeps
// going if the new one fails to build.
func (g *Game) load(name string) error {
	var opts []sim.Option
	if g.cfg.Seed != 0 {
		opts = append(opts, sim.WithSeed(g.cfg.Seed))
	}
	rt, err := sim.Load(name, g.viewport, opts...)
	if err != nil {
		g.loadErr = err
		log.Printf("failed to load scene %s: %v", name, err)
		return err
	}
	g.loadErr = nil

	old := g.rt
	g.rt = rt
	old.Teardown()

	if name != g.name || g.watcher == nil {
		g.name = name
		g.watch()
	}
	return nil
}

// watch follows the on-disk copy of the current scene, if there is one.
func (g *Game) watch() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
	if !g.cfg.Watch {
		return
	}
	path := filepath.Join(scene.Dir, g.name)
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	w, err := scene.NewWatcher(path)
	if err != nil {
		log.Printf("scene watch: %v", err)
		return
	}
	g.watcher = w
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("scene changed: %s", path)
			_ = g.load(g.name)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("scene watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) nextSample() {
	if len(g.samples) == 0 {
		return
	}
	next := g.samples[0]
	for i, s := range g.samples {
		if s == filepath.Base(g.name) && i+1 < len(g.samples) {
			next = g.samples[i+1]
			break
		}
	}
	_ = g.load(next)
}

func (g *Game) Update() error {
	g.pollWatcher()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyP), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		_ = g.load(g.name)
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.nextSample()
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.renderer.Debug = !g.renderer.Debug
	}

	g.updateDrag()

	if !g.paused || inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		g.rt.Tick()
	}
	return nil
}

// updateDrag grabs the body under the cursor on left press, pulls it while
// the button is held and throws it on release.
func (g *Game) updateDrag() {
	drag := g.rt.Drag
	if drag == nil {
		return
	}
	sx, sy := ebiten.CursorPosition()
	scale := g.renderer.Scale
	if scale <= 0 {
		scale = 1
	}
	p := cp.Vector{X: float64(sx) / scale, Y: float64(sy) / scale}

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		drag.Grab(p)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		drag.Release()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		drag.MoveTo(p)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.rt.World, g.rt.Background)

	if g.renderer.Debug {
		stats := g.rt.Stats()
		render.DrawStats(screen, g.rt.World,
			fmt.Sprintf("scene: %s  t=%.0fms", g.name, stats.Time),
			fmt.Sprintf("hooks: %d  timers: %d", stats.Hooks, stats.Timers),
		)
	}
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "paused", 10, screen.Bounds().Dy()-20)
	}
	if g.loadErr != nil {
		ebitenutil.DebugPrintAt(screen, g.loadErr.Error(), 10, screen.Bounds().Dy()-40)
	}
}

// LayoutF keeps the logical screen at the window size and renders at device
// resolution; bodies built for the old size stay where they are until the
// next reload.
func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	ratio := 1.0
	if m := ebiten.Monitor(); m != nil {
		ratio = m.DeviceScaleFactor()
	}
	vp := g.viewport
	if outsideWidth != vp.Width || outsideHeight != vp.Height || ratio != vp.PixelRatio {
		if err := g.rt.Resize(outsideWidth, outsideHeight, ratio); err == nil {
			g.viewport = g.rt.Viewport
		}
	}
	g.renderer.Scale = g.viewport.PixelRatio
	return g.viewport.Device()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	g.rt.Teardown()
}
