package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/scenesim/config"
	"github.com/milk9111/scenesim/scene"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	debug := flag.Bool("debug", cfg.Debug, "overlay physics shapes and body counts")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	sceneName := flag.String("scene", cfg.Scene, "scene name in the scene directory or the embedded samples")
	sceneDir := flag.String("dir", cfg.SceneDir, "directory checked for scenes before the embedded samples")
	seed := flag.Int64("seed", cfg.Seed, "random seed; 0 uses the scene's seed or the clock")
	watch := flag.Bool("watch", cfg.Watch, "reload the scene when its file changes")
	flag.Parse()

	cfg.Debug = *debug
	cfg.Scene = *sceneName
	cfg.SceneDir = *sceneDir
	cfg.Seed = *seed
	cfg.Watch = *watch
	scene.Dir = cfg.SceneDir

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("scenesim")
	ebiten.SetTPS(cfg.TPS)

	game, err := NewGame(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
