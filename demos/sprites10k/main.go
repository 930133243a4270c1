// sprites10k runs 10,000 procedural sprites, each with its own looping
// action tree: a drift, a spin, a pulse and a fade. A stress test for the
// action manager and the sprite renderer.
package main

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/phanxgames/grove"
	"github.com/phanxgames/grove/action"
	"github.com/tanema/gween/ease"
)

const (
	screenW  = 1280
	screenH  = 720
	count    = 10_000
	size     = 16
	maxDrift = 160
)

func main() {
	cfg, err := grove.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Title = "Grove - 10k Sprites"
	cfg.Width, cfg.Height = screenW, screenH
	cfg.ShowStats = true

	d := grove.NewDirector(cfg)
	scene := grove.NewScene()
	scene.ClearColor = grove.Color{R: 0.06, G: 0.06, B: 0.09, A: 1}
	root := scene.Root()

	for range count {
		sp := grove.NewRect("sprite", size, size, grove.Color{
			R: 0.5 + rand.Float64()*0.5,
			G: 0.5 + rand.Float64()*0.5,
			B: 0.5 + rand.Float64()*0.5,
			A: 1,
		})
		sp.SetPivot(size/2, size/2)
		sp.SetPosition(rand.Float64()*screenW, rand.Float64()*screenH)
		base := 0.6 + rand.Float64()*0.8
		sp.SetScale(base, base)
		root.AddChild(sp)

		drift := action.NewEase(action.NewMoveBy(1+rand.Float64()*3,
			(rand.Float64()-0.5)*maxDrift, (rand.Float64()-0.5)*maxDrift), ease.InOutSine)
		pulse := action.NewEase(action.NewScaleTo(0.5+rand.Float64(), base*1.4, base*1.4), ease.InOutQuad)
		fade := action.NewFadeTo(0.5+rand.Float64()*2, 0.2)

		sp.RunAction(action.NewRepeatForever(action.NewSequence(drift, drift.Reverse())))
		sp.RunAction(action.NewRepeatForever(action.NewRotateBy(1+rand.Float64()*4, 2*math.Pi)))
		sp.RunAction(action.NewRepeatForever(action.NewSequence(pulse, action.NewScaleTo(pulse.Duration(), base, base))))
		sp.RunAction(action.NewRepeatForever(action.NewSequence(fade, action.NewFadeIn(fade.Duration()))))
	}

	d.RunWithScene(scene)
	if err := grove.Run(d); err != nil {
		log.Fatal(err)
	}
}
