// physics drops boxes and balls into a chipmunk space and mirrors each body
// onto a grove node. The world steps from a scheduled update that runs before
// every other update, so actions always see this frame's body positions.
// All shapes are procedural; no assets are required.
package main

import (
	"log"
	"math"
	"math/rand/v2"

	"github.com/jakecoffman/cp"
	"github.com/phanxgames/grove"
	"github.com/phanxgames/grove/action"
	"github.com/tanema/gween/ease"
)

const (
	screenW = 1280
	screenH = 720

	gravity   = 900.0
	wallThick = 8.0
	maxBodies = 120

	spawnInterval = 0.15
	lifetime      = 12.0
)

var palette = []grove.Color{
	{R: 0.95, G: 0.35, B: 0.35, A: 1},
	{R: 0.35, G: 0.75, B: 0.95, A: 1},
	{R: 0.98, G: 0.80, B: 0.30, A: 1},
	{R: 0.45, G: 0.90, B: 0.50, A: 1},
	{R: 0.80, G: 0.50, B: 0.95, A: 1},
}

type body struct {
	node  *grove.Node
	body  *cp.Body
	shape *cp.Shape
}

type world struct {
	space  *cp.Space
	layer  *grove.Node
	bodies map[*grove.Node]*body
}

func newWorld(layer *grove.Node) *world {
	w := &world{
		space:  cp.NewSpace(),
		layer:  layer,
		bodies: make(map[*grove.Node]*body),
	}
	w.space.SetGravity(cp.Vector{X: 0, Y: gravity})

	segments := []struct{ a, b cp.Vector }{
		{a: cp.Vector{X: 0, Y: screenH}, b: cp.Vector{X: screenW, Y: screenH}}, // floor
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: screenH}},             // left
		{a: cp.Vector{X: screenW, Y: 0}, b: cp.Vector{X: screenW, Y: screenH}}, // right
	}
	for _, seg := range segments {
		shape := cp.NewSegment(w.space.StaticBody, seg.a, seg.b, wallThick)
		shape.SetFriction(0.8)
		shape.SetElasticity(0.4)
		w.space.AddShape(shape)
	}

	layer.OnUpdate = w.step
	layer.ScheduleUpdateWithPriority(-10)
	layer.Schedule("spawn", w.spawnTimer, spawnInterval)
	return w
}

func (w *world) step(dt float64) {
	w.space.Step(dt)
	for n, b := range w.bodies {
		p := b.body.Position()
		n.SetPosition(p.X, p.Y)
		n.SetAngle(b.body.Angle())
	}
}

func (w *world) spawnTimer(float64) {
	if len(w.bodies) >= maxBodies {
		return
	}
	x := 80 + rand.Float64()*(screenW-160)
	c := palette[rand.IntN(len(palette))]

	var (
		b     *cp.Body
		shape *cp.Shape
		node  *grove.Node
	)
	if rand.IntN(2) == 0 {
		r := 10 + rand.Float64()*18
		mass := r * r / 100
		b = cp.NewBody(mass, cp.MomentForCircle(mass, 0, r, cp.Vector{}))
		shape = cp.NewCircle(b, r, cp.Vector{})
		node = grove.NewRect("ball", 2*r, 2*r, c)
		node.SetPivot(r, r)
	} else {
		bw := 20 + rand.Float64()*40
		bh := 20 + rand.Float64()*30
		mass := bw * bh / 400
		b = cp.NewBody(mass, cp.MomentForBox(mass, bw, bh))
		shape = cp.NewBox(b, bw, bh, 0)
		node = grove.NewRect("box", bw, bh, c)
		node.SetPivot(bw/2, bh/2)
	}
	b.SetPosition(cp.Vector{X: x, Y: -40})
	b.SetAngle(rand.Float64() * math.Pi)
	shape.SetFriction(0.6)
	shape.SetElasticity(0.3)
	w.space.AddBody(b)
	w.space.AddShape(shape)

	node.SetPosition(x, -40)
	node.SetOpacity(0)
	node.SetScale(0.2, 0.2)
	w.layer.AddChild(node)
	w.bodies[node] = &body{node: node, body: b, shape: shape}

	node.RunAction(action.NewSpawn(
		action.NewFadeIn(0.3),
		action.NewEase(action.NewScaleTo(0.5, 1, 1), ease.OutBack),
	))
	node.RunAction(action.NewSequence(
		action.NewDelayTime(lifetime),
		action.NewTintTo(0.4, 1, 1, 1),
		action.NewFadeOut(0.6),
		action.NewCallFuncN(func(target any) {
			w.remove(target.(*grove.Node))
		}),
	))
}

func (w *world) remove(n *grove.Node) {
	b, ok := w.bodies[n]
	if !ok {
		return
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, n)
	n.Dispose()
}

func main() {
	cfg, err := grove.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	cfg.Title = "Grove - Physics Demo"
	cfg.Width, cfg.Height = screenW, screenH
	cfg.ShowStats = true

	d := grove.NewDirector(cfg)
	scene := grove.NewScene()
	scene.ClearColor = grove.Color{R: 0.08, G: 0.08, B: 0.11, A: 1}

	layer := grove.NewContainer("world")
	scene.Root().AddChild(layer)
	newWorld(layer)

	d.RunWithScene(scene)
	if err := grove.Run(d); err != nil {
		log.Fatal(err)
	}
}
