package action

import (
	"math"
	"testing"
)

// sprite implements every target capability.
type sprite struct {
	x, y         float64
	angle        float64
	sx, sy       float64
	kx, ky       float64
	opacity      float64
	r, g, b      float64
	visible      bool
	flipX, flipY bool
	frame        int
	tweens       map[string]float64
}

func newSprite() *sprite {
	return &sprite{sx: 1, sy: 1, opacity: 1, r: 1, g: 1, b: 1, visible: true, tweens: map[string]float64{}}
}

func (s *sprite) Position() (float64, float64)      { return s.x, s.y }
func (s *sprite) SetPosition(x, y float64)          { s.x, s.y = x, y }
func (s *sprite) Angle() float64                    { return s.angle }
func (s *sprite) SetAngle(a float64)                { s.angle = a }
func (s *sprite) Scale() (float64, float64)         { return s.sx, s.sy }
func (s *sprite) SetScale(sx, sy float64)           { s.sx, s.sy = sx, sy }
func (s *sprite) Skew() (float64, float64)          { return s.kx, s.ky }
func (s *sprite) SetSkew(kx, ky float64)            { s.kx, s.ky = kx, ky }
func (s *sprite) Opacity() float64                  { return s.opacity }
func (s *sprite) SetOpacity(a float64)              { s.opacity = a }
func (s *sprite) Tint() (float64, float64, float64) { return s.r, s.g, s.b }
func (s *sprite) SetTint(r, g, b float64)           { s.r, s.g, s.b = r, g, b }
func (s *sprite) IsVisible() bool                   { return s.visible }
func (s *sprite) SetVisible(v bool)                 { s.visible = v }
func (s *sprite) IsFlippedX() bool                  { return s.flipX }
func (s *sprite) SetFlipX(f bool)                   { s.flipX = f }
func (s *sprite) IsFlippedY() bool                  { return s.flipY }
func (s *sprite) SetFlipY(f bool)                   { s.flipY = f }
func (s *sprite) Frame() int                        { return s.frame }
func (s *sprite) SetFrame(i int)                    { s.frame = i }
func (s *sprite) UpdateTween(k string, v float64)   { s.tweens[k] = v }

// recorder is an interval action that records what happens to it.
type recorder struct {
	Interval
	starts   int
	stops    int
	updates  []float64
	onUpdate func(t float64)
}

func newRecorder(d float64) *recorder {
	return &recorder{Interval: newInterval(d)}
}

func (p *recorder) Start(target Target) {
	p.Interval.Start(target)
	p.starts++
}

func (p *recorder) Step(dt float64) { p.Update(p.advance(dt)) }

func (p *recorder) Update(t float64) {
	p.updates = append(p.updates, t)
	if p.onUpdate != nil {
		p.onUpdate(t)
	}
}

func (p *recorder) Stop() {
	p.stops++
	p.Interval.Stop()
}

func (p *recorder) Clone() Action             { return newRecorder(p.duration) }
func (p *recorder) Reverse() FiniteTimeAction { return newRecorder(p.duration) }

func (p *recorder) count(t float64) int {
	n := 0
	for _, u := range p.updates {
		if u == t {
			n++
		}
	}
	return n
}

// run starts a on target and steps it by dt until it is done.
func run(t *testing.T, a Action, target Target, dt float64) {
	t.Helper()
	a.Start(target)
	for i := 0; !a.IsDone(); i++ {
		if i > 10000 {
			t.Fatal("action never finished")
		}
		a.Step(dt)
	}
	a.Stop()
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", name)
		}
	}()
	fn()
}
