package action

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Tween drives an arbitrary keyed property on a Tweener target from one
// value to another through a gween easing curve.
type Tween struct {
	Interval
	key      string
	from, to float64
	fn       ease.TweenFunc
	tw       *gween.Tween
}

// NewTween creates an action that moves key from from to to over d seconds
// using fn. A nil fn uses ease.Linear.
func NewTween(d float64, key string, from, to float64, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{
		Interval: newInterval(d),
		key:      key,
		from:     from,
		to:       to,
		fn:       fn,
		tw:       gween.New(float32(from), float32(to), 1, fn),
	}
}

// Key returns the property key this tween writes.
func (a *Tween) Key() string { return a.key }

func (a *Tween) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Tween) Update(t float64) {
	tw := capability[Tweener](a.mustTarget(), "Tweener")
	a.beginTick()
	v := a.to
	if t < 1 {
		cur, _ := a.tw.Set(float32(t))
		v = float64(cur)
	}
	tw.UpdateTween(a.key, v)
}

func (a *Tween) Clone() Action {
	c := NewTween(a.duration, a.key, a.from, a.to, a.fn)
	c.tag = a.tag
	return c
}

func (a *Tween) Reverse() FiniteTimeAction {
	return NewTween(a.duration, a.key, a.to, a.from, a.fn)
}
