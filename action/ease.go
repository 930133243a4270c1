package action

import (
	"math"

	"github.com/tanema/gween/ease"
)

// Curve maps normalized time to eased time. It must return 0 at 0 and 1 at 1;
// values in between may leave [0, 1] for overshooting curves.
type Curve func(t float64) float64

// FromTweenFunc adapts a gween easing function to a Curve.
func FromTweenFunc(fn ease.TweenFunc) Curve {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// Ease remaps the time fed to an interval action through a curve.
type Ease struct {
	Interval
	inner IntervalAction
	curve Curve
}

// NewEase eases inner with a gween easing function such as ease.OutBounce.
func NewEase(inner IntervalAction, fn ease.TweenFunc) *Ease {
	if fn == nil {
		panic("action: nil easing function")
	}
	return NewEaseCurve(inner, FromTweenFunc(fn))
}

// NewEaseCurve eases inner with an arbitrary curve.
func NewEaseCurve(inner IntervalAction, curve Curve) *Ease {
	if inner == nil {
		panic("action: nil action in Ease")
	}
	if curve == nil {
		panic("action: nil easing curve")
	}
	return &Ease{Interval: newInterval(inner.Duration()), inner: inner, curve: curve}
}

// NewEaseIn accelerates with t^rate.
func NewEaseIn(inner IntervalAction, rate float64) *Ease {
	return NewEaseCurve(inner, func(t float64) float64 {
		return math.Pow(t, rate)
	})
}

// NewEaseOut decelerates with t^(1/rate).
func NewEaseOut(inner IntervalAction, rate float64) *Ease {
	return NewEaseCurve(inner, func(t float64) float64 {
		return math.Pow(t, 1/rate)
	})
}

// NewEaseInOut accelerates through the first half and decelerates through the
// second.
func NewEaseInOut(inner IntervalAction, rate float64) *Ease {
	return NewEaseCurve(inner, func(t float64) float64 {
		t *= 2
		if t < 1 {
			return 0.5 * math.Pow(t, rate)
		}
		return 1 - 0.5*math.Pow(2-t, rate)
	})
}

// Inner returns the eased action.
func (a *Ease) Inner() IntervalAction { return a.inner }

func (a *Ease) Start(target Target) {
	a.Interval.Start(target)
	a.inner.Start(target)
}

func (a *Ease) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Ease) Update(t float64) {
	a.mustTarget()
	a.beginTick()
	switch {
	case t <= 0:
		t = 0
	case t >= 1:
		t = 1
	default:
		t = a.curve(t)
	}
	drive(a.inner, t)
}

func (a *Ease) Stop() {
	if a.inner.Target() != nil {
		a.inner.Stop()
	}
	a.Interval.Stop()
}

func (a *Ease) Clone() Action {
	c := NewEaseCurve(cloneInterval(a.inner), a.curve)
	c.tag = a.tag
	return c
}

// Reverse eases the reversed inner action with the mirrored curve, so the
// result is the exact time-mirror of the original.
func (a *Ease) Reverse() FiniteTimeAction {
	curve := a.curve
	return NewEaseCurve(asInterval(a.inner.Reverse()), func(t float64) float64 {
		return 1 - curve(1-t)
	})
}
