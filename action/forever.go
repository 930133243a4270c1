package action

import "fmt"

// RepeatForever restarts an interval action every time it finishes, carrying
// the overflow time into the next run. It never reports done.
type RepeatForever struct {
	Base
	inner IntervalAction
}

// NewRepeatForever repeats inner until removed.
func NewRepeatForever(inner IntervalAction) *RepeatForever {
	if inner == nil {
		panic("action: nil action in RepeatForever")
	}
	return &RepeatForever{Base: newBase(), inner: inner}
}

// Inner returns the repeated action.
func (a *RepeatForever) Inner() IntervalAction { return a.inner }

func (a *RepeatForever) Start(target Target) {
	a.bind(target)
	a.inner.Start(target)
}

func (a *RepeatForever) Step(dt float64) {
	target := a.mustTarget()
	a.inner.Step(dt)
	for a.inner.IsDone() {
		over := a.inner.Elapsed() - a.inner.Duration()
		a.inner.Stop()
		a.inner.Start(target)
		if a.inner.Duration() <= 0 {
			break
		}
		a.inner.Step(over)
	}
}

func (a *RepeatForever) Update(float64) {}

func (a *RepeatForever) IsDone() bool { return false }

func (a *RepeatForever) Stop() {
	if a.inner.Target() != nil {
		a.inner.Stop()
	}
	a.Base.Stop()
}

func (a *RepeatForever) Clone() Action {
	c := NewRepeatForever(cloneInterval(a.inner))
	c.tag = a.tag
	return c
}

// Reverse repeats the reversed inner action forever.
func (a *RepeatForever) Reverse() *RepeatForever {
	return NewRepeatForever(asInterval(a.inner.Reverse()))
}

// Speed scales the time fed to an inner action. A factor of 2 runs it twice
// as fast in wall-clock time; the inner action's own duration is unchanged.
type Speed struct {
	Base
	inner  Action
	factor float64
}

// NewSpeed runs inner at factor times normal speed.
func NewSpeed(inner Action, factor float64) *Speed {
	if inner == nil {
		panic("action: nil action in Speed")
	}
	return &Speed{Base: newBase(), inner: inner, factor: factor}
}

// Inner returns the wrapped action.
func (a *Speed) Inner() Action { return a.inner }

// Speed returns the current factor.
func (a *Speed) Speed() float64 { return a.factor }

// SetSpeed changes the factor. It takes effect on the next Step.
func (a *Speed) SetSpeed(factor float64) { a.factor = factor }

func (a *Speed) Start(target Target) {
	a.bind(target)
	a.inner.Start(target)
}

func (a *Speed) Step(dt float64) {
	a.mustTarget()
	a.inner.Step(dt * a.factor)
}

func (a *Speed) Update(t float64) { a.inner.Update(t) }

func (a *Speed) IsDone() bool { return a.inner.IsDone() }

func (a *Speed) Stop() {
	if a.inner.Target() != nil {
		a.inner.Stop()
	}
	a.Base.Stop()
}

func (a *Speed) Clone() Action {
	c := NewSpeed(a.inner.Clone(), a.factor)
	c.tag = a.tag
	return c
}

// Reverse wraps the reversed inner action at the same speed.
func (a *Speed) Reverse() *Speed {
	return NewSpeed(Reversed(a.inner), a.factor)
}

// Reversed returns the reverse of any reversible action: finite actions,
// RepeatForever and Speed. Other actions panic.
func Reversed(a Action) Action {
	switch v := a.(type) {
	case FiniteTimeAction:
		return v.Reverse()
	case *RepeatForever:
		return v.Reverse()
	case *Speed:
		return v.Reverse()
	}
	panic(fmt.Sprintf("action: %T does not support Reverse", a))
}
