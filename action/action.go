// Package action implements grove's time-driven effect engine: actions that
// mutate a target's properties over time, combinators that compose them, and
// the Manager that advances every running action once per frame.
//
// An action is constructed detached, bound with Start, advanced with Step and
// released with Stop. Actions never own their target; whoever destroys a
// target must remove its actions from the Manager first.
//
//	seq := action.NewSequence(
//		action.NewMoveBy(1, 100, 0),
//		action.NewFadeOut(0.5),
//		action.NewCallFunc(func() { fmt.Println("done") }),
//	)
//	mgr.AddAction(seq, node, false)
//
// Targets are opaque: each action type-asserts the capability interface it
// needs (Positioner, Rotator, Opacifier, ...) on its first update.
package action

import (
	"errors"
	"fmt"
)

// TagInvalid is the default tag of every action ("no tag").
const TagInvalid = -1

// Target is the externally owned object an action mutates. Targets must be
// comparable (pointers in practice) because the Manager keys its registry by
// target identity.
type Target = any

// ErrActionPanicked wraps a panic recovered from an action's Step.
var ErrActionPanicked = errors.New("action: step panicked")

// Action is a unit of change applied to a target over time.
type Action interface {
	// Start binds the action to target. Starting an action that is already
	// bound panics.
	Start(target Target)
	// Step advances the action by dt seconds.
	Step(dt float64)
	// Update applies the action at normalized time t in [0, 1].
	Update(t float64)
	// Stop releases the target. OriginalTarget is kept.
	Stop()
	// IsDone reports whether the action has finished.
	IsDone() bool

	Target() Target
	OriginalTarget() Target
	Tag() int
	SetTag(tag int)

	// Clone returns an unbound deep copy carrying the same configuration.
	Clone() Action
}

// FiniteTimeAction is an action with a known duration that can be reversed.
type FiniteTimeAction interface {
	Action
	Duration() float64
	// Reverse returns a new action running the same timeline backwards.
	Reverse() FiniteTimeAction
}

// IntervalAction is a finite action with its own elapsed-time clock.
type IntervalAction interface {
	FiniteTimeAction
	Elapsed() float64
}

// --- Target capabilities ---

// Positioner exposes a 2D position.
type Positioner interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// Rotator exposes a rotation angle in radians.
type Rotator interface {
	Angle() float64
	SetAngle(radians float64)
}

// Scaler exposes per-axis scale factors.
type Scaler interface {
	Scale() (sx, sy float64)
	SetScale(sx, sy float64)
}

// Skewer exposes per-axis skew angles in radians.
type Skewer interface {
	Skew() (kx, ky float64)
	SetSkew(kx, ky float64)
}

// Opacifier exposes an opacity in [0, 1].
type Opacifier interface {
	Opacity() float64
	SetOpacity(a float64)
}

// Tinter exposes an RGB tint with components in [0, 1].
type Tinter interface {
	Tint() (r, g, b float64)
	SetTint(r, g, b float64)
}

// Shower exposes a visibility flag.
type Shower interface {
	IsVisible() bool
	SetVisible(visible bool)
}

// Flipper exposes horizontal and vertical flip flags.
type Flipper interface {
	IsFlippedX() bool
	SetFlipX(flip bool)
	IsFlippedY() bool
	SetFlipY(flip bool)
}

// Framer exposes the displayed frame index of a frame-animated target.
type Framer interface {
	Frame() int
	SetFrame(index int)
}

// Tweener receives arbitrary keyed property values from a Tween action.
type Tweener interface {
	UpdateTween(key string, value float64)
}

// capability type-asserts target to T and panics with a descriptive message
// when the target lacks it.
func capability[T any](target Target, name string) T {
	v, ok := target.(T)
	if !ok {
		panic(fmt.Sprintf("action: target %T does not implement %s", target, name))
	}
	return v
}

// --- Base ---

// Base carries the identity and target binding shared by every action.
type Base struct {
	tag            int
	target         Target
	originalTarget Target
}

func newBase() Base {
	return Base{tag: TagInvalid}
}

// Target returns the bound target, or nil when the action is not running.
func (b *Base) Target() Target { return b.target }

// OriginalTarget returns the target the action was last started with.
func (b *Base) OriginalTarget() Target { return b.originalTarget }

// Tag returns the action's tag.
func (b *Base) Tag() int { return b.tag }

// SetTag sets the action's tag.
func (b *Base) SetTag(tag int) { b.tag = tag }

// Stop releases the target.
func (b *Base) Stop() { b.target = nil }

func (b *Base) bind(target Target) {
	if target == nil {
		panic("action: cannot start with nil target")
	}
	if b.target != nil {
		panic("action: action is already running")
	}
	b.target = target
	b.originalTarget = target
}

// mustTarget returns the bound target and panics when the action has not
// been started.
func (b *Base) mustTarget() Target {
	if b.target == nil {
		panic("action: stepped before Start")
	}
	return b.target
}

// --- Driving helpers ---

// seeker is implemented by the package's base types so a combinator can keep
// a child's own clock in line with the normalized time it feeds it.
type seeker interface {
	seek(t float64)
}

// drive moves a to normalized time t and keeps its clock in sync, so IsDone
// and Elapsed stay truthful for children driven by a combinator.
func drive(a FiniteTimeAction, t float64) {
	if s, ok := a.(seeker); ok {
		s.seek(t)
	}
	a.Update(t)
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func asInterval(a FiniteTimeAction) IntervalAction {
	ia, ok := a.(IntervalAction)
	if !ok {
		panic(fmt.Sprintf("action: %T is not an interval action", a))
	}
	return ia
}

func cloneFinite(a FiniteTimeAction) FiniteTimeAction {
	return a.Clone().(FiniteTimeAction)
}

func cloneInterval(a IntervalAction) IntervalAction {
	return a.Clone().(IntervalAction)
}

func noReverse(a Action) FiniteTimeAction {
	panic(fmt.Sprintf("action: %T does not support Reverse", a))
}
