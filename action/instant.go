package action

// Instant is the embeddable base of zero-duration actions. An instant action
// applies its whole effect on the first Step and is done afterwards.
type Instant struct {
	Base
	done bool
}

func newInstant() Instant {
	return Instant{Base: newBase()}
}

// Start binds the target.
func (a *Instant) Start(target Target) {
	a.bind(target)
	a.done = false
}

// Duration is always zero.
func (a *Instant) Duration() float64 { return 0 }

// IsDone reports whether the action has fired since Start.
func (a *Instant) IsDone() bool { return a.done }

func (a *Instant) seek(t float64) {
	a.done = t >= 1
}

// fire is the shared Step body: mark done, then apply the effect.
func (a *Instant) fire(self Action) {
	a.mustTarget()
	a.done = true
	self.Update(1)
}

func (a *Instant) reset() Instant {
	return Instant{Base: Base{tag: a.tag}}
}

// --- Visibility ---

// Show makes the target visible.
type Show struct{ Instant }

// NewShow creates a Show action.
func NewShow() *Show { return &Show{Instant: newInstant()} }

func (a *Show) Step(float64) { a.fire(a) }
func (a *Show) Update(float64) {
	capability[Shower](a.mustTarget(), "Shower").SetVisible(true)
}
func (a *Show) Clone() Action             { return &Show{Instant: a.reset()} }
func (a *Show) Reverse() FiniteTimeAction { return &Hide{Instant: a.reset()} }

// Hide makes the target invisible.
type Hide struct{ Instant }

// NewHide creates a Hide action.
func NewHide() *Hide { return &Hide{Instant: newInstant()} }

func (a *Hide) Step(float64) { a.fire(a) }
func (a *Hide) Update(float64) {
	capability[Shower](a.mustTarget(), "Shower").SetVisible(false)
}
func (a *Hide) Clone() Action             { return &Hide{Instant: a.reset()} }
func (a *Hide) Reverse() FiniteTimeAction { return &Show{Instant: a.reset()} }

// ToggleVisibility flips the target's visibility.
type ToggleVisibility struct{ Instant }

// NewToggleVisibility creates a ToggleVisibility action.
func NewToggleVisibility() *ToggleVisibility {
	return &ToggleVisibility{Instant: newInstant()}
}

func (a *ToggleVisibility) Step(float64) { a.fire(a) }
func (a *ToggleVisibility) Update(float64) {
	s := capability[Shower](a.mustTarget(), "Shower")
	s.SetVisible(!s.IsVisible())
}
func (a *ToggleVisibility) Clone() Action { return &ToggleVisibility{Instant: a.reset()} }
func (a *ToggleVisibility) Reverse() FiniteTimeAction {
	return &ToggleVisibility{Instant: a.reset()}
}

// --- Flip ---

// FlipX sets the target's horizontal flip flag.
type FlipX struct {
	Instant
	flip bool
}

// NewFlipX creates an action that sets the horizontal flip to flip.
func NewFlipX(flip bool) *FlipX { return &FlipX{Instant: newInstant(), flip: flip} }

func (a *FlipX) Step(float64) { a.fire(a) }
func (a *FlipX) Update(float64) {
	capability[Flipper](a.mustTarget(), "Flipper").SetFlipX(a.flip)
}
func (a *FlipX) Clone() Action             { return &FlipX{Instant: a.reset(), flip: a.flip} }
func (a *FlipX) Reverse() FiniteTimeAction { return &FlipX{Instant: a.reset(), flip: !a.flip} }

// FlipY sets the target's vertical flip flag.
type FlipY struct {
	Instant
	flip bool
}

// NewFlipY creates an action that sets the vertical flip to flip.
func NewFlipY(flip bool) *FlipY { return &FlipY{Instant: newInstant(), flip: flip} }

func (a *FlipY) Step(float64) { a.fire(a) }
func (a *FlipY) Update(float64) {
	capability[Flipper](a.mustTarget(), "Flipper").SetFlipY(a.flip)
}
func (a *FlipY) Clone() Action             { return &FlipY{Instant: a.reset(), flip: a.flip} }
func (a *FlipY) Reverse() FiniteTimeAction { return &FlipY{Instant: a.reset(), flip: !a.flip} }

// --- Place ---

// Place moves the target to a fixed position.
type Place struct {
	Instant
	x, y float64
}

// NewPlace creates an action that sets the target position to (x, y).
func NewPlace(x, y float64) *Place { return &Place{Instant: newInstant(), x: x, y: y} }

func (a *Place) Step(float64) { a.fire(a) }
func (a *Place) Update(float64) {
	capability[Positioner](a.mustTarget(), "Positioner").SetPosition(a.x, a.y)
}
func (a *Place) Clone() Action             { return &Place{Instant: a.reset(), x: a.x, y: a.y} }
func (a *Place) Reverse() FiniteTimeAction { return a.Clone().(*Place) }

// --- Callbacks ---

// CallFunc invokes a closure when it fires.
type CallFunc struct {
	Instant
	fn func()
}

// NewCallFunc creates an action that calls fn. A nil fn panics.
func NewCallFunc(fn func()) *CallFunc {
	if fn == nil {
		panic("action: nil CallFunc function")
	}
	return &CallFunc{Instant: newInstant(), fn: fn}
}

func (a *CallFunc) Step(float64)              { a.fire(a) }
func (a *CallFunc) Update(float64)            { a.fn() }
func (a *CallFunc) Clone() Action             { return &CallFunc{Instant: a.reset(), fn: a.fn} }
func (a *CallFunc) Reverse() FiniteTimeAction { return a.Clone().(*CallFunc) }

// CallFuncN invokes a closure with the bound target when it fires.
type CallFuncN struct {
	Instant
	fn func(Target)
}

// NewCallFuncN creates an action that calls fn with its target. A nil fn
// panics.
func NewCallFuncN(fn func(Target)) *CallFuncN {
	if fn == nil {
		panic("action: nil CallFuncN function")
	}
	return &CallFuncN{Instant: newInstant(), fn: fn}
}

func (a *CallFuncN) Step(float64)              { a.fire(a) }
func (a *CallFuncN) Update(float64)            { a.fn(a.mustTarget()) }
func (a *CallFuncN) Clone() Action             { return &CallFuncN{Instant: a.reset(), fn: a.fn} }
func (a *CallFuncN) Reverse() FiniteTimeAction { return a.Clone().(*CallFuncN) }
