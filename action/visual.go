package action

import "math"

// --- Blink ---

// Blink toggles the target's visibility a number of times. The visibility
// the target had on the first update is restored on Stop.
type Blink struct {
	Interval
	times    int
	original bool
	captured bool
}

// NewBlink creates an action blinking times times over d seconds.
func NewBlink(d float64, times int) *Blink {
	if times < 1 {
		panic("action: Blink needs at least one blink")
	}
	return &Blink{Interval: newInterval(d), times: times}
}

func (a *Blink) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Blink) Update(t float64) {
	s := capability[Shower](a.mustTarget(), "Shower")
	if a.beginTick() {
		a.original = s.IsVisible()
		a.captured = true
	}
	if t >= 1 {
		s.SetVisible(a.original)
		return
	}
	slice := 1 / float64(a.times)
	s.SetVisible(math.Mod(t, slice) > slice/2)
}

// Stop restores the original visibility.
func (a *Blink) Stop() {
	if a.captured && a.target != nil {
		if s, ok := a.target.(Shower); ok {
			s.SetVisible(a.original)
		}
	}
	a.captured = false
	a.Interval.Stop()
}

func (a *Blink) Clone() Action             { return &Blink{Interval: a.reset(), times: a.times} }
func (a *Blink) Reverse() FiniteTimeAction { return a.Clone().(*Blink) }

// --- Fade ---

// FadeIn raises the target's opacity from 0 to 1.
type FadeIn struct{ Interval }

// NewFadeIn creates a fade-in over d seconds.
func NewFadeIn(d float64) *FadeIn { return &FadeIn{Interval: newInterval(d)} }

func (a *FadeIn) Step(dt float64) { a.Update(a.advance(dt)) }
func (a *FadeIn) Update(t float64) {
	capability[Opacifier](a.mustTarget(), "Opacifier").SetOpacity(t)
}
func (a *FadeIn) Clone() Action             { return &FadeIn{Interval: a.reset()} }
func (a *FadeIn) Reverse() FiniteTimeAction { return &FadeOut{Interval: a.reset()} }

// FadeOut lowers the target's opacity from 1 to 0.
type FadeOut struct{ Interval }

// NewFadeOut creates a fade-out over d seconds.
func NewFadeOut(d float64) *FadeOut { return &FadeOut{Interval: newInterval(d)} }

func (a *FadeOut) Step(dt float64) { a.Update(a.advance(dt)) }
func (a *FadeOut) Update(t float64) {
	capability[Opacifier](a.mustTarget(), "Opacifier").SetOpacity(1 - t)
}
func (a *FadeOut) Clone() Action             { return &FadeOut{Interval: a.reset()} }
func (a *FadeOut) Reverse() FiniteTimeAction { return &FadeIn{Interval: a.reset()} }

// FadeTo moves the target's opacity to an absolute value.
type FadeTo struct {
	Interval
	to    float64
	start float64
}

// NewFadeTo creates an action fading its target to opacity over d seconds.
func NewFadeTo(d, opacity float64) *FadeTo {
	return &FadeTo{Interval: newInterval(d), to: opacity}
}

func (a *FadeTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *FadeTo) Update(t float64) {
	o := capability[Opacifier](a.mustTarget(), "Opacifier")
	if a.beginTick() {
		a.start = o.Opacity()
	}
	o.SetOpacity(a.start + (a.to-a.start)*t)
}

func (a *FadeTo) Clone() Action             { return &FadeTo{Interval: a.reset(), to: a.to} }
func (a *FadeTo) Reverse() FiniteTimeAction { return noReverse(a) }

// --- Tint ---

// RGB is a tint color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

func (c RGB) lerp(d RGB, t float64) RGB {
	return RGB{c.R + d.R*t, c.G + d.G*t, c.B + d.B*t}
}

// TintTo tints the target to an absolute color.
type TintTo struct {
	Interval
	to    RGB
	from  RGB
	delta RGB
}

// NewTintTo creates an action tinting its target to (r, g, b) over d
// seconds.
func NewTintTo(d, r, g, b float64) *TintTo {
	return &TintTo{Interval: newInterval(d), to: RGB{r, g, b}}
}

func (a *TintTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *TintTo) Update(t float64) {
	a.apply(t, false)
}

func (a *TintTo) apply(t float64, relative bool) {
	tn := capability[Tinter](a.mustTarget(), "Tinter")
	if a.beginTick() {
		r, g, b := tn.Tint()
		a.from = RGB{r, g, b}
		if relative {
			a.delta = a.to
		} else {
			a.delta = RGB{a.to.R - r, a.to.G - g, a.to.B - b}
		}
	}
	c := a.from.lerp(a.delta, t)
	tn.SetTint(c.R, c.G, c.B)
}

func (a *TintTo) Clone() Action             { return &TintTo{Interval: a.reset(), to: a.to} }
func (a *TintTo) Reverse() FiniteTimeAction { return noReverse(a) }

// TintBy adds a relative color offset to the target's tint.
type TintBy struct {
	TintTo
}

// NewTintBy creates an action adding (dr, dg, db) to its target's tint over d
// seconds.
func NewTintBy(d, dr, dg, db float64) *TintBy {
	return &TintBy{TintTo: TintTo{Interval: newInterval(d), to: RGB{dr, dg, db}}}
}

func (a *TintBy) Step(dt float64)  { a.Update(a.advance(dt)) }
func (a *TintBy) Update(t float64) { a.apply(t, true) }

func (a *TintBy) Clone() Action {
	return &TintBy{TintTo: TintTo{Interval: a.reset(), to: a.to}}
}

func (a *TintBy) Reverse() FiniteTimeAction {
	return &TintBy{TintTo: TintTo{Interval: a.reset(), to: RGB{-a.to.R, -a.to.G, -a.to.B}}}
}
