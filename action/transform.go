package action

import "math"

// --- Rotation ---

// RotateTo rotates the target to an absolute angle in radians, turning the
// short way round.
type RotateTo struct {
	Interval
	to    float64
	start float64
	diff  float64
}

// NewRotateTo creates an action rotating its target to angle radians over d
// seconds.
func NewRotateTo(d, angle float64) *RotateTo {
	return &RotateTo{Interval: newInterval(d), to: angle}
}

func (a *RotateTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *RotateTo) Update(t float64) {
	r := capability[Rotator](a.mustTarget(), "Rotator")
	if a.beginTick() {
		a.start = r.Angle()
		a.diff = math.Remainder(a.to-a.start, 2*math.Pi)
	}
	r.SetAngle(a.start + a.diff*t)
}

func (a *RotateTo) Clone() Action             { return &RotateTo{Interval: a.reset(), to: a.to} }
func (a *RotateTo) Reverse() FiniteTimeAction { return noReverse(a) }

// RotateBy rotates the target by a relative angle in radians.
type RotateBy struct {
	Interval
	delta float64
	start float64
}

// NewRotateBy creates an action rotating its target by delta radians over d
// seconds.
func NewRotateBy(d, delta float64) *RotateBy {
	return &RotateBy{Interval: newInterval(d), delta: delta}
}

func (a *RotateBy) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *RotateBy) Update(t float64) {
	r := capability[Rotator](a.mustTarget(), "Rotator")
	if a.beginTick() {
		a.start = r.Angle()
	}
	r.SetAngle(a.start + a.delta*t)
}

func (a *RotateBy) Clone() Action { return &RotateBy{Interval: a.reset(), delta: a.delta} }
func (a *RotateBy) Reverse() FiniteTimeAction {
	return &RotateBy{Interval: a.reset(), delta: -a.delta}
}

// --- Scale ---

// ScaleTo scales the target to absolute per-axis factors.
type ScaleTo struct {
	Interval
	end   Point
	start Point
	delta Point
}

// NewScaleTo creates an action scaling its target to (sx, sy) over d
// seconds.
func NewScaleTo(d, sx, sy float64) *ScaleTo {
	return &ScaleTo{Interval: newInterval(d), end: Point{sx, sy}}
}

func (a *ScaleTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *ScaleTo) Update(t float64) {
	a.apply(t, false)
}

func (a *ScaleTo) apply(t float64, relative bool) {
	s := capability[Scaler](a.mustTarget(), "Scaler")
	if a.beginTick() {
		sx, sy := s.Scale()
		a.start = Point{sx, sy}
		if relative {
			a.delta = Point{sx*a.end.X - sx, sy*a.end.Y - sy}
		} else {
			a.delta = a.end.Sub(a.start)
		}
	}
	s.SetScale(a.start.X+a.delta.X*t, a.start.Y+a.delta.Y*t)
}

func (a *ScaleTo) Clone() Action             { return &ScaleTo{Interval: a.reset(), end: a.end} }
func (a *ScaleTo) Reverse() FiniteTimeAction { return noReverse(a) }

// ScaleBy multiplies the target's scale by per-axis factors.
type ScaleBy struct {
	ScaleTo
}

// NewScaleBy creates an action multiplying its target's scale by (sx, sy)
// over d seconds.
func NewScaleBy(d, sx, sy float64) *ScaleBy {
	return &ScaleBy{ScaleTo: ScaleTo{Interval: newInterval(d), end: Point{sx, sy}}}
}

func (a *ScaleBy) Step(dt float64)  { a.Update(a.advance(dt)) }
func (a *ScaleBy) Update(t float64) { a.apply(t, true) }

func (a *ScaleBy) Clone() Action {
	return &ScaleBy{ScaleTo: ScaleTo{Interval: a.reset(), end: a.end}}
}

// Reverse scales by the reciprocal factors. A zero factor panics.
func (a *ScaleBy) Reverse() FiniteTimeAction {
	if a.end.X == 0 || a.end.Y == 0 {
		panic("action: cannot reverse ScaleBy with a zero factor")
	}
	return &ScaleBy{ScaleTo: ScaleTo{Interval: a.reset(), end: Point{1 / a.end.X, 1 / a.end.Y}}}
}

// --- Skew ---

// SkewTo skews the target to absolute angles in radians.
type SkewTo struct {
	Interval
	end   Point
	start Point
	delta Point
}

// NewSkewTo creates an action skewing its target to (kx, ky) over d seconds.
func NewSkewTo(d, kx, ky float64) *SkewTo {
	return &SkewTo{Interval: newInterval(d), end: Point{kx, ky}}
}

func (a *SkewTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *SkewTo) Update(t float64) {
	a.apply(t, false)
}

func (a *SkewTo) apply(t float64, relative bool) {
	s := capability[Skewer](a.mustTarget(), "Skewer")
	if a.beginTick() {
		kx, ky := s.Skew()
		a.start = Point{kx, ky}
		if relative {
			a.delta = a.end
		} else {
			a.delta = a.end.Sub(a.start)
		}
	}
	s.SetSkew(a.start.X+a.delta.X*t, a.start.Y+a.delta.Y*t)
}

func (a *SkewTo) Clone() Action             { return &SkewTo{Interval: a.reset(), end: a.end} }
func (a *SkewTo) Reverse() FiniteTimeAction { return noReverse(a) }

// SkewBy skews the target by relative angles in radians.
type SkewBy struct {
	SkewTo
}

// NewSkewBy creates an action adding (kx, ky) to its target's skew over d
// seconds.
func NewSkewBy(d, kx, ky float64) *SkewBy {
	return &SkewBy{SkewTo: SkewTo{Interval: newInterval(d), end: Point{kx, ky}}}
}

func (a *SkewBy) Step(dt float64)  { a.Update(a.advance(dt)) }
func (a *SkewBy) Update(t float64) { a.apply(t, true) }

func (a *SkewBy) Clone() Action {
	return &SkewBy{SkewTo: SkewTo{Interval: a.reset(), end: a.end}}
}

func (a *SkewBy) Reverse() FiniteTimeAction {
	return &SkewBy{SkewTo: SkewTo{Interval: a.reset(), end: a.end.Neg()}}
}
