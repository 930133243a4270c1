package action

import "math"

// Point is a 2D coordinate used by path actions.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Neg returns -p.
func (p Point) Neg() Point { return Point{-p.X, -p.Y} }

// stack tracks the position an action last wrote so that movement applied by
// other actions in between is carried along instead of overwritten. This is
// what lets two MoveBy actions run on the same target at once.
type stack struct {
	start Point
	prev  Point
}

func (s *stack) begin(p Positioner) {
	x, y := p.Position()
	s.start = Point{x, y}
	s.prev = s.start
}

// apply moves the target to start+offset, first folding in any drift since
// the last write.
func (s *stack) apply(p Positioner, offset Point) {
	x, y := p.Position()
	s.start = s.start.Add(Point{x, y}.Sub(s.prev))
	next := s.start.Add(offset)
	p.SetPosition(next.X, next.Y)
	s.prev = next
}

// --- MoveBy / MoveTo ---

// MoveBy moves the target by a relative offset.
type MoveBy struct {
	Interval
	delta Point
	pos   stack
}

// NewMoveBy creates an action that moves its target by (dx, dy) over d
// seconds.
func NewMoveBy(d, dx, dy float64) *MoveBy {
	return &MoveBy{Interval: newInterval(d), delta: Point{dx, dy}}
}

func (a *MoveBy) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *MoveBy) Update(t float64) {
	p := capability[Positioner](a.mustTarget(), "Positioner")
	if a.beginTick() {
		a.pos.begin(p)
	}
	a.pos.apply(p, Point{a.delta.X * t, a.delta.Y * t})
}

func (a *MoveBy) Clone() Action {
	return &MoveBy{Interval: a.reset(), delta: a.delta}
}

func (a *MoveBy) Reverse() FiniteTimeAction {
	return &MoveBy{Interval: a.reset(), delta: a.delta.Neg()}
}

// MoveTo moves the target to an absolute position. The offset is resolved
// against the position the target has on the first update.
type MoveTo struct {
	MoveBy
	end Point
}

// NewMoveTo creates an action that moves its target to (x, y) over d
// seconds.
func NewMoveTo(d, x, y float64) *MoveTo {
	return &MoveTo{MoveBy: MoveBy{Interval: newInterval(d)}, end: Point{x, y}}
}

func (a *MoveTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *MoveTo) Update(t float64) {
	if a.firstTick {
		x, y := capability[Positioner](a.mustTarget(), "Positioner").Position()
		a.delta = a.end.Sub(Point{x, y})
	}
	a.MoveBy.Update(t)
}

func (a *MoveTo) Clone() Action {
	return &MoveTo{MoveBy: MoveBy{Interval: a.reset()}, end: a.end}
}

func (a *MoveTo) Reverse() FiniteTimeAction { return noReverse(a) }

// --- JumpBy / JumpTo ---

// JumpBy moves the target by a relative offset along a series of parabolic
// hops.
type JumpBy struct {
	Interval
	delta  Point
	height float64
	jumps  int
	pos    stack
}

// NewJumpBy creates an action that hops jumps times over d seconds, each hop
// reaching height, ending (dx, dy) away from where it began.
func NewJumpBy(d, dx, dy, height float64, jumps int) *JumpBy {
	if jumps < 1 {
		panic("action: JumpBy needs at least one jump")
	}
	return &JumpBy{Interval: newInterval(d), delta: Point{dx, dy}, height: height, jumps: jumps}
}

func (a *JumpBy) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *JumpBy) Update(t float64) {
	p := capability[Positioner](a.mustTarget(), "Positioner")
	if a.beginTick() {
		a.pos.begin(p)
	}
	frac := math.Mod(t*float64(a.jumps), 1)
	y := a.height*4*frac*(1-frac) + a.delta.Y*t
	a.pos.apply(p, Point{a.delta.X * t, y})
}

func (a *JumpBy) Clone() Action {
	return &JumpBy{Interval: a.reset(), delta: a.delta, height: a.height, jumps: a.jumps}
}

func (a *JumpBy) Reverse() FiniteTimeAction {
	return &JumpBy{Interval: a.reset(), delta: a.delta.Neg(), height: a.height, jumps: a.jumps}
}

// JumpTo hops the target to an absolute position.
type JumpTo struct {
	JumpBy
	end Point
}

// NewJumpTo creates an action that hops jumps times over d seconds, landing
// on (x, y).
func NewJumpTo(d, x, y, height float64, jumps int) *JumpTo {
	return &JumpTo{JumpBy: *NewJumpBy(d, 0, 0, height, jumps), end: Point{x, y}}
}

func (a *JumpTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *JumpTo) Update(t float64) {
	if a.firstTick {
		x, y := capability[Positioner](a.mustTarget(), "Positioner").Position()
		a.delta = a.end.Sub(Point{x, y})
	}
	a.JumpBy.Update(t)
}

func (a *JumpTo) Clone() Action {
	return &JumpTo{
		JumpBy: JumpBy{Interval: a.reset(), height: a.height, jumps: a.jumps},
		end:    a.end,
	}
}

func (a *JumpTo) Reverse() FiniteTimeAction { return noReverse(a) }

// --- BezierBy / BezierTo ---

// BezierConfig holds the control points and end point of a cubic Bézier
// path. For BezierBy they are relative to the start position.
type BezierConfig struct {
	Control1 Point
	Control2 Point
	End      Point
}

func bezierAt(a, b, c, d, t float64) float64 {
	u := 1 - t
	return u*u*u*a + 3*t*u*u*b + 3*t*t*u*c + t*t*t*d
}

// BezierBy moves the target along a cubic Bézier curve relative to its start
// position.
type BezierBy struct {
	Interval
	config BezierConfig
	pos    stack
}

// NewBezierBy creates an action following config over d seconds.
func NewBezierBy(d float64, config BezierConfig) *BezierBy {
	return &BezierBy{Interval: newInterval(d), config: config}
}

func (a *BezierBy) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *BezierBy) Update(t float64) {
	p := capability[Positioner](a.mustTarget(), "Positioner")
	if a.beginTick() {
		a.pos.begin(p)
	}
	c := a.config
	x := bezierAt(0, c.Control1.X, c.Control2.X, c.End.X, t)
	y := bezierAt(0, c.Control1.Y, c.Control2.Y, c.End.Y, t)
	a.pos.apply(p, Point{x, y})
}

func (a *BezierBy) Clone() Action {
	return &BezierBy{Interval: a.reset(), config: a.config}
}

// Reverse follows the same curve back to its origin.
func (a *BezierBy) Reverse() FiniteTimeAction {
	c := a.config
	back := c.End.Neg()
	return &BezierBy{Interval: a.reset(), config: BezierConfig{
		Control1: c.Control2.Add(back),
		Control2: c.Control1.Add(back),
		End:      back,
	}}
}

// BezierTo moves the target along a cubic Bézier curve given in absolute
// coordinates.
type BezierTo struct {
	BezierBy
	to BezierConfig
}

// NewBezierTo creates an action following the absolute curve to over d
// seconds.
func NewBezierTo(d float64, to BezierConfig) *BezierTo {
	return &BezierTo{BezierBy: BezierBy{Interval: newInterval(d)}, to: to}
}

func (a *BezierTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *BezierTo) Update(t float64) {
	if a.firstTick {
		x, y := capability[Positioner](a.mustTarget(), "Positioner").Position()
		start := Point{x, y}
		a.config = BezierConfig{
			Control1: a.to.Control1.Sub(start),
			Control2: a.to.Control2.Sub(start),
			End:      a.to.End.Sub(start),
		}
	}
	a.BezierBy.Update(t)
}

func (a *BezierTo) Clone() Action {
	return &BezierTo{BezierBy: BezierBy{Interval: a.reset()}, to: a.to}
}

func (a *BezierTo) Reverse() FiniteTimeAction { return noReverse(a) }
