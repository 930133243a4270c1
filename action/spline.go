package action

import "slices"

// cardinalSplineAt evaluates the cardinal spline segment between p1 and p2
// at t in [0, 1].
func cardinalSplineAt(p0, p1, p2, p3 Point, tension, t float64) Point {
	t2 := t * t
	t3 := t2 * t
	s := (1 - tension) / 2

	b1 := s * ((-t3 + 2*t2) - t)
	b2 := s*(-t3+t2) + (2*t3 - 3*t2 + 1)
	b3 := s*(t3-2*t2+t) + (-2*t3 + 3*t2)
	b4 := s * (t3 - t2)

	return Point{
		X: p0.X*b1 + p1.X*b2 + p2.X*b3 + p3.X*b4,
		Y: p0.Y*b1 + p1.Y*b2 + p2.Y*b3 + p3.Y*b4,
	}
}

// CardinalSplineTo moves the target through a list of absolute control
// points. Tension 0 gives a Catmull-Rom curve; 1 gives straight segments.
type CardinalSplineTo struct {
	Interval
	points  []Point
	tension float64
	deltaT  float64

	// offset is added to every evaluated point; zero for absolute splines.
	offset Point
	prev   Point
	drift  Point
}

// NewCardinalSplineTo creates a spline action over d seconds. At least two
// points are required.
func NewCardinalSplineTo(d float64, points []Point, tension float64) *CardinalSplineTo {
	if len(points) < 2 {
		panic("action: cardinal spline needs at least two points")
	}
	return &CardinalSplineTo{
		Interval: newInterval(d),
		points:   slices.Clone(points),
		tension:  tension,
		deltaT:   1 / float64(len(points)-1),
	}
}

func (a *CardinalSplineTo) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *CardinalSplineTo) Update(t float64) {
	a.update(t, false)
}

// update evaluates the spline; relative splines add the start position.
func (a *CardinalSplineTo) update(t float64, relative bool) {
	p := capability[Positioner](a.mustTarget(), "Positioner")
	if a.beginTick() {
		x, y := p.Position()
		a.prev = Point{x, y}
		a.drift = Point{}
		a.offset = Point{}
		if relative {
			a.offset = a.prev
		}
	}

	var seg int
	var lt float64
	if t >= 1 {
		seg = len(a.points) - 1
		lt = 1
	} else {
		seg = int(t / a.deltaT)
		lt = (t - a.deltaT*float64(seg)) / a.deltaT
	}

	next := cardinalSplineAt(
		a.point(seg-1), a.point(seg), a.point(seg+1), a.point(seg+2),
		a.tension, lt,
	)

	x, y := p.Position()
	a.drift = a.drift.Add(Point{x, y}.Sub(a.prev))
	next = next.Add(a.offset).Add(a.drift)
	p.SetPosition(next.X, next.Y)
	a.prev = next
}

func (a *CardinalSplineTo) point(i int) Point {
	i = max(0, min(i, len(a.points)-1))
	return a.points[i]
}

func (a *CardinalSplineTo) Clone() Action {
	return &CardinalSplineTo{
		Interval: a.reset(),
		points:   slices.Clone(a.points),
		tension:  a.tension,
		deltaT:   a.deltaT,
	}
}

// Reverse walks the same points in the opposite order.
func (a *CardinalSplineTo) Reverse() FiniteTimeAction {
	pts := slices.Clone(a.points)
	slices.Reverse(pts)
	return NewCardinalSplineTo(a.duration, pts, a.tension)
}

// CardinalSplineBy moves the target through control points given relative to
// its start position.
type CardinalSplineBy struct {
	CardinalSplineTo
}

// NewCardinalSplineBy creates a relative spline action over d seconds.
func NewCardinalSplineBy(d float64, points []Point, tension float64) *CardinalSplineBy {
	return &CardinalSplineBy{CardinalSplineTo: *NewCardinalSplineTo(d, points, tension)}
}

func (a *CardinalSplineBy) Step(dt float64)  { a.Update(a.advance(dt)) }
func (a *CardinalSplineBy) Update(t float64) { a.update(t, true) }

func (a *CardinalSplineBy) Clone() Action {
	return &CardinalSplineBy{CardinalSplineTo: *a.CardinalSplineTo.Clone().(*CardinalSplineTo)}
}

// Reverse retraces the relative path so the target ends where it began.
func (a *CardinalSplineBy) Reverse() FiniteTimeAction {
	return NewCardinalSplineBy(a.duration, reverseRelative(a.points), a.tension)
}

// reverseRelative converts relative points to per-segment differences,
// walks them backwards and accumulates them again from the negated end.
func reverseRelative(points []Point) []Point {
	n := len(points)
	diffs := make([]Point, n)
	diffs[0] = points[0]
	for i := 1; i < n; i++ {
		diffs[i] = points[i].Sub(points[i-1])
	}
	slices.Reverse(diffs)

	out := make([]Point, n)
	p := diffs[n-1].Neg()
	out[0] = p
	for i := 1; i < n; i++ {
		p = p.Add(diffs[i-1].Neg())
		out[i] = p
	}
	return out
}

// NewCatmullRomTo creates a cardinal spline with tension 0.5 through absolute
// points.
func NewCatmullRomTo(d float64, points []Point) *CardinalSplineTo {
	return NewCardinalSplineTo(d, points, 0.5)
}

// NewCatmullRomBy creates a cardinal spline with tension 0.5 through relative
// points.
func NewCatmullRomBy(d float64, points []Point) *CardinalSplineBy {
	return NewCardinalSplineBy(d, points, 0.5)
}
