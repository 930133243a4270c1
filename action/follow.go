package action

// Bounds is an axis-aligned rectangle in world coordinates.
type Bounds struct {
	X, Y, Width, Height float64
}

// IsZero reports whether b is the zero rectangle.
func (b Bounds) IsZero() bool { return b == Bounds{} }

// runner is implemented by targets that can leave the running scene.
type runner interface {
	IsRunning() bool
}

// Follow moves its target (usually a layer or scene root) so that a followed
// node stays in the middle of the screen. With non-zero bounds the target
// never scrolls past the edges of the world rectangle.
//
// Follow never finishes on its own; it reports done once the followed node
// stops running.
type Follow struct {
	Base
	followed Positioner
	half     Point
	bounded  bool
	covered  bool

	left, right, top, bottom float64
}

// NewFollow keeps followed centred on a screen of the given size, clamped to
// bounds when bounds is not zero.
func NewFollow(followed Positioner, screenW, screenH float64, bounds Bounds) *Follow {
	if followed == nil {
		panic("action: Follow needs a node to follow")
	}
	a := &Follow{
		Base:     newBase(),
		followed: followed,
		half:     Point{screenW / 2, screenH / 2},
		bounded:  !bounds.IsZero(),
	}
	if !a.bounded {
		return a
	}

	a.left = -((bounds.X + bounds.Width) - screenW)
	a.right = -bounds.X
	a.top = -bounds.Y
	a.bottom = -((bounds.Y + bounds.Height) - screenH)

	// World smaller than the screen: pin to the middle.
	if a.right < a.left {
		a.left = (a.left + a.right) / 2
		a.right = a.left
	}
	if a.top < a.bottom {
		a.top = (a.top + a.bottom) / 2
		a.bottom = a.top
	}
	a.covered = a.left == a.right && a.top == a.bottom
	return a
}

// Followed returns the node being followed.
func (a *Follow) Followed() Positioner { return a.followed }

func (a *Follow) Start(target Target) {
	a.bind(target)
}

func (a *Follow) Step(float64) {
	p := capability[Positioner](a.mustTarget(), "Positioner")
	fx, fy := a.followed.Position()
	x := a.half.X - fx
	y := a.half.Y - fy
	if a.bounded {
		if a.covered {
			return
		}
		x = max(a.left, min(x, a.right))
		y = max(a.bottom, min(y, a.top))
	}
	p.SetPosition(x, y)
}

func (a *Follow) Update(float64) {}

func (a *Follow) IsDone() bool {
	r, ok := a.followed.(runner)
	return ok && !r.IsRunning()
}

func (a *Follow) Clone() Action {
	c := *a
	c.Base = Base{tag: a.tag}
	return &c
}
