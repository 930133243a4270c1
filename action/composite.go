package action

// --- Sequence ---

// Sequence runs two actions one after the other. Longer sequences are built
// as nested pairs by NewSequence.
type Sequence struct {
	Interval
	actions [2]FiniteTimeAction
	split   float64
	last    int
}

// NewSequence runs actions in order. The sequence owns its children; pass
// clones to reuse an action elsewhere. Calling it with no actions panics.
func NewSequence(actions ...FiniteTimeAction) *Sequence {
	switch len(actions) {
	case 0:
		panic("action: empty sequence")
	case 1:
		return newSequencePair(actions[0], NewDelayTime(0))
	}
	prev := newSequencePair(actions[0], actions[1])
	for _, next := range actions[2:] {
		prev = newSequencePair(prev, next)
	}
	return prev
}

func newSequencePair(one, two FiniteTimeAction) *Sequence {
	if one == nil || two == nil {
		panic("action: nil action in sequence")
	}
	d := one.Duration() + two.Duration()
	s := &Sequence{Interval: newInterval(d), actions: [2]FiniteTimeAction{one, two}, last: -1}
	if d > 0 {
		s.split = one.Duration() / d
	}
	return s
}

// Start binds the target; children are started lazily as the timeline
// reaches them.
func (a *Sequence) Start(target Target) {
	a.Interval.Start(target)
	a.last = -1
}

func (a *Sequence) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Sequence) Update(t float64) {
	target := a.mustTarget()
	a.beginTick()

	found := 0
	var nt float64
	if t < a.split {
		if a.split != 0 {
			nt = t / a.split
		} else {
			nt = 1
		}
	} else {
		found = 1
		if a.split == 1 {
			nt = 1
		} else {
			nt = (t - a.split) / (1 - a.split)
		}
	}

	one := a.actions[0]
	switch {
	case found == 1 && a.last == -1:
		// The first action was skipped over in a single tick: run it
		// to completion before moving on.
		one.Start(target)
		drive(one, 1)
		one.Stop()
	case found == 1 && a.last == 0:
		drive(one, 1)
		one.Stop()
	case found == 0 && a.last == 1:
		// Running backwards through the split.
		drive(a.actions[1], 0)
		a.actions[1].Stop()
	}

	cur := a.actions[found]
	if found == a.last && cur.IsDone() {
		return
	}
	if found != a.last {
		cur.Start(target)
	}
	drive(cur, nt)
	a.last = found
}

// Stop stops whichever child is running.
func (a *Sequence) Stop() {
	if a.last != -1 && a.actions[a.last].Target() != nil {
		a.actions[a.last].Stop()
	}
	a.last = -1
	a.Interval.Stop()
}

func (a *Sequence) Clone() Action {
	s := newSequencePair(cloneFinite(a.actions[0]), cloneFinite(a.actions[1]))
	s.tag = a.tag
	return s
}

// Reverse runs the reversed children in the opposite order.
func (a *Sequence) Reverse() FiniteTimeAction {
	return newSequencePair(a.actions[1].Reverse(), a.actions[0].Reverse())
}

// --- Spawn ---

// Spawn runs two actions at the same time. A child that finishes early is
// stopped and receives no further updates.
type Spawn struct {
	Interval
	one, two         FiniteTimeAction
	oneDone, twoDone bool
}

// NewSpawn runs actions in parallel. Calling it with no actions panics.
func NewSpawn(actions ...FiniteTimeAction) *Spawn {
	switch len(actions) {
	case 0:
		panic("action: empty spawn")
	case 1:
		return newSpawnPair(actions[0], NewDelayTime(0))
	}
	prev := newSpawnPair(actions[0], actions[1])
	for _, next := range actions[2:] {
		prev = newSpawnPair(prev, next)
	}
	return prev
}

func newSpawnPair(one, two FiniteTimeAction) *Spawn {
	if one == nil || two == nil {
		panic("action: nil action in spawn")
	}
	d := max(one.Duration(), two.Duration())
	return &Spawn{Interval: newInterval(d), one: one, two: two}
}

// Start binds the target and starts both children.
func (a *Spawn) Start(target Target) {
	a.Interval.Start(target)
	a.one.Start(target)
	a.two.Start(target)
	a.oneDone = false
	a.twoDone = false
}

func (a *Spawn) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Spawn) Update(t float64) {
	a.mustTarget()
	a.beginTick()
	at := t * a.duration
	a.oneDone = updateChild(a.one, a.oneDone, at)
	a.twoDone = updateChild(a.two, a.twoDone, at)
}

// updateChild drives c to absolute time at and stops it once it reaches its
// end. It reports whether c is finished.
func updateChild(c FiniteTimeAction, done bool, at float64) bool {
	if done {
		return true
	}
	ct := 1.0
	if d := c.Duration(); d > 0 {
		ct = clamp01(at / d)
	}
	drive(c, ct)
	if ct >= 1 {
		c.Stop()
		return true
	}
	return false
}

// Stop stops the children that are still running.
func (a *Spawn) Stop() {
	if !a.oneDone && a.one.Target() != nil {
		a.one.Stop()
	}
	if !a.twoDone && a.two.Target() != nil {
		a.two.Stop()
	}
	a.Interval.Stop()
}

func (a *Spawn) Clone() Action {
	s := newSpawnPair(cloneFinite(a.one), cloneFinite(a.two))
	s.tag = a.tag
	return s
}

// Reverse reverses both children, delaying the shorter one so that the two
// still end together.
func (a *Spawn) Reverse() FiniteTimeAction {
	return newSpawnPair(padFront(a.one.Reverse(), a.duration), padFront(a.two.Reverse(), a.duration))
}

func padFront(a FiniteTimeAction, d float64) FiniteTimeAction {
	if gap := d - a.Duration(); gap > 0 {
		return newSequencePair(NewDelayTime(gap), a)
	}
	return a
}

// --- Repeat ---

// repeatEpsilon absorbs rounding when comparing accumulated progress with a
// repetition boundary.
const repeatEpsilon = 1e-9

// Repeat runs an action a fixed number of times.
//
// Every completed repetition delivers exactly one Update(1) followed by Stop,
// and the next repetition is started only when one remains. When a single
// tick spans several repetition boundaries, each boundary is delivered in
// turn, so no repetition is ever skipped.
type Repeat struct {
	Interval
	inner FiniteTimeAction
	times int
	total int
}

// NewRepeat runs inner times times. times must be at least 1.
func NewRepeat(inner FiniteTimeAction, times int) *Repeat {
	if inner == nil {
		panic("action: nil action in repeat")
	}
	if times < 1 {
		panic("action: repeat count must be at least 1")
	}
	return &Repeat{
		Interval: newInterval(inner.Duration() * float64(times)),
		inner:    inner,
		times:    times,
	}
}

// Inner returns the repeated action.
func (a *Repeat) Inner() FiniteTimeAction { return a.inner }

// Times returns the repetition count.
func (a *Repeat) Times() int { return a.times }

// Start binds the target and starts the first repetition.
func (a *Repeat) Start(target Target) {
	a.Interval.Start(target)
	a.total = 0
	a.inner.Start(target)
}

func (a *Repeat) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Repeat) Update(t float64) {
	target := a.mustTarget()
	a.beginTick()

	progress := t * float64(a.times)
	for a.total < a.times && (t >= 1 || progress >= float64(a.total+1)-repeatEpsilon) {
		drive(a.inner, 1)
		a.inner.Stop()
		a.total++
		if a.total < a.times {
			a.inner.Start(target)
		}
	}

	if a.total < a.times && a.inner.Duration() > 0 {
		drive(a.inner, clamp01(progress-float64(a.total)))
	}
}

// Stop stops the current repetition if it is still running.
func (a *Repeat) Stop() {
	if a.inner.Target() != nil {
		a.inner.Stop()
	}
	a.Interval.Stop()
}

func (a *Repeat) Clone() Action {
	r := NewRepeat(cloneFinite(a.inner), a.times)
	r.tag = a.tag
	return r
}

func (a *Repeat) Reverse() FiniteTimeAction {
	return NewRepeat(a.inner.Reverse(), a.times)
}

// --- TargetedAction ---

// TargetedAction runs an action on a fixed target instead of the one it is
// started with. It lets a Sequence on one node drive another.
type TargetedAction struct {
	Interval
	forced Target
	inner  FiniteTimeAction
}

// NewTargetedAction runs inner on target.
func NewTargetedAction(target Target, inner FiniteTimeAction) *TargetedAction {
	if target == nil || inner == nil {
		panic("action: TargetedAction needs a target and an action")
	}
	return &TargetedAction{Interval: newInterval(inner.Duration()), forced: target, inner: inner}
}

// Start binds target and starts the inner action on the forced target.
func (a *TargetedAction) Start(target Target) {
	a.Interval.Start(target)
	a.inner.Start(a.forced)
}

func (a *TargetedAction) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *TargetedAction) Update(t float64) {
	a.mustTarget()
	a.beginTick()
	drive(a.inner, t)
}

func (a *TargetedAction) Stop() {
	if a.inner.Target() != nil {
		a.inner.Stop()
	}
	a.Interval.Stop()
}

func (a *TargetedAction) Clone() Action {
	c := NewTargetedAction(a.forced, cloneFinite(a.inner))
	c.tag = a.tag
	return c
}

func (a *TargetedAction) Reverse() FiniteTimeAction {
	return NewTargetedAction(a.forced, a.inner.Reverse())
}

// --- ReverseTime ---

// ReverseTime plays an action backwards by feeding it 1-t. It is meant as a
// leaf helper for actions without a natural reverse.
type ReverseTime struct {
	Interval
	inner FiniteTimeAction
}

// NewReverseTime plays inner backwards.
func NewReverseTime(inner FiniteTimeAction) *ReverseTime {
	if inner == nil {
		panic("action: nil action in ReverseTime")
	}
	return &ReverseTime{Interval: newInterval(inner.Duration()), inner: inner}
}

func (a *ReverseTime) Start(target Target) {
	a.Interval.Start(target)
	a.inner.Start(target)
}

func (a *ReverseTime) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *ReverseTime) Update(t float64) {
	a.mustTarget()
	a.beginTick()
	drive(a.inner, 1-t)
}

func (a *ReverseTime) Stop() {
	if a.inner.Target() != nil {
		a.inner.Stop()
	}
	a.Interval.Stop()
}

func (a *ReverseTime) Clone() Action {
	c := NewReverseTime(cloneFinite(a.inner))
	c.tag = a.tag
	return c
}

// Reverse returns a copy of the wrapped action.
func (a *ReverseTime) Reverse() FiniteTimeAction { return cloneFinite(a.inner) }
