package action

import "slices"

// AnimationFrame is one frame of an Animation. DelayUnits scales the
// animation's DelayPerUnit for this frame.
type AnimationFrame struct {
	Index      int
	DelayUnits float64
}

// Animation describes a frame sequence played by Animate.
type Animation struct {
	Frames       []AnimationFrame
	DelayPerUnit float64
	// Loops is the number of times the sequence plays; 0 is treated as 1.
	Loops int
	// RestoreOriginalFrame puts back the frame the target showed before the
	// animation when the action stops.
	RestoreOriginalFrame bool
}

// NewAnimation builds an Animation showing each index for delay seconds.
func NewAnimation(indices []int, delay float64) Animation {
	frames := make([]AnimationFrame, len(indices))
	for i, idx := range indices {
		frames[i] = AnimationFrame{Index: idx, DelayUnits: 1}
	}
	return Animation{Frames: frames, DelayPerUnit: delay, Loops: 1}
}

func (an Animation) loops() int {
	return max(an.Loops, 1)
}

func (an Animation) totalUnits() float64 {
	var u float64
	for _, f := range an.Frames {
		u += f.DelayUnits
	}
	return u
}

// Duration returns the length of one loop times the loop count.
func (an Animation) Duration() float64 {
	return an.totalUnits() * an.DelayPerUnit * float64(an.loops())
}

// Animate plays an Animation on a Framer target.
type Animate struct {
	Interval
	anim       Animation
	splitTimes []float64

	origFrame     int
	nextFrame     int
	executedLoops int
}

// NewAnimate creates an action playing anim. An animation without frames
// panics.
func NewAnimate(anim Animation) *Animate {
	if len(anim.Frames) == 0 {
		panic("action: animation has no frames")
	}
	anim.Frames = slices.Clone(anim.Frames)
	a := &Animate{Interval: newInterval(anim.Duration()), anim: anim}

	single := anim.totalUnits() * anim.DelayPerUnit
	a.splitTimes = make([]float64, len(anim.Frames))
	var acc float64
	for i, f := range anim.Frames {
		if single > 0 {
			a.splitTimes[i] = acc * anim.DelayPerUnit / single
		}
		acc += f.DelayUnits
	}
	return a
}

// Start binds the target and rewinds to the first frame.
func (a *Animate) Start(target Target) {
	a.Interval.Start(target)
	a.nextFrame = 0
	a.executedLoops = 0
	if a.anim.RestoreOriginalFrame {
		a.origFrame = capability[Framer](target, "Framer").Frame()
	}
}

func (a *Animate) Step(dt float64) { a.Update(a.advance(dt)) }

func (a *Animate) Update(t float64) {
	f := capability[Framer](a.mustTarget(), "Framer")
	a.beginTick()

	if t < 1 {
		t *= float64(a.anim.loops())
		loop := int(t)
		if loop > a.executedLoops {
			a.nextFrame = 0
			a.executedLoops++
		}
		t -= float64(loop)
	}

	for i := a.nextFrame; i < len(a.anim.Frames); i++ {
		if a.splitTimes[i] > t {
			break
		}
		f.SetFrame(a.anim.Frames[i].Index)
		a.nextFrame = i + 1
	}
}

// Stop restores the original frame when the animation asks for it.
func (a *Animate) Stop() {
	if a.anim.RestoreOriginalFrame && a.target != nil {
		if f, ok := a.target.(Framer); ok {
			f.SetFrame(a.origFrame)
		}
	}
	a.Interval.Stop()
}

// Animation returns the animation being played.
func (a *Animate) Animation() Animation { return a.anim }

func (a *Animate) Clone() Action {
	c := NewAnimate(a.anim)
	c.tag = a.tag
	return c
}

// Reverse plays the frames in the opposite order.
func (a *Animate) Reverse() FiniteTimeAction {
	anim := a.anim
	anim.Frames = slices.Clone(anim.Frames)
	slices.Reverse(anim.Frames)
	return NewAnimate(anim)
}
