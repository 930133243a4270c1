package action

// Interval is the embeddable base of every action with a timeline. It owns
// the elapsed-time clock; concrete actions provide Update and delegate Step
// to advance.
type Interval struct {
	Base
	duration  float64
	elapsed   float64
	firstTick bool
}

func newInterval(duration float64) Interval {
	if duration < 0 {
		panic("action: negative duration")
	}
	return Interval{Base: newBase(), duration: duration}
}

// Start binds the target and rewinds the clock.
func (a *Interval) Start(target Target) {
	a.bind(target)
	a.elapsed = 0
	a.firstTick = true
}

// Duration returns the length of the timeline in seconds.
func (a *Interval) Duration() float64 { return a.duration }

// Elapsed returns the seconds accumulated since Start.
func (a *Interval) Elapsed() float64 { return a.elapsed }

// IsDone reports whether the clock has reached the duration.
func (a *Interval) IsDone() bool { return a.elapsed >= a.duration }

// advance accumulates dt and returns the normalized time to update with.
func (a *Interval) advance(dt float64) float64 {
	a.mustTarget()
	a.elapsed += dt
	if a.duration <= 0 {
		return 1
	}
	return clamp01(a.elapsed / a.duration)
}

// beginTick reports true exactly once per activation, on the first Update.
func (a *Interval) beginTick() bool {
	if !a.firstTick {
		return false
	}
	a.firstTick = false
	return true
}

func (a *Interval) seek(t float64) {
	a.elapsed = t * a.duration
}

// reset returns a detached copy of the configuration with a fresh clock.
func (a *Interval) reset() Interval {
	return Interval{Base: Base{tag: a.tag}, duration: a.duration}
}

// --- DelayTime ---

// DelayTime does nothing for its duration. Its main use is spacing the steps
// of a Sequence.
type DelayTime struct {
	Interval
}

// NewDelayTime creates an action that waits d seconds.
func NewDelayTime(d float64) *DelayTime {
	return &DelayTime{Interval: newInterval(d)}
}

func (a *DelayTime) Step(dt float64)  { a.Update(a.advance(dt)) }
func (a *DelayTime) Update(t float64) {}

func (a *DelayTime) Clone() Action {
	return &DelayTime{Interval: a.reset()}
}

func (a *DelayTime) Reverse() FiniteTimeAction { return a.Clone().(*DelayTime) }
