// Package schedule dispatches per-frame update callbacks and interval timers.
//
// A Scheduler keeps two independent registries. Update callbacks run once per
// frame in ascending priority order (ties in registration order), which lets
// systems such as physics run before camera following. Timers fire a keyed
// function every interval, optionally after a delay and a limited number of
// times. Both can be paused per target without losing their state.
//
// Targets are held by identity only; the owner must call UnscheduleAllForTarget
// before destroying one.
package schedule

import (
	"fmt"
	"log"
	"math"
	"os"
	"slices"

	"github.com/phanxgames/grove/internal/loop"
)

// RepeatForever is the repeat count of a timer that never stops on its own.
const RepeatForever = math.MaxUint32

// Updater receives the distinguished per-frame update callback.
type Updater interface {
	Update(dt float64)
}

type updateEntry struct {
	target   Updater
	priority int
	paused   bool
	deleted  bool
}

type timer struct {
	key      string
	fn       func(dt float64)
	interval float64
	elapsed  float64

	useDelay bool
	delay    float64

	repeat   uint
	executed uint
	forever  bool

	deleted bool
	// pending is set on timers added during a sweep; they are skipped until
	// the sweep ends.
	pending bool
}

// timerElement holds every timer of one target, in registration order.
type timerElement struct {
	target any
	timers []*timer
	paused bool
}

// Scheduler is the per-runtime timer and update dispatcher. It is not safe
// for concurrent use; it belongs to the goroutine running the frame loop.
type Scheduler struct {
	updates        []*updateEntry
	pendingUpdates []*updateEntry
	updateByTarget map[any]*updateEntry

	timerElements []*timerElement
	timerByTarget map[any]*timerElement
	pendingTimers []*timer

	// sweeping is set while Update runs. Structural changes are deferred
	// until the sweep ends.
	sweeping bool
	dirty    bool

	timeScale float64
	logger    *log.Logger
	guard     loop.Guard
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{
		updateByTarget: make(map[any]*updateEntry),
		timerByTarget:  make(map[any]*timerElement),
		timeScale:      1,
		logger:         log.New(os.Stderr, "[grove] ", 0),
		guard:          loop.NewGuard("schedule.Scheduler"),
	}
}

// SetLogger replaces the logger used to report recovered panics.
func (s *Scheduler) SetLogger(l *log.Logger) {
	if l == nil {
		panic("schedule: nil logger")
	}
	s.logger = l
}

// SetOwnerCheck enables or disables the frame-loop goroutine check.
func (s *Scheduler) SetOwnerCheck(enabled bool) { s.guard.SetEnabled(enabled) }

// TimeScale returns the factor applied to every dt.
func (s *Scheduler) TimeScale() float64 { return s.timeScale }

// SetTimeScale scales the dt passed to every callback. 1 is normal speed, 0
// freezes time. Negative values panic.
func (s *Scheduler) SetTimeScale(scale float64) {
	if scale < 0 {
		panic("schedule: negative time scale")
	}
	s.timeScale = scale
}

// --- Update callbacks ---

// ScheduleUpdate registers target's Update to run every frame at priority.
// Lower priorities run first. Scheduling a target that already has an
// update callback replaces it at the new priority.
func (s *Scheduler) ScheduleUpdate(target Updater, priority int, paused bool) {
	s.guard.Check()
	if target == nil {
		panic("schedule: cannot schedule update for nil target")
	}
	if old := s.updateByTarget[target]; old != nil {
		s.removeUpdate(old)
	}
	e := &updateEntry{target: target, priority: priority, paused: paused}
	s.updateByTarget[target] = e
	if s.sweeping {
		s.pendingUpdates = append(s.pendingUpdates, e)
		return
	}
	s.insertUpdate(e)
}

func (s *Scheduler) insertUpdate(e *updateEntry) {
	i := len(s.updates)
	for j, u := range s.updates {
		if u.priority > e.priority {
			i = j
			break
		}
	}
	s.updates = slices.Insert(s.updates, i, e)
}

// removeUpdate forgets e, marking it during a sweep and deleting it
// otherwise.
func (s *Scheduler) removeUpdate(e *updateEntry) {
	if s.updateByTarget[e.target] == e {
		delete(s.updateByTarget, e.target)
	}
	if s.sweeping {
		e.deleted = true
		s.dirty = true
		return
	}
	if i := slices.Index(s.updates, e); i >= 0 {
		s.updates = slices.Delete(s.updates, i, i+1)
	}
}

// UnscheduleUpdate removes target's update callback, if any.
func (s *Scheduler) UnscheduleUpdate(target Updater) {
	s.guard.Check()
	if target == nil {
		return
	}
	if e := s.updateByTarget[target]; e != nil {
		s.removeUpdate(e)
	}
}

// IsUpdateScheduled reports whether target has an update callback.
func (s *Scheduler) IsUpdateScheduled(target Updater) bool {
	_, ok := s.updateByTarget[target]
	return ok
}

// --- Timers ---

// Schedule registers fn under key for target, firing every interval seconds
// (every frame when interval is 0). The first firing waits for delay. The
// timer fires repeat+1 times, or forever with RepeatForever. fn receives
// the time elapsed since its previous firing.
//
// Scheduling a key that is already registered only updates its interval.
// A nil target or fn, an empty key, or a negative interval or delay panics.
func (s *Scheduler) Schedule(target any, key string, fn func(dt float64), interval float64, repeat uint, delay float64, paused bool) {
	s.guard.Check()
	switch {
	case target == nil:
		panic("schedule: cannot schedule timer for nil target")
	case fn == nil:
		panic("schedule: nil timer function")
	case key == "":
		panic("schedule: empty timer key")
	case interval < 0 || delay < 0:
		panic("schedule: negative interval or delay")
	}

	el := s.timerByTarget[target]
	if el == nil {
		el = &timerElement{target: target, paused: paused}
		s.timerElements = append(s.timerElements, el)
		s.timerByTarget[target] = el
	}
	if t := el.find(key); t != nil {
		t.interval = interval
		return
	}
	t := &timer{
		key:      key,
		fn:       fn,
		interval: interval,
		useDelay: delay > 0,
		delay:    delay,
		repeat:   repeat,
		forever:  repeat == RepeatForever,
		pending:  s.sweeping,
	}
	el.timers = append(el.timers, t)
	if t.pending {
		s.pendingTimers = append(s.pendingTimers, t)
	}
}

// ScheduleOnce runs fn a single time after delay seconds.
func (s *Scheduler) ScheduleOnce(target any, key string, fn func(dt float64), delay float64, paused bool) {
	s.Schedule(target, key, fn, 0, 0, delay, paused)
}

func (el *timerElement) find(key string) *timer {
	for _, t := range el.timers {
		if t.key == key && !t.deleted {
			return t
		}
	}
	return nil
}

// Unschedule removes target's timer registered under key.
func (s *Scheduler) Unschedule(target any, key string) {
	s.guard.Check()
	el := s.timerByTarget[target]
	if el == nil {
		return
	}
	if t := el.find(key); t != nil {
		s.removeTimer(el, t)
	}
}

func (s *Scheduler) removeTimer(el *timerElement, t *timer) {
	if s.sweeping {
		t.deleted = true
		s.dirty = true
		return
	}
	if i := slices.Index(el.timers, t); i >= 0 {
		el.timers = slices.Delete(el.timers, i, i+1)
	}
	if len(el.timers) == 0 {
		s.removeElement(el)
	}
}

func (s *Scheduler) removeElement(el *timerElement) {
	if i := slices.Index(s.timerElements, el); i >= 0 {
		s.timerElements = slices.Delete(s.timerElements, i, i+1)
	}
	if s.timerByTarget[el.target] == el {
		delete(s.timerByTarget, el.target)
	}
}

// IsScheduled reports whether target has a live timer under key.
func (s *Scheduler) IsScheduled(target any, key string) bool {
	el := s.timerByTarget[target]
	return el != nil && el.find(key) != nil
}

// UnscheduleAllForTarget removes target's update callback and every timer.
func (s *Scheduler) UnscheduleAllForTarget(target any) {
	s.guard.Check()
	if target == nil {
		return
	}
	if el := s.timerByTarget[target]; el != nil {
		for _, t := range slices.Clone(el.timers) {
			if !t.deleted {
				s.removeTimer(el, t)
			}
		}
	}
	if e := s.updateByTarget[target]; e != nil {
		s.removeUpdate(e)
	}
}

// UnscheduleAll removes every update callback and timer.
func (s *Scheduler) UnscheduleAll() {
	s.guard.Check()
	for _, el := range slices.Clone(s.timerElements) {
		s.UnscheduleAllForTarget(el.target)
	}
	for _, e := range slices.Clone(s.updates) {
		if !e.deleted {
			s.removeUpdate(e)
		}
	}
	for _, e := range s.pendingUpdates {
		if !e.deleted {
			s.removeUpdate(e)
		}
	}
}

// --- Pause ---

// PauseTarget suspends target's update callback and timers. Paused timers
// keep their elapsed time.
func (s *Scheduler) PauseTarget(target any) {
	s.guard.Check()
	s.setPaused(target, true)
}

// ResumeTarget resumes target's update callback and timers.
func (s *Scheduler) ResumeTarget(target any) {
	s.guard.Check()
	s.setPaused(target, false)
}

func (s *Scheduler) setPaused(target any, paused bool) {
	if target == nil {
		return
	}
	if el := s.timerByTarget[target]; el != nil {
		el.paused = paused
	}
	if e := s.updateByTarget[target]; e != nil {
		e.paused = paused
	}
}

// IsTargetPaused reports whether target is paused. Unknown targets are not.
func (s *Scheduler) IsTargetPaused(target any) bool {
	if el := s.timerByTarget[target]; el != nil {
		return el.paused
	}
	if e := s.updateByTarget[target]; e != nil {
		return e.paused
	}
	return false
}

// PauseAllTargets pauses every target and returns those that were running.
func (s *Scheduler) PauseAllTargets() []any {
	return s.PauseAllTargetsWithMinPriority(math.MinInt)
}

// PauseAllTargetsWithMinPriority pauses every timer, and every update
// callback with a priority of at least minPriority. It returns the targets
// it paused, so that targets paused beforehand stay paused after
// ResumeTargets.
func (s *Scheduler) PauseAllTargetsWithMinPriority(minPriority int) []any {
	s.guard.Check()
	var paused []any
	seen := make(map[any]bool)
	add := func(t any) {
		if !seen[t] {
			seen[t] = true
			paused = append(paused, t)
		}
	}
	for _, el := range s.timerElements {
		if !el.paused {
			el.paused = true
			add(el.target)
		}
	}
	for _, list := range [][]*updateEntry{s.updates, s.pendingUpdates} {
		for _, e := range list {
			if !e.deleted && !e.paused && e.priority >= minPriority {
				e.paused = true
				add(e.target)
			}
		}
	}
	return paused
}

// ResumeTargets resumes every target in targets.
func (s *Scheduler) ResumeTargets(targets []any) {
	for _, t := range targets {
		s.ResumeTarget(t)
	}
}

// --- Tick ---

// Update advances the scheduler by dt seconds: first every unpaused update
// callback by ascending priority, then every unpaused timer, target by
// target in registration order.
//
// Callbacks may schedule and unschedule freely. Removals take effect
// immediately; update callbacks and timers added during Update run from the
// next frame, whichever target they belong to. A callback that panics is
// logged and unscheduled.
func (s *Scheduler) Update(dt float64) {
	s.guard.Check()
	if s.sweeping {
		panic("schedule: Update called from a scheduled callback")
	}
	dt *= s.timeScale
	s.sweeping = true

	for _, e := range s.updates {
		if e.deleted || e.paused {
			continue
		}
		s.callUpdate(e, dt)
	}

	for i, n := 0, len(s.timerElements); i < n; i++ {
		el := s.timerElements[i]
		if el.paused {
			continue
		}
		for j, m := 0, len(el.timers); j < m; j++ {
			t := el.timers[j]
			if t.deleted || t.pending {
				continue
			}
			s.tick(el, t, dt)
			// The target may have been paused by its own callback.
			if el.paused {
				break
			}
		}
	}

	s.sweeping = false
	s.flush()
}

func (s *Scheduler) tick(el *timerElement, t *timer, dt float64) {
	t.elapsed += dt
	if t.useDelay {
		if t.elapsed < t.delay {
			return
		}
		elapsed := t.elapsed
		t.elapsed -= t.delay
		t.useDelay = false
		s.fire(el, t, elapsed)
	} else {
		if t.elapsed < t.interval {
			return
		}
		elapsed := t.elapsed
		t.elapsed = 0
		s.fire(el, t, elapsed)
	}
	if t.deleted {
		return
	}
	t.executed++
	if !t.forever && t.executed > t.repeat {
		s.removeTimer(el, t)
	}
}

func (s *Scheduler) fire(el *timerElement, t *timer, elapsed float64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("timer %q on %T panicked: %v", t.key, el.target, r)
			s.removeTimer(el, t)
		}
	}()
	t.fn(elapsed)
}

func (s *Scheduler) callUpdate(e *updateEntry, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("update of %T panicked: %v", e.target, r)
			s.removeUpdate(e)
		}
	}()
	e.target.Update(dt)
}

// flush applies the removals and additions deferred during a sweep.
func (s *Scheduler) flush() {
	if s.dirty {
		s.updates = slices.DeleteFunc(s.updates, func(e *updateEntry) bool { return e.deleted })
		for _, el := range slices.Clone(s.timerElements) {
			el.timers = slices.DeleteFunc(el.timers, func(t *timer) bool { return t.deleted })
			if len(el.timers) == 0 {
				s.removeElement(el)
			}
		}
		s.dirty = false
	}
	for _, t := range s.pendingTimers {
		t.pending = false
	}
	clear(s.pendingTimers)
	s.pendingTimers = s.pendingTimers[:0]
	if len(s.pendingUpdates) > 0 {
		for _, e := range s.pendingUpdates {
			if !e.deleted {
				s.insertUpdate(e)
			}
		}
		clear(s.pendingUpdates)
		s.pendingUpdates = s.pendingUpdates[:0]
	}
}

// String summarizes the registry for debug output.
func (s *Scheduler) String() string {
	timers := 0
	for _, el := range s.timerElements {
		timers += len(el.timers)
	}
	return fmt.Sprintf("schedule: %d updates, %d timers on %d targets", len(s.updateByTarget), timers, len(s.timerElements))
}
