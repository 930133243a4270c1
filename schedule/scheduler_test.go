package schedule

import (
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type system struct {
	name string
	log  *[]string
	fn   func(dt float64)
}

func (s *system) Update(dt float64) {
	*s.log = append(*s.log, s.name)
	if s.fn != nil {
		s.fn(dt)
	}
}

func quiet(s *Scheduler) *Scheduler {
	s.SetLogger(log.New(io.Discard, "", 0))
	return s
}

func TestUpdatePriority(t *testing.T) {
	t.Run("lower priority runs first", func(t *testing.T) {
		var calls []string
		s := New()
		s.ScheduleUpdate(&system{name: "camera", log: &calls}, 2, false)
		s.ScheduleUpdate(&system{name: "physics", log: &calls}, 1, false)

		s.Update(0.016)

		assert.Equal(t, []string{"physics", "camera"}, calls)
	})

	t.Run("ties run in registration order", func(t *testing.T) {
		var calls []string
		s := New()
		s.ScheduleUpdate(&system{name: "a", log: &calls}, 0, false)
		s.ScheduleUpdate(&system{name: "b", log: &calls}, 0, false)
		s.ScheduleUpdate(&system{name: "early", log: &calls}, -5, false)
		s.ScheduleUpdate(&system{name: "c", log: &calls}, 0, false)

		s.Update(0.016)

		assert.Equal(t, []string{"early", "a", "b", "c"}, calls)
	})

	t.Run("rescheduling replaces", func(t *testing.T) {
		var calls []string
		s := New()
		a := &system{name: "a", log: &calls}
		s.ScheduleUpdate(a, 0, false)
		s.ScheduleUpdate(&system{name: "b", log: &calls}, 5, false)
		s.ScheduleUpdate(a, 10, false)

		s.Update(0.016)

		assert.Equal(t, []string{"b", "a"}, calls)
	})

	t.Run("receives scaled dt", func(t *testing.T) {
		var calls []string
		var got float64
		s := New()
		s.SetTimeScale(0.5)
		s.ScheduleUpdate(&system{name: "a", log: &calls, fn: func(dt float64) { got = dt }}, 0, false)

		s.Update(0.5)

		assert.Equal(t, 0.25, got)
	})
}

func TestUpdateMutationDuringSweep(t *testing.T) {
	t.Run("added update runs next frame", func(t *testing.T) {
		var calls []string
		s := New()
		late := &system{name: "late", log: &calls}
		s.ScheduleUpdate(&system{name: "a", log: &calls, fn: func(float64) {
			if !s.IsUpdateScheduled(late) {
				s.ScheduleUpdate(late, -1, false)
			}
		}}, 0, false)

		s.Update(0.016)
		s.Update(0.016)

		assert.Equal(t, []string{"a", "late", "a"}, calls)
	})

	t.Run("removed update stops immediately", func(t *testing.T) {
		var calls []string
		s := New()
		b := &system{name: "b", log: &calls}
		s.ScheduleUpdate(&system{name: "a", log: &calls, fn: func(float64) { s.UnscheduleUpdate(b) }}, 0, false)
		s.ScheduleUpdate(b, 1, false)

		s.Update(0.016)

		assert.Equal(t, []string{"a"}, calls)
		assert.False(t, s.IsUpdateScheduled(b))
	})

	t.Run("self removal", func(t *testing.T) {
		var calls []string
		s := New()
		var a *system
		a = &system{name: "a", log: &calls, fn: func(float64) { s.UnscheduleUpdate(a) }}
		s.ScheduleUpdate(a, 0, false)
		s.ScheduleUpdate(&system{name: "b", log: &calls}, 0, false)

		s.Update(0.016)
		s.Update(0.016)

		assert.Equal(t, []string{"a", "b", "b"}, calls)
	})
}

func TestTimers(t *testing.T) {
	t.Run("fires every interval", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		var fired []float64
		s.Schedule(target, "tick", func(dt float64) { fired = append(fired, dt) }, 0.5, RepeatForever, 0, false)

		for range 5 {
			s.Update(0.25)
		}

		assert.Equal(t, []float64{0.5, 0.5}, fired)
	})

	t.Run("zero interval fires every frame", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		n := 0
		s.Schedule(target, "frame", func(float64) { n++ }, 0, RepeatForever, 0, false)

		for range 3 {
			s.Update(0.016)
		}

		assert.Equal(t, 3, n)
	})

	t.Run("repeat counts extra firings", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		n := 0
		s.Schedule(target, "burst", func(float64) { n++ }, 0.1, 2, 0, false)

		for range 10 {
			s.Update(0.1)
		}

		assert.Equal(t, 3, n)
		assert.False(t, s.IsScheduled(target, "burst"))
	})

	t.Run("delay gates the first firing", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		var at []int
		frame := 0
		s.Schedule(target, "late", func(float64) { at = append(at, frame) }, 1, 1, 2, false)

		for frame = 1; frame <= 6; frame++ {
			s.Update(0.5)
		}

		assert.Equal(t, []int{4, 6}, at)
	})

	t.Run("schedule once", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		var got []float64
		s.ScheduleOnce(target, "once", func(dt float64) { got = append(got, dt) }, 0.75, false)

		for range 4 {
			s.Update(0.25)
		}

		require.Len(t, got, 1)
		assert.InDelta(t, 0.75, got[0], 1e-9)
		assert.False(t, s.IsScheduled(target, "once"))
	})

	t.Run("rescheduling updates the interval", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		var which []string
		s.Schedule(target, "k", func(float64) { which = append(which, "first") }, 1, RepeatForever, 0, false)
		s.Schedule(target, "k", func(float64) { which = append(which, "second") }, 0.5, RepeatForever, 0, false)

		s.Update(0.5)

		assert.Equal(t, []string{"first"}, which)
	})

	t.Run("timers run in registration order", func(t *testing.T) {
		s := New()
		a, b := &struct{ n int }{1}, &struct{ n int }{2}
		var order []string
		s.Schedule(b, "x", func(float64) { order = append(order, "b.x") }, 0, RepeatForever, 0, false)
		s.Schedule(a, "x", func(float64) { order = append(order, "a.x") }, 0, RepeatForever, 0, false)
		s.Schedule(b, "y", func(float64) { order = append(order, "b.y") }, 0, RepeatForever, 0, false)

		s.Update(0.016)

		assert.Equal(t, []string{"b.x", "b.y", "a.x"}, order)
	})

	t.Run("updates run before timers", func(t *testing.T) {
		var calls []string
		s := New()
		target := &struct{}{}
		s.Schedule(target, "t", func(float64) { calls = append(calls, "timer") }, 0, RepeatForever, 0, false)
		s.ScheduleUpdate(&system{name: "update", log: &calls}, 100, false)

		s.Update(0.016)

		assert.Equal(t, []string{"update", "timer"}, calls)
	})

	t.Run("unschedule from own callback", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		n := 0
		s.Schedule(target, "self", func(float64) {
			n++
			s.Unschedule(target, "self")
		}, 0, RepeatForever, 0, false)

		s.Update(0.016)
		s.Update(0.016)

		assert.Equal(t, 1, n)
		assert.False(t, s.IsScheduled(target, "self"))
	})

	t.Run("timer added during sweep waits a frame", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		var calls []string
		s.Schedule(target, "a", func(float64) {
			calls = append(calls, "a")
			s.Schedule(target, "b", func(float64) { calls = append(calls, "b") }, 0, RepeatForever, 0, false)
		}, 0, RepeatForever, 0, false)

		s.Update(0.016)
		s.Update(0.016)

		assert.Equal(t, []string{"a", "a", "b"}, calls)
	})

	t.Run("timer added on a later target waits a frame", func(t *testing.T) {
		s := New()
		a, b := &struct{}{}, &struct{}{}
		var calls []string
		s.Schedule(a, "a", func(float64) {
			if !s.IsScheduled(b, "late") {
				s.Schedule(b, "late", func(float64) { calls = append(calls, "b.late") }, 0, RepeatForever, 0, false)
			}
		}, 0, RepeatForever, 0, false)
		s.Schedule(b, "idle", func(float64) { calls = append(calls, "b.idle") }, 0, RepeatForever, 0, false)

		s.Update(0.1)
		assert.Equal(t, []string{"b.idle"}, calls)
		assert.True(t, s.IsScheduled(b, "late"))

		s.Update(0.1)
		assert.Equal(t, []string{"b.idle", "b.idle", "b.late"}, calls)
	})

	t.Run("timer added on a new target waits a frame", func(t *testing.T) {
		s := New()
		a, b := &struct{}{}, &struct{}{}
		n := 0
		s.ScheduleOnce(a, "spawn", func(float64) {
			s.Schedule(b, "late", func(float64) { n++ }, 0, RepeatForever, 0, false)
		}, 0, false)

		s.Update(0.1)
		assert.Equal(t, 0, n)

		s.Update(0.1)
		assert.Equal(t, 1, n)
	})

	t.Run("timer added from an update callback waits a frame", func(t *testing.T) {
		var calls []string
		s := New()
		target := &struct{}{}
		s.ScheduleUpdate(&system{name: "update", log: &calls, fn: func(float64) {
			if !s.IsScheduled(target, "t") {
				s.Schedule(target, "t", func(float64) { calls = append(calls, "timer") }, 0, RepeatForever, 0, false)
			}
		}}, 0, false)

		s.Update(0.1)
		assert.Equal(t, []string{"update"}, calls)

		s.Update(0.1)
		assert.Equal(t, []string{"update", "update", "timer"}, calls)
	})

	t.Run("timer added and removed in one sweep never fires", func(t *testing.T) {
		s := New()
		a, b := &struct{}{}, &struct{}{}
		n := 0
		s.ScheduleOnce(a, "flip", func(float64) {
			s.Schedule(b, "t", func(float64) { n++ }, 0, RepeatForever, 0, false)
			s.Unschedule(b, "t")
		}, 0, false)

		s.Update(0.1)
		s.Update(0.1)
		assert.Equal(t, 0, n)
		assert.False(t, s.IsScheduled(b, "t"))
	})
}

func TestPause(t *testing.T) {
	t.Run("paused timers keep elapsed time", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		n := 0
		s.Schedule(target, "t", func(float64) { n++ }, 1, RepeatForever, 0, false)

		s.Update(0.75)
		s.PauseTarget(target)
		s.Update(5)
		assert.Equal(t, 0, n)
		assert.True(t, s.IsTargetPaused(target))

		s.ResumeTarget(target)
		s.Update(0.25)
		assert.Equal(t, 1, n)
	})

	t.Run("paused update is skipped", func(t *testing.T) {
		var calls []string
		s := New()
		a := &system{name: "a", log: &calls}
		s.ScheduleUpdate(a, 0, false)
		s.ScheduleUpdate(&system{name: "b", log: &calls}, 1, false)
		s.PauseTarget(a)

		s.Update(0.016)

		assert.Equal(t, []string{"b"}, calls)
	})

	t.Run("scheduled paused", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		n := 0
		s.Schedule(target, "t", func(float64) { n++ }, 0, RepeatForever, 0, true)

		s.Update(1)

		assert.Equal(t, 0, n)
	})

	t.Run("pause all returns running targets only", func(t *testing.T) {
		var calls []string
		s := New()
		a := &system{name: "a", log: &calls}
		b := &system{name: "b", log: &calls}
		c := &system{name: "c", log: &calls}
		s.ScheduleUpdate(a, 0, false)
		s.ScheduleUpdate(b, 0, true)
		s.ScheduleUpdate(c, 0, false)

		paused := s.PauseAllTargets()
		assert.ElementsMatch(t, []any{a, c}, paused)

		s.ResumeTargets(paused)
		s.Update(0.016)
		assert.Equal(t, []string{"a", "c"}, calls)
	})

	t.Run("min priority spares low priorities", func(t *testing.T) {
		var calls []string
		s := New()
		s.ScheduleUpdate(&system{name: "system", log: &calls}, -100, false)
		s.ScheduleUpdate(&system{name: "game", log: &calls}, 0, false)

		s.PauseAllTargetsWithMinPriority(-10)
		s.Update(0.016)

		assert.Equal(t, []string{"system"}, calls)
	})
}

func TestUnschedule(t *testing.T) {
	t.Run("missing entries are no-ops", func(t *testing.T) {
		s := New()
		target := &struct{}{}
		assert.NotPanics(t, func() {
			s.Unschedule(target, "nope")
			s.UnscheduleUpdate(&system{})
			s.UnscheduleAllForTarget(target)
			s.PauseTarget(target)
		})
		assert.False(t, s.IsTargetPaused(target))
	})

	t.Run("all for target", func(t *testing.T) {
		var calls []string
		s := New()
		a := &system{name: "a", log: &calls}
		s.ScheduleUpdate(a, 0, false)
		s.Schedule(a, "t", func(float64) { calls = append(calls, "t") }, 0, RepeatForever, 0, false)

		s.UnscheduleAllForTarget(a)
		s.Update(0.016)

		assert.Empty(t, calls)
		assert.False(t, s.IsUpdateScheduled(a))
	})

	t.Run("all", func(t *testing.T) {
		var calls []string
		s := New()
		for i := range 3 {
			sys := &system{name: fmt.Sprint(i), log: &calls}
			s.ScheduleUpdate(sys, i, false)
			s.Schedule(sys, "t", func(float64) { calls = append(calls, "t") }, 0, RepeatForever, 0, false)
		}

		s.UnscheduleAll()
		s.Update(0.016)

		assert.Empty(t, calls)
		assert.Equal(t, "schedule: 0 updates, 0 timers on 0 targets", s.String())
	})
}

func TestMisuse(t *testing.T) {
	s := New()
	fn := func(float64) {}
	target := &struct{}{}

	assert.Panics(t, func() { s.ScheduleUpdate(nil, 0, false) })
	assert.Panics(t, func() { s.Schedule(nil, "k", fn, 0, 0, 0, false) })
	assert.Panics(t, func() { s.Schedule(target, "k", nil, 0, 0, 0, false) })
	assert.Panics(t, func() { s.Schedule(target, "", fn, 0, 0, 0, false) })
	assert.Panics(t, func() { s.Schedule(target, "k", fn, -1, 0, 0, false) })
	assert.Panics(t, func() { s.SetTimeScale(-1) })
}

func TestPanickingCallbackIsUnscheduled(t *testing.T) {
	s := quiet(New())
	target := &struct{}{}
	var calls []string
	s.Schedule(target, "bad", func(float64) { panic("boom") }, 0, RepeatForever, 0, false)
	s.ScheduleUpdate(&system{name: "ok", log: &calls}, 0, false)
	bad := &system{name: "bad", log: &calls, fn: func(float64) { panic("boom") }}
	s.ScheduleUpdate(bad, 1, false)

	require.NotPanics(t, func() { s.Update(0.016) })
	s.Update(0.016)

	assert.False(t, s.IsScheduled(target, "bad"))
	assert.False(t, s.IsUpdateScheduled(bad))
	assert.Equal(t, []string{"ok", "bad", "ok"}, calls)
}
