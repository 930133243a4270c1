package grove

import (
	"slices"

	"github.com/phanxgames/grove/action"
	"github.com/phanxgames/grove/schedule"
)

// queue holds actions and timers requested before the node first enters a
// running scene. They are registered with the director on enter.
type queue struct {
	actions  []action.Action
	update   bool
	priority int
	timers   []queuedTimer
}

type queuedTimer struct {
	key      string
	fn       func(dt float64)
	interval float64
	repeat   uint
	delay    float64
}

func (q *queue) timer(key string) int {
	return slices.IndexFunc(q.timers, func(t queuedTimer) bool { return t.key == key })
}

func (q *queue) reset() {
	clear(q.actions)
	q.actions = q.actions[:0]
	q.update = false
	q.timers = nil
}

// --- Lifecycle ---

// IsRunning reports whether the node is part of the running scene.
func (n *Node) IsRunning() bool { return n.running }

// enter binds n and its subtree to d and resumes their actions and timers.
func (n *Node) enter(d *Director) {
	n.director = d
	n.running = true
	n.flushQueue()
	n.ResumeSchedulerAndActions()
	for _, c := range n.children {
		c.enter(d)
	}
	if n.OnEnter != nil {
		n.OnEnter()
	}
}

// exit pauses n and its subtree. Actions and timers stay registered.
func (n *Node) exit() {
	if n.OnExit != nil {
		n.OnExit()
	}
	for _, c := range n.children {
		c.exit()
	}
	n.PauseSchedulerAndActions()
	n.running = false
}

func (n *Node) flushQueue() {
	q := &n.queued
	for _, a := range q.actions {
		n.director.actions.AddAction(a, n, false)
	}
	if q.update {
		n.director.scheduler.ScheduleUpdate(n, q.priority, false)
	}
	for _, t := range q.timers {
		n.director.scheduler.Schedule(n, t.key, t.fn, t.interval, t.repeat, t.delay, false)
	}
	q.reset()
}

// Cleanup stops every action and unschedules every timer of n and its
// subtree. The nodes stay usable.
func (n *Node) Cleanup() {
	n.StopAllActions()
	n.UnscheduleAll()
	for _, c := range n.children {
		c.Cleanup()
	}
}

// PauseSchedulerAndActions suspends the node's actions and timers.
func (n *Node) PauseSchedulerAndActions() {
	if n.director == nil {
		return
	}
	n.director.scheduler.PauseTarget(n)
	n.director.actions.PauseTarget(n)
}

// ResumeSchedulerAndActions resumes the node's actions and timers.
func (n *Node) ResumeSchedulerAndActions() {
	if n.director == nil {
		return
	}
	n.director.scheduler.ResumeTarget(n)
	n.director.actions.ResumeTarget(n)
}

// --- Actions ---

// RunAction starts a on this node and returns it. Before the node first
// enters a running scene the action is queued and starts on enter.
func (n *Node) RunAction(a action.Action) action.Action {
	if a == nil {
		panic("grove: cannot run nil action")
	}
	if n.director == nil {
		if slices.Contains(n.queued.actions, a) {
			panic("grove: action is already queued")
		}
		n.queued.actions = append(n.queued.actions, a)
		return a
	}
	n.director.actions.AddAction(a, n, !n.running)
	return a
}

// StopAllActions removes every action running on the node.
func (n *Node) StopAllActions() {
	if n.director == nil {
		clear(n.queued.actions)
		n.queued.actions = n.queued.actions[:0]
		return
	}
	n.director.actions.RemoveAllActionsFromTarget(n)
}

// StopAction removes a from the node.
func (n *Node) StopAction(a action.Action) {
	if n.director == nil {
		n.queued.actions = slices.DeleteFunc(n.queued.actions, func(q action.Action) bool { return q == a })
		return
	}
	n.director.actions.RemoveAction(a)
}

// StopActionByTag removes the first action tagged tag.
func (n *Node) StopActionByTag(tag int) {
	if n.director == nil {
		if i := slices.IndexFunc(n.queued.actions, func(q action.Action) bool { return q.Tag() == tag }); i >= 0 {
			n.queued.actions = slices.Delete(n.queued.actions, i, i+1)
		}
		return
	}
	n.director.actions.RemoveActionByTag(tag, n)
}

// ActionByTag returns the first action tagged tag.
func (n *Node) ActionByTag(tag int) (action.Action, bool) {
	if n.director == nil {
		if i := slices.IndexFunc(n.queued.actions, func(q action.Action) bool { return q.Tag() == tag }); i >= 0 {
			return n.queued.actions[i], true
		}
		return nil, false
	}
	return n.director.actions.ActionByTag(tag, n)
}

// NumberOfRunningActions returns the number of actions on the node,
// including queued ones.
func (n *Node) NumberOfRunningActions() int {
	if n.director == nil {
		return len(n.queued.actions)
	}
	return n.director.actions.NumberOfRunningActionsInTarget(n)
}

// --- Scheduling ---

// Update runs OnUpdate. The scheduler calls it every frame once
// ScheduleUpdate has been called.
func (n *Node) Update(dt float64) {
	if n.OnUpdate != nil {
		n.OnUpdate(dt)
	}
}

// ScheduleUpdate calls Update every frame at priority 0.
func (n *Node) ScheduleUpdate() { n.ScheduleUpdateWithPriority(0) }

// ScheduleUpdateWithPriority calls Update every frame. Lower priorities run
// first.
func (n *Node) ScheduleUpdateWithPriority(priority int) {
	if n.director == nil {
		n.queued.update, n.queued.priority = true, priority
		return
	}
	n.director.scheduler.ScheduleUpdate(n, priority, !n.running)
}

// UnscheduleUpdate stops the per-frame Update call.
func (n *Node) UnscheduleUpdate() {
	if n.director == nil {
		n.queued.update = false
		return
	}
	n.director.scheduler.UnscheduleUpdate(n)
}

// Schedule calls fn every interval seconds (every frame when interval is 0)
// until unscheduled.
func (n *Node) Schedule(key string, fn func(dt float64), interval float64) {
	n.ScheduleRepeat(key, fn, interval, schedule.RepeatForever, 0)
}

// ScheduleRepeat calls fn repeat+1 times, every interval seconds, the first
// time after delay.
func (n *Node) ScheduleRepeat(key string, fn func(dt float64), interval float64, repeat uint, delay float64) {
	if n.director == nil {
		if fn == nil || key == "" || interval < 0 || delay < 0 {
			panic("grove: invalid timer")
		}
		if i := n.queued.timer(key); i >= 0 {
			n.queued.timers[i].interval = interval
			return
		}
		n.queued.timers = append(n.queued.timers, queuedTimer{key, fn, interval, repeat, delay})
		return
	}
	n.director.scheduler.Schedule(n, key, fn, interval, repeat, delay, !n.running)
}

// ScheduleOnce calls fn once after delay seconds.
func (n *Node) ScheduleOnce(key string, fn func(dt float64), delay float64) {
	n.ScheduleRepeat(key, fn, 0, 0, delay)
}

// Unschedule removes the timer registered under key.
func (n *Node) Unschedule(key string) {
	if n.director == nil {
		if i := n.queued.timer(key); i >= 0 {
			n.queued.timers = slices.Delete(n.queued.timers, i, i+1)
		}
		return
	}
	n.director.scheduler.Unschedule(n, key)
}

// IsScheduled reports whether a timer is registered under key.
func (n *Node) IsScheduled(key string) bool {
	if n.director == nil {
		return n.queued.timer(key) >= 0
	}
	return n.director.scheduler.IsScheduled(n, key)
}

// UnscheduleAll removes the update callback and every timer of the node.
func (n *Node) UnscheduleAll() {
	if n.director == nil {
		n.queued.update = false
		n.queued.timers = nil
		return
	}
	n.director.scheduler.UnscheduleAllForTarget(n)
}
