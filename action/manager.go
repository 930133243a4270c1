package action

import (
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/phanxgames/grove/internal/loop"
)

// EventType identifies a lifecycle transition reported by the Manager.
type EventType uint8

const (
	// EventStarted fires after AddAction has started an action.
	EventStarted EventType = iota
	// EventFinished fires when an action completes and is removed.
	EventFinished
	// EventRemoved fires when an action is removed before completing.
	EventRemoved
	// EventFailed fires when an action panics during Step and is dropped.
	EventFailed
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventFinished:
		return "finished"
	case EventRemoved:
		return "removed"
	case EventFailed:
		return "failed"
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Event describes a lifecycle transition of one action.
type Event struct {
	Type   EventType
	Action Action
	Target Target
	// Err is set for EventFailed.
	Err error
}

// element is the registry entry for one target.
type element struct {
	target  Target
	actions []Action
	// actionIndex is the position of the action being stepped, or -1.
	actionIndex int
	// end bounds the sweep to the actions present when it began.
	end     int
	current Action
	// salvaged is set when current is removed during its own step. Its Stop
	// is deferred until the step returns.
	salvaged bool
	paused   bool
}

// Manager advances every running action once per frame.
//
// Targets are held by identity only. A target that is about to be destroyed
// must be purged with RemoveAllActionsFromTarget first.
//
// Manager is not safe for concurrent use; it belongs to the goroutine running
// the frame loop.
type Manager struct {
	elements []*element
	byTarget map[Target]*element

	// cursor is the index of the element being updated, or -1. end bounds
	// the sweep to the elements present when it began.
	cursor  int
	end     int
	current *element
	evicted bool

	listener func(Event)
	logger   *log.Logger
	guard    loop.Guard
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	return &Manager{
		byTarget: make(map[Target]*element),
		cursor:   -1,
		logger:   log.New(os.Stderr, "[grove] ", 0),
		guard:    loop.NewGuard("action.Manager"),
	}
}

// SetListener registers fn to receive lifecycle events. Pass nil to remove
// it.
func (m *Manager) SetListener(fn func(Event)) { m.listener = fn }

// SetLogger replaces the logger used to report recovered panics.
func (m *Manager) SetLogger(l *log.Logger) {
	if l == nil {
		panic("action: nil logger")
	}
	m.logger = l
}

// SetOwnerCheck enables or disables the frame-loop goroutine check.
func (m *Manager) SetOwnerCheck(enabled bool) { m.guard.SetEnabled(enabled) }

func (m *Manager) emit(t EventType, a Action, target Target, err error) {
	if m.listener != nil {
		m.listener(Event{Type: t, Action: a, Target: target, Err: err})
	}
}

// AddAction registers a with target and starts it. When the target is new to
// the Manager it is registered with the given paused state; otherwise paused
// is ignored. A nil action or target, or an action that is already running,
// panics.
func (m *Manager) AddAction(a Action, target Target, paused bool) {
	m.guard.Check()
	if a == nil {
		panic("action: cannot add nil action")
	}
	if target == nil {
		panic("action: cannot add action with nil target")
	}
	if a.Target() != nil {
		panic("action: action is already running")
	}
	e := m.byTarget[target]
	if e == nil {
		e = &element{target: target, actionIndex: -1, paused: paused}
		m.elements = append(m.elements, e)
		m.byTarget[target] = e
	}
	a.Start(target)
	e.actions = append(e.actions, a)
	m.emit(EventStarted, a, target, nil)
}

// RemoveAction stops and removes a. Unknown actions are ignored.
func (m *Manager) RemoveAction(a Action) {
	m.guard.Check()
	if a == nil || a.OriginalTarget() == nil {
		return
	}
	e := m.byTarget[a.OriginalTarget()]
	if e == nil {
		return
	}
	if i := slices.Index(e.actions, a); i >= 0 {
		m.removeActionAt(e, i, EventRemoved, nil)
	}
}

// RemoveActionByTag removes the first action on target with tag.
func (m *Manager) RemoveActionByTag(tag int, target Target) {
	m.guard.Check()
	mustTag(tag)
	e := m.byTarget[target]
	if e == nil {
		return
	}
	if i := indexByTag(e.actions, tag); i >= 0 {
		m.removeActionAt(e, i, EventRemoved, nil)
	}
}

// RemoveAllActionsByTag removes every action on target with tag.
func (m *Manager) RemoveAllActionsByTag(tag int, target Target) {
	m.guard.Check()
	mustTag(tag)
	e := m.byTarget[target]
	if e == nil {
		return
	}
	for i := 0; i < len(e.actions); {
		if e.actions[i].Tag() == tag {
			m.removeActionAt(e, i, EventRemoved, nil)
			continue
		}
		i++
	}
}

// RemoveAllActionsFromTarget removes every action on target and forgets the
// target.
func (m *Manager) RemoveAllActionsFromTarget(target Target) {
	m.guard.Check()
	if e := m.byTarget[target]; e != nil {
		m.clearElement(e)
	}
}

// RemoveAllActions removes every action from every target.
func (m *Manager) RemoveAllActions() {
	m.guard.Check()
	for _, e := range slices.Clone(m.elements) {
		m.clearElement(e)
	}
}

func (m *Manager) clearElement(e *element) {
	for len(e.actions) > 0 {
		m.removeActionAt(e, 0, EventRemoved, nil)
	}
}

// removeActionAt removes e.actions[i], stopping it unless it is the action
// being stepped right now.
func (m *Manager) removeActionAt(e *element, i int, reason EventType, err error) {
	a := e.actions[i]
	if a == e.current {
		e.salvaged = true
	} else {
		a.Stop()
	}

	e.actions = slices.Delete(e.actions, i, i+1)
	if e.actionIndex >= i {
		e.actionIndex--
	}
	if i < e.end {
		e.end--
	}
	m.emit(reason, a, e.target, err)

	if len(e.actions) == 0 {
		m.evict(e)
	}
}

// evict forgets e. The element being updated is only unlinked once its
// update finishes.
func (m *Manager) evict(e *element) {
	if m.current == e {
		m.evicted = true
		return
	}
	m.deleteElement(e)
}

func (m *Manager) deleteElement(e *element) {
	if i := slices.Index(m.elements, e); i >= 0 {
		m.elements = slices.Delete(m.elements, i, i+1)
		if m.cursor >= i {
			m.cursor--
		}
		if i < m.end {
			m.end--
		}
	}
	delete(m.byTarget, e.target)
}

// ActionByTag returns the first action on target with tag.
func (m *Manager) ActionByTag(tag int, target Target) (Action, bool) {
	m.guard.Check()
	mustTag(tag)
	e := m.byTarget[target]
	if e == nil {
		return nil, false
	}
	if i := indexByTag(e.actions, tag); i >= 0 {
		return e.actions[i], true
	}
	return nil, false
}

// NumberOfRunningActionsInTarget returns how many actions target has,
// including paused ones.
func (m *Manager) NumberOfRunningActionsInTarget(target Target) int {
	m.guard.Check()
	if e := m.byTarget[target]; e != nil {
		return len(e.actions)
	}
	return 0
}

// NumberOfTargets returns how many targets have at least one action.
func (m *Manager) NumberOfTargets() int { return len(m.byTarget) }

// PauseTarget stops advancing target's actions.
func (m *Manager) PauseTarget(target Target) {
	m.guard.Check()
	if e := m.byTarget[target]; e != nil {
		e.paused = true
	}
}

// ResumeTarget resumes target's actions.
func (m *Manager) ResumeTarget(target Target) {
	m.guard.Check()
	if e := m.byTarget[target]; e != nil {
		e.paused = false
	}
}

// IsTargetPaused reports whether target is paused. Unknown targets are not.
func (m *Manager) IsTargetPaused(target Target) bool {
	if e := m.byTarget[target]; e != nil {
		return e.paused
	}
	return false
}

// PauseAllRunningActions pauses every target and returns those that were
// running, for a later ResumeTargets. Targets that were already paused are
// not returned, so they stay paused afterwards.
func (m *Manager) PauseAllRunningActions() []Target {
	m.guard.Check()
	var paused []Target
	for _, e := range m.elements {
		if !e.paused {
			e.paused = true
			paused = append(paused, e.target)
		}
	}
	return paused
}

// ResumeTargets resumes every target in targets.
func (m *Manager) ResumeTargets(targets []Target) {
	for _, t := range targets {
		m.ResumeTarget(t)
	}
}

// Update steps every action of every unpaused target by dt. Finished actions
// are stopped and removed. Actions may add or remove actions, including
// themselves, while they are being stepped. Actions added during Update are
// started at once but first stepped on the next frame.
//
// A panic inside an action's Step is recovered: the action is dropped, the
// failure is logged and reported as EventFailed, and the frame continues.
func (m *Manager) Update(dt float64) {
	m.guard.Check()
	m.end = len(m.elements)
	for m.cursor = 0; m.cursor < m.end; m.cursor++ {
		e := m.elements[m.cursor]
		m.current = e
		m.evicted = false

		if !e.paused {
			e.end = len(e.actions)
			for e.actionIndex = 0; e.actionIndex < e.end; e.actionIndex++ {
				a := e.actions[e.actionIndex]
				e.current = a
				e.salvaged = false

				err := step(a, dt)

				switch {
				case e.salvaged:
					a.Stop()
				case err != nil:
					m.logger.Printf("dropping %T: %v", a, err)
					m.removeActionAt(e, e.actionIndex, EventFailed, err)
				case a.IsDone():
					a.Stop()
					m.removeActionAt(e, e.actionIndex, EventFinished, nil)
				}
				e.current = nil
			}
			e.actionIndex = -1
			e.end = 0
		}

		m.current = nil
		if m.evicted && len(e.actions) == 0 {
			m.deleteElement(e)
		}
	}
	m.cursor = -1
	m.end = 0
}

// step runs a.Step(dt), converting a panic into an error.
func step(a Action, dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrActionPanicked, r)
		}
	}()
	a.Step(dt)
	return nil
}

func indexByTag(actions []Action, tag int) int {
	return slices.IndexFunc(actions, func(a Action) bool { return a.Tag() == tag })
}

func mustTag(tag int) {
	if tag == TagInvalid {
		panic("action: invalid tag")
	}
}
