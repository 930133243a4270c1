// Package loop holds helpers shared by the frame-loop registries.
package loop

import (
	"fmt"

	"github.com/petermattis/goid"
)

// Guard pins a registry to the goroutine of the first guarded call made
// after it is enabled. That call may be setup work such as adding an action,
// not necessarily the first tick. grove is single-threaded: the Scheduler and
// the action Manager must be used from one goroutine only. The check costs a
// goid lookup, so it only runs while enabled (debug mode).
type Guard struct {
	name    string
	owner   int64
	enabled bool
}

// NewGuard returns a disabled guard labelled with name for panic messages.
func NewGuard(name string) Guard {
	return Guard{name: name}
}

// SetEnabled turns the ownership check on or off. Turning it on forgets any
// previously recorded owner.
func (g *Guard) SetEnabled(enabled bool) {
	g.enabled = enabled
	g.owner = 0
}

// Enabled reports whether the ownership check runs.
func (g *Guard) Enabled() bool {
	return g.enabled
}

// Check records the calling goroutine on first use and panics if a later
// call comes from a different goroutine.
func (g *Guard) Check() {
	if !g.enabled {
		return
	}
	id := goid.Get()
	if g.owner == 0 {
		g.owner = id
		return
	}
	if g.owner != id {
		panic(fmt.Sprintf("%s: used from goroutine %d, owned by goroutine %d", g.name, id, g.owner))
	}
}
