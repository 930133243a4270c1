package grove

import (
	"fmt"
	"os"
	"time"
)

// frameStats holds per-frame timing and draw metrics.
// Only populated when the director is in debug mode.
type frameStats struct {
	tickTime time.Duration
	drawTime time.Duration
	nodes    int
	sprites  int
}

// debugLog prints timing and runtime stats through the director's logger.
// It reports once per second of ticks to keep the output readable.
func (d *Director) debugLog() {
	if !d.debug || d.totalFrames%uint64(d.cfg.TPS) != 0 {
		return
	}
	st := d.frame
	d.logger.Printf("tick: %v | draw: %v | total: %v",
		st.tickTime, st.drawTime, st.tickTime+st.drawTime)
	d.logger.Printf("nodes: %d | sprites: %d | action targets: %d | %s",
		st.nodes, st.sprites, d.actions.NumberOfTargets(), d.scheduler)
}

// debugCheckDisposed panics with a descriptive message when a disposed node is
// used in a tree operation. Only called in debug mode.
func debugCheckDisposed(n *Node, op string) {
	if n.disposed {
		panic(fmt.Sprintf("grove debug: %s on disposed node %q", op, n.Name))
	}
}

// debugCheckTreeDepth warns on stderr if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(n *Node) {
	depth := 0
	for p := n; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[grove] warning: tree depth %d exceeds %d (node %q)\n",
			depth, debugMaxTreeDepth, n.Name)
	}
}

// debugCheckChildCount warns on stderr if a node has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(n *Node) {
	if len(n.children) > debugMaxChildCount {
		_, _ = fmt.Fprintf(os.Stderr, "[grove] warning: node %q has %d children (threshold %d)\n",
			n.Name, len(n.children), debugMaxChildCount)
	}
}

// debugging reports whether n belongs to a director in debug mode. Nodes
// that have not yet entered a running scene are not checked.
func (n *Node) debugging() bool {
	return n.director != nil && n.director.debug
}
