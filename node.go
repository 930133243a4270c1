package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// nodeIDCounter is a plain counter (no atomic, grove is single-threaded).
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch on the hot path.
//
// Node implements every target capability of package action, so any action
// can run on any node.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType
	Tag  int

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Computed during traversal
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Appearance
	Alpha        float64
	Color        Color
	Visible      bool
	FlipX, FlipY bool
	BlendMode    BlendMode
	ZIndex       int

	// Sprite fields (NodeTypeSprite). Frames wins over Image; with neither
	// the node draws a solid Color rectangle of Size.
	Image  *ebiten.Image
	Frames []*ebiten.Image
	Size   Vec2
	frame  int

	// Metadata
	UserData any
	EntityID uint32

	// Per-node callbacks (nil by default; zero cost when unused)
	OnUpdate func(dt float64)
	OnTween  func(key string, value float64)
	OnEnter  func()
	OnExit   func()

	// Runtime
	director *Director
	running  bool
	queued   queue

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node // reused buffer for ZIndex-sorted traversal order
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
	n.childrenSorted = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewSprite creates a sprite node that draws img.
func NewSprite(name string, img *ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Image: img}
	nodeDefaults(n)
	if img != nil {
		b := img.Bounds()
		n.Size = Vec2{float64(b.Dx()), float64(b.Dy())}
	}
	return n
}

// NewRect creates a sprite node that draws a solid w x h rectangle.
func NewRect(name string, w, h float64, c Color) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Size: Vec2{w, h}}
	nodeDefaults(n)
	n.Color = c
	return n
}

// NewAnimatedSprite creates a sprite node that draws one of frames, selected
// with SetFrame or an Animate action.
func NewAnimatedSprite(name string, frames []*ebiten.Image) *Node {
	n := &Node{Name: name, Type: NodeTypeSprite, Frames: frames}
	nodeDefaults(n)
	if len(frames) > 0 && frames[0] != nil {
		b := frames[0].Bounds()
		n.Size = Vec2{float64(b.Dx()), float64(b.Dy())}
	}
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// A child added to a running node enters the running scene.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	n.AddChildAt(child, len(n.children))
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("grove: cannot add nil child")
	}
	debug := n.debugging() || child.debugging()
	if debug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("grove: adding child would create a cycle")
	}
	// index is checked against the children left once child is detached.
	limit := len(n.children)
	if child.Parent == n {
		limit--
	}
	if index < 0 || index > limit {
		panic("grove: child index out of range")
	}
	if child.Parent == n {
		n.removeChildByPtr(child)
	} else if child.Parent != nil {
		child.Parent.RemoveChild(child, false)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	markSubtreeDirty(child)
	if debug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
	if n.running && !child.running {
		child.enter(n.director)
	}
}

// RemoveChild detaches child from this node. A running child leaves the
// scene first, which pauses its actions and timers. With cleanup every
// action and timer of the child's subtree is removed as well.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node, cleanup bool) {
	if n.debugging() || child.debugging() {
		debugCheckDisposed(n, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != n {
		panic("grove: child's parent is not this node")
	}
	n.detach(child, cleanup)
	n.removeChildByPtr(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (n *Node) RemoveChildAt(index int, cleanup bool) *Node {
	if index < 0 || index >= len(n.children) {
		panic("grove: child index out of range")
	}
	child := n.children[index]
	n.RemoveChild(child, cleanup)
	return child
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent(cleanup bool) {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n, cleanup)
}

// RemoveChildren detaches all children from this node.
// Children are NOT disposed.
func (n *Node) RemoveChildren(cleanup bool) {
	for _, child := range n.children {
		n.detach(child, cleanup)
	}
	clear(n.children)
	n.children = n.children[:0]
	n.childrenSorted = true
}

func (n *Node) detach(child *Node, cleanup bool) {
	if child.running {
		child.exit()
	}
	if cleanup {
		child.Cleanup()
	}
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// ChildByName returns the first direct child named name.
func (n *Node) ChildByName(name string) (*Node, bool) {
	for _, c := range n.children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// SetChildIndex moves child to a new index among its siblings.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("grove: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("grove: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	// Shift elements to fill the gap and open the target slot.
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	n.childrenSorted = false
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, purges every action and timer
// of its subtree, marks it as disposed and recursively disposes all
// descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	if n.Parent != nil {
		n.Parent.RemoveChild(n, true)
	} else {
		if n.running {
			n.exit()
		}
		n.Cleanup()
	}
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.director = nil
	n.Image = nil
	n.Frames = nil
	n.UserData = nil
	n.OnUpdate = nil
	n.OnTween = nil
	n.OnEnter = nil
	n.OnExit = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
