package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is a node tree that the Director runs. Only the running scene
// receives ticks and is drawn; a scene pushed below another keeps its state
// with its actions and timers paused.
type Scene struct {
	// ClearColor fills the screen before the tree is drawn when its alpha is
	// above zero.
	ClearColor Color

	root  *Node
	op    ebiten.DrawImageOptions
	stats drawStats
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	return &Scene{root: NewContainer("root")}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// IsRunning reports whether the scene is the director's running scene.
func (s *Scene) IsRunning() bool {
	return s.root.running
}

// Draw draws the scene tree onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	s.stats = drawStats{}
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	drawTree(screen, s.root, identityTransform, 1, false, &s.op, &s.stats)
}

// UpdateTransforms refreshes world transforms without drawing, so that
// LocalToWorld and WorldToLocal are current between draws.
func (s *Scene) UpdateTransforms() {
	updateWorldTransform(s.root, identityTransform, 1, false)
}

func (s *Scene) onEnter(d *Director) {
	s.root.enter(d)
}

func (s *Scene) onExit() {
	s.root.exit()
}

func (s *Scene) cleanup() {
	s.root.Cleanup()
}
