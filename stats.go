package grove

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// statsRefresh is how often the stats overlay redraws, in seconds.
const statsRefresh = 0.5

// newStatsNode creates the overlay node that displays FPS, TPS and runtime
// counters. It redraws itself from a scheduler timer.
func newStatsNode(d *Director) *Node {
	// 220x64 fits four lines of debug text.
	img := ebiten.NewImage(220, 64)

	node := NewSprite("stats", img)
	node.ZIndex = 1 << 20

	node.Schedule("stats", func(float64) {
		img.Clear()
		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, statsText(d))
	}, statsRefresh)

	return node
}

func statsText(d *Director) string {
	return fmt.Sprintf("FPS: %.1f  TPS: %.1f\nframe: %d\nactions on %d targets\n%s",
		ebiten.ActualFPS(), ebiten.ActualTPS(), d.totalFrames, d.actions.NumberOfTargets(), d.scheduler)
}
