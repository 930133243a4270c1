package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// drawStats counts the work of one Draw.
type drawStats struct {
	nodes   int
	sprites int
}

// drawTree walks the node tree depth-first, refreshing world transforms and
// drawing every visible sprite. Invisible nodes hide their whole subtree.
func drawTree(target *ebiten.Image, n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool, op *ebiten.DrawImageOptions, stats *drawStats) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}
	stats.nodes++

	if n.Type == NodeTypeSprite {
		if drawSprite(target, n, op) {
			stats.sprites++
		}
	}

	// Traverse children (ZIndex sorted if needed)
	if len(n.children) == 0 {
		return
	}
	children := n.children
	if !n.childrenSorted {
		rebuildSortedChildren(n)
	}
	if n.sortedChildren != nil {
		children = n.sortedChildren
	}
	for _, child := range children {
		drawTree(target, child, n.worldTransform, n.worldAlpha, recompute, op, stats)
	}
}

// drawSprite draws a single sprite node and reports whether anything was
// drawn. Sprites entirely outside target are skipped.
func drawSprite(target *ebiten.Image, n *Node, op *ebiten.DrawImageOptions) bool {
	img := n.Image
	if len(n.Frames) > 0 {
		img = n.Frames[min(n.frame, len(n.Frames)-1)]
	}

	op.GeoM.Reset()
	var w, h float64
	if img == nil {
		if n.Size.X <= 0 || n.Size.Y <= 0 {
			return false
		}
		img = WhitePixel
		w, h = n.Size.X, n.Size.Y
		op.GeoM.Scale(w, h)
	} else {
		b := img.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
	}

	tb := target.Bounds()
	view := Rect{float64(tb.Min.X), float64(tb.Min.Y), float64(tb.Dx()), float64(tb.Dy())}
	if !view.Intersects(worldBounds(n.worldTransform, w, h)) {
		return false
	}

	// Flips mirror the image inside its own bounds.
	if n.FlipX {
		op.GeoM.Scale(-1, 1)
		op.GeoM.Translate(w, 0)
	}
	if n.FlipY {
		op.GeoM.Scale(1, -1)
		op.GeoM.Translate(0, h)
	}
	op.GeoM.Concat(affineGeoM(n.worldTransform))

	// Apply premultiplied color scale
	op.ColorScale.Reset()
	a := float32(n.Color.A * n.worldAlpha)
	op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)
	op.Blend = n.BlendMode.EbitenBlend()

	target.DrawImage(img, op)
	return true
}

// worldBounds returns the axis-aligned bounds of the local rectangle
// (0, 0, w, h) under the affine matrix m.
func worldBounds(m [6]float64, w, h float64) Rect {
	x0, y0 := transformPoint(m, 0, 0)
	x1, y1 := transformPoint(m, w, 0)
	x2, y2 := transformPoint(m, 0, h)
	x3, y3 := transformPoint(m, w, h)
	minX, maxX := min(x0, x1, x2, x3), max(x0, x1, x2, x3)
	minY, maxY := min(y0, y1, y2, y3), max(y0, y1, y2, y3)
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// affineGeoM converts an affine matrix [a, b, c, d, tx, ty] to an ebiten.GeoM.
func affineGeoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order for a node.
// Uses insertion sort: zero allocations, stable, and optimal for the typical
// case of few children that are nearly sorted (O(n) when already sorted).
func rebuildSortedChildren(n *Node) {
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	// Stable insertion sort by ZIndex.
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
}
