package grove

// --- Appearance properties ---
//
// These implement the Tinter, Shower, Flipper, Framer and Tweener
// capabilities of package action.

// Tint returns the RGB components of the node's Color.
func (n *Node) Tint() (r, g, b float64) { return n.Color.R, n.Color.G, n.Color.B }

// SetTint sets the RGB components of the node's Color. Alpha is untouched.
func (n *Node) SetTint(r, g, b float64) {
	n.Color.R, n.Color.G, n.Color.B = r, g, b
}

// IsVisible reports whether the node and its subtree are drawn.
func (n *Node) IsVisible() bool { return n.Visible }

// SetVisible shows or hides the node and its subtree.
func (n *Node) SetVisible(v bool) { n.Visible = v }

// IsFlippedX reports whether the node's image is mirrored horizontally.
func (n *Node) IsFlippedX() bool { return n.FlipX }

// SetFlipX mirrors the node's image horizontally. Children are not affected.
func (n *Node) SetFlipX(flip bool) { n.FlipX = flip }

// IsFlippedY reports whether the node's image is mirrored vertically.
func (n *Node) IsFlippedY() bool { return n.FlipY }

// SetFlipY mirrors the node's image vertically. Children are not affected.
func (n *Node) SetFlipY(flip bool) { n.FlipY = flip }

// Frame returns the index into Frames that is drawn.
func (n *Node) Frame() int { return n.frame }

// SetFrame selects the drawn frame. Panics if index is outside Frames.
func (n *Node) SetFrame(index int) {
	if index < 0 || index >= len(n.Frames) {
		panic("grove: frame index out of range")
	}
	n.frame = index
}

// UpdateTween applies a keyed value from a Tween action. The keys x, y,
// rotation, scale_x, scale_y, skew_x, skew_y and alpha set the matching
// field; any other key is passed to OnTween.
func (n *Node) UpdateTween(key string, value float64) {
	switch key {
	case "x":
		n.SetPosition(value, n.Y)
	case "y":
		n.SetPosition(n.X, value)
	case "rotation":
		n.SetAngle(value)
	case "scale_x":
		n.SetScale(value, n.ScaleY)
	case "scale_y":
		n.SetScale(n.ScaleX, value)
	case "skew_x":
		n.SetSkew(value, n.SkewY)
	case "skew_y":
		n.SetSkew(n.SkewX, value)
	case "alpha":
		n.SetOpacity(value)
	default:
		if n.OnTween != nil {
			n.OnTween(key, value)
		}
	}
}
