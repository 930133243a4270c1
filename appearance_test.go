package grove

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestTint(t *testing.T) {
	n := NewRect("r", 1, 1, Color{1, 1, 1, 0.5})
	n.SetTint(0.2, 0.4, 0.6)
	if r, g, b := n.Tint(); r != 0.2 || g != 0.4 || b != 0.6 {
		t.Errorf("Tint() = (%v, %v, %v), want (0.2, 0.4, 0.6)", r, g, b)
	}
	if n.Color.A != 0.5 {
		t.Errorf("SetTint changed alpha to %v", n.Color.A)
	}
}

func TestVisibilityAndFlips(t *testing.T) {
	n := NewContainer("n")
	n.SetVisible(false)
	n.SetFlipX(true)
	n.SetFlipY(true)
	if n.IsVisible() || !n.IsFlippedX() || !n.IsFlippedY() {
		t.Errorf("visible=%v flipX=%v flipY=%v", n.IsVisible(), n.IsFlippedX(), n.IsFlippedY())
	}
}

func TestSetFrame(t *testing.T) {
	n := NewAnimatedSprite("anim", []*ebiten.Image{ebiten.NewImage(2, 2), ebiten.NewImage(2, 2)})
	n.SetFrame(1)
	if n.Frame() != 1 {
		t.Errorf("Frame() = %d, want 1", n.Frame())
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out of range frame")
		}
	}()
	n.SetFrame(2)
}

func TestUpdateTween(t *testing.T) {
	n := NewContainer("n")
	var custom []string
	n.OnTween = func(key string, v float64) { custom = append(custom, key) }

	n.UpdateTween("x", 1)
	n.UpdateTween("y", 2)
	n.UpdateTween("rotation", 3)
	n.UpdateTween("scale_x", 4)
	n.UpdateTween("scale_y", 5)
	n.UpdateTween("skew_x", 6)
	n.UpdateTween("skew_y", 7)
	n.UpdateTween("alpha", 0.5)
	n.UpdateTween("glow", 1)

	if n.X != 1 || n.Y != 2 || n.Rotation != 3 || n.ScaleX != 4 || n.ScaleY != 5 ||
		n.SkewX != 6 || n.SkewY != 7 || n.Alpha != 0.5 {
		t.Errorf("UpdateTween fields = x %v y %v rot %v scale (%v, %v) skew (%v, %v) alpha %v",
			n.X, n.Y, n.Rotation, n.ScaleX, n.ScaleY, n.SkewX, n.SkewY, n.Alpha)
	}
	if len(custom) != 1 || custom[0] != "glow" {
		t.Errorf("OnTween keys = %v, want [glow]", custom)
	}
}
